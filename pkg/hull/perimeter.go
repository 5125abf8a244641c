package hull

// unionFind is a disjoint-set over triangle indices within one normal group.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		uf.parent[rb] = ra
	} else {
		uf.parent[ra] = rb
	}
}

// connectedComponents splits the triangles of one normal group into sets
// that share at least one vertex. Components keep the order in which their
// first triangle appears.
func connectedComponents(tris [][3]int) [][][3]int {
	uf := newUnionFind(len(tris))
	owner := make(map[int]int)
	for i, tri := range tris {
		for _, v := range tri {
			if j, ok := owner[v]; ok {
				uf.union(i, j)
			} else {
				owner[v] = i
			}
		}
	}

	index := make(map[int]int)
	var comps [][][3]int
	for i, tri := range tris {
		root := uf.find(i)
		k, ok := index[root]
		if !ok {
			k = len(comps)
			index[root] = k
			comps = append(comps, nil)
		}
		comps[k] = append(comps[k], tri)
	}
	return comps
}

// perimeter returns the boundary loop of a set of coplanar triangles as an
// ordered list of vertex indices. Edges used in both directions are interior
// and cancel. The surviving edges are chained through a start->end map so
// their insertion order does not matter.
func perimeter(tris [][3]int, face int) ([]int, error) {
	type edge [2]int
	var order []edge
	count := make(map[edge]int)
	for _, tri := range tris {
		for i := 0; i < 3; i++ {
			e := edge{tri[i], tri[(i+1)%3]}
			rev := edge{e[1], e[0]}
			if count[rev] > 0 {
				count[rev]--
				continue
			}
			if count[e] == 0 {
				order = append(order, e)
			}
			count[e]++
		}
	}

	next := make(map[int]int)
	var first edge
	n := 0
	for _, e := range order {
		c := count[e]
		if c == 0 {
			continue
		}
		if c > 1 {
			return nil, TopologyError{Origin: e[0], Dest: e[1], Face: face, Reason: "edge used twice in one direction"}
		}
		if _, dup := next[e[0]]; dup {
			return nil, TopologyError{Origin: e[0], Dest: e[1], Face: face, Reason: "boundary branches at vertex"}
		}
		if n == 0 {
			first = e
		}
		next[e[0]] = e[1]
		n++
	}
	if n < 3 {
		return nil, DegenerateInputError{Face: face, Reason: "boundary has fewer than 3 edges"}
	}

	loop := make([]int, 0, n)
	v := first[0]
	for {
		loop = append(loop, v)
		w, ok := next[v]
		if !ok {
			return nil, TopologyError{Origin: -1, Dest: -1, Face: face, Reason: "boundary is not closed"}
		}
		v = w
		if v == first[0] {
			break
		}
		if len(loop) > n {
			return nil, TopologyError{Origin: -1, Dest: -1, Face: face, Reason: "boundary does not return to its start"}
		}
	}
	if len(loop) != n {
		return nil, TopologyError{Origin: -1, Dest: -1, Face: face, Reason: "boundary splits into several loops"}
	}
	return loop, nil
}
