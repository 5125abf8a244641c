package contact

import (
	"math"
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// reduce keeps at most limit points: the deepest point, then the extremes
// along two tangent directions, then the deepest of the rest. Survivors
// keep their original order.
func reduce(points []ContactPoint, normal v3.Vec, limit int) []ContactPoint {
	t1, t2 := tangentBasis(normal)

	deepest := 0
	minX, maxX, minY, maxY := 0, 0, 0, 0
	minXval, maxXval := math.Inf(1), math.Inf(-1)
	minYval, maxYval := math.Inf(1), math.Inf(-1)
	for i, p := range points {
		if p.Penetration > points[deepest].Penetration {
			deepest = i
		}
		x := p.Position.Dot(t1)
		y := p.Position.Dot(t2)
		if x < minXval {
			minXval, minX = x, i
		}
		if x > maxXval {
			maxXval, maxX = x, i
		}
		if y < minYval {
			minYval, minY = y, i
		}
		if y > maxYval {
			maxYval, maxY = y, i
		}
	}

	keep := make(map[int]bool, limit)
	for _, i := range []int{deepest, minX, maxX, minY, maxY} {
		if len(keep) < limit {
			keep[i] = true
		}
	}
	if len(keep) < limit {
		rest := make([]int, 0, len(points))
		for i := range points {
			if !keep[i] {
				rest = append(rest, i)
			}
		}
		sort.SliceStable(rest, func(a, b int) bool {
			return points[rest[a]].Penetration > points[rest[b]].Penetration
		})
		for _, i := range rest {
			if len(keep) == limit {
				break
			}
			keep[i] = true
		}
	}

	out := make([]ContactPoint, 0, len(keep))
	for i, p := range points {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// tangentBasis returns two unit vectors perpendicular to n and to each other.
func tangentBasis(n v3.Vec) (v3.Vec, v3.Vec) {
	t := v3.Vec{X: 1}
	if math.Abs(n.X) > 0.9 {
		t = v3.Vec{Y: 1}
	}
	t1 := t.Sub(n.MulScalar(t.Dot(n))).Normalize()
	t2 := n.Cross(t1).Normalize()
	return t1, t2
}
