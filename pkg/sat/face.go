package sat

import (
	"math"

	"github.com/chazu/hullsat/pkg/hull"
)

// FaceQuery tests every face plane of h1 against h2. The work happens in
// h2's local space. The result is the face with the largest signed distance
// to h2's deepest vertex. A single-face h1 is tested on both sides.
func FaceQuery(t1 hull.Transform, h1 *hull.Hull, t2 hull.Transform, h2 *hull.Hull) FaceQueryResult {
	t := t2.Inverse().Mul(t1)

	best := FaceQueryResult{Index: -1, Distance: -math.MaxFloat64}
	for i := 0; i < h1.FaceCount(); i++ {
		p := h1.Plane(i).Transform(t)
		if d := p.Distance(h2.Support(p.Normal.Neg())); d > best.Distance {
			best = FaceQueryResult{Index: i, Distance: d}
		}
		if h1.FaceCount() == 1 {
			p = p.Flipped()
			if d := p.Distance(h2.Support(p.Normal.Neg())); d > best.Distance {
				best = FaceQueryResult{Index: i, Distance: d, Back: true}
			}
		}
	}
	return best
}
