// Package geom is the geometry kernel shared by the sfnt outline decoder and
// the raster scan-line filler: 2D vectors, 3x3 affine matrices, and the
// segment/quadratic-Bezier intersection math the rasterizer walks per
// scan-line.
package geom

import "math"

// epsilon is the absolute tolerance used throughout the intersection and
// quadratic-solving routines below.
const epsilon = 1e-8

// Vec2 is a 2D point or vector in 32-bit float design/pixel units.
type Vec2 struct {
	X, Y float32
}

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float32) Vec2 { return Vec2{a.X * s, a.Y * s} }

// Lerp linearly interpolates between a and b. Precondition: 0 <= t <= 1.
func Lerp(a, b Vec2, t float32) Vec2 {
	return a.Add(b.Sub(a).Scale(t))
}

// QuadBezier evaluates the quadratic Bezier curve (p0, c, p1) at t, using
// the De Casteljau form lerp(lerp(p0,c,t), lerp(c,p1,t), t).
func QuadBezier(p0, c, p1 Vec2, t float32) Vec2 {
	return Lerp(Lerp(p0, c, t), Lerp(c, p1, t), t)
}

// Matrix3 is a row-major 3x3 affine transform acting on (x, y, 1) column
// vectors: x' = a*x + c*y + e, y' = b*x + d*y + f.
type Matrix3 struct {
	A, B, C, D, E, F float32
}

// Identity is the identity transform.
var Identity = Matrix3{A: 1, D: 1}

// Apply transforms p by m.
func (m Matrix3) Apply(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Mul composes m and n so that (m.Mul(n)).Apply(p) == m.Apply(n.Apply(p));
// n is applied first.
func (m Matrix3) Mul(n Matrix3) Matrix3 {
	return Matrix3{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// orient3 is twice the signed area of the triangle (a, b, c); its sign gives
// which side of the line a->b the point c falls on.
func orient3(a, b, c Vec2) float32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// signNonneg returns -1 for negative x, +1 for x >= 0 (used by the
// Citardauq quadratic formula to avoid catastrophic cancellation).
func signNonneg(x float32) float32 {
	if x < 0 {
		return -1
	}
	return 1
}

// SegmentSegmentIntersect returns the intersection point of segments
// (a1,a2) and (b1,b2), iff each segment straddles the other's supporting
// line. The straddle test is inclusive on the AB side (an endpoint of a1-a2
// may lie on b's line) and strict on the BA side (b1 and b2 must lie strictly
// on opposite sides of a's line). Parallel or
// collinear segments (near-zero cross products) return ok=false.
func SegmentSegmentIntersect(a1, a2, b1, b2 Vec2) (p Vec2, ok bool) {
	d1 := orient3(b1, b2, a1)
	d2 := orient3(b1, b2, a2)
	d3 := orient3(a1, a2, b1)
	d4 := orient3(a1, a2, b2)

	denom := (a2.X-a1.X)*(b2.Y-b1.Y) - (a2.Y-a1.Y)*(b2.X-b1.X)
	if denom > -epsilon && denom < epsilon {
		return Vec2{}, false
	}
	if d1*d2 > 0 || d3*d4 >= 0 {
		return Vec2{}, false
	}

	t := ((b1.X-a1.X)*(b2.Y-b1.Y) - (b1.Y-a1.Y)*(b2.X-b1.X)) / denom
	return Vec2{
		X: a1.X + t*(a2.X-a1.X),
		Y: a1.Y + t*(a2.Y-a1.Y),
	}, true
}

// SolveQuadratic returns the real roots of a*t^2 + b*t + c = 0, using the
// stabilized Citardauq form to avoid cancellation, and degrading to the
// linear solution when a is negligible. Returns no roots when the
// discriminant is below -epsilon.
func SolveQuadratic(a, b, c float32) []float32 {
	if a > -epsilon && a < epsilon {
		if b > -epsilon && b < epsilon {
			return nil
		}
		return []float32{-c / b}
	}
	disc := b*b - 4*a*c
	if disc < -epsilon {
		return nil
	}
	if disc < 0 {
		disc = 0
	}
	sq := float32(math.Sqrt(float64(disc)))
	q := -0.5 * (b + signNonneg(b)*sq)
	r1 := q / a
	if q > -epsilon && q < epsilon {
		return []float32{r1}
	}
	r2 := c / q
	if r1 > r2-epsilon && r1 < r2+epsilon {
		return []float32{r1}
	}
	return []float32{r1, r2}
}

// SegmentQuadIntersect returns the (at most two) points at which the
// quadratic Bezier (p0, control, p1) crosses the infinite line through
// (l1, l2), restricted to curve parameter t in [-epsilon, 1+epsilon] and
// then clamped back to [0, 1] for evaluation.
func SegmentQuadIntersect(p0, control, p1, l1, l2 Vec2) []Vec2 {
	k := Vec2{X: l2.Y - l1.Y, Y: -(l2.X - l1.X)}
	a := p1.Sub(control.Scale(2)).Add(p0)
	b := control.Sub(p0).Scale(2)
	c := p0.Sub(l1)

	qa := k.X*a.X + k.Y*a.Y
	qb := k.X*b.X + k.Y*b.Y
	qc := k.X*c.X + k.Y*c.Y

	var out []Vec2
	for _, t := range SolveQuadratic(qa, qb, qc) {
		if t < -epsilon || t > 1+epsilon {
			continue
		}
		ct := t
		if ct < 0 {
			ct = 0
		}
		if ct > 1 {
			ct = 1
		}
		out = append(out, QuadBezier(p0, control, p1, ct))
	}
	return out
}

// QuadMinY returns the least Y value attained by the quadratic Bezier
// (p0, p1, p2) over t in [0, 1]: the lesser endpoint Y, unless the curve
// opens downward in Y (its quadratic coefficient is positive) and its
// extremum falls inside the curve's parameter range.
func QuadMinY(p0, p1, p2 Vec2) float32 {
	min := p0.Y
	if p2.Y < min {
		min = p2.Y
	}
	a := p2.Y - 2*p1.Y + p0.Y
	b := 2 * (p1.Y - p0.Y)
	if a > 0 && b != 0 {
		t := -b / (2 * a)
		if t > 0 && t < 1 {
			extremum := a*t*t + b*t + p0.Y
			if extremum < min {
				return extremum
			}
		}
	}
	return min
}
