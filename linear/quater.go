// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
)

// Q is a quaternion of float32.
type Q struct {
	V V3
	R float32
}

// I makes q an identity quaternion.
func (q *Q) I() { *q = Q{R: 1} }

// Mul sets q to contain l ⋅ r.
func (q *Q) Mul(l, r *Q) {
	var v, w V3
	v.Scale(r.R, &l.V)
	w.Scale(l.R, &r.V)
	v.Add(&v, &w)
	w.Cross(&l.V, &r.V)
	d := l.V.Dot(&r.V)
	q.V.Add(&v, &w)
	q.R = l.R*r.R - d
	q.Norm(q)
}

// Dot returns q ⋅ p.
func (q *Q) Dot(p *Q) float32 { return q.V.Dot(&p.V) + q.R*p.R }

// Len returns the length of q.
func (q *Q) Len() float32 { return math32.Sqrt(q.Dot(q)) }

// Norm sets q to contain p normalized.
// If p has zero length, q is set to identity.
func (q *Q) Norm(p *Q) {
	n := p.Len()
	if n == 0 {
		q.I()
		return
	}
	q.V.Scale(1/n, &p.V)
	q.R = p.R / n
}

// Neg sets q to contain -p.
// Both represent the same rotation.
func (q *Q) Neg(p *Q) {
	q.V.Scale(-1, &p.V)
	q.R = -p.R
}

// Rotate sets q to contain a rotation of angle
// radians about axis.
// axis must be a unit vector.
func (q *Q) Rotate(angle float32, axis *V3) {
	sin, cos := math32.Sincos(angle / 2)
	q.V.Scale(sin, axis)
	q.R = cos
}

// Euler sets q to contain the rotation described by
// the yaw (about Z), pitch (about Y) and roll (about X)
// angles, in radians.
func (q *Q) Euler(yaw, pitch, roll float32) {
	sy, cy := math32.Sincos(yaw / 2)
	sp, cp := math32.Sincos(pitch / 2)
	sr, cr := math32.Sincos(roll / 2)
	q.V = V3{
		cy*sr*cp - sy*cr*sp,
		cy*cr*sp + sy*sr*cp,
		sy*cr*cp - cy*sr*sp,
	}
	q.R = cy*cr*cp + sy*sr*sp
}

// slerpLinear is the dot product above which Slerp
// falls back to normalized linear interpolation.
const slerpLinear = 0.9995

// Slerp sets q to contain the spherical linear interpolation
// between the unit quaternions l and r at f.
// The shortest arc is always taken, and the result
// is normalized.
func (q *Q) Slerp(l, r *Q, f float32) {
	s := *r
	d := l.Dot(&s)
	if d < 0 {
		s.Neg(&s)
		d = -d
	}
	var a, b float32
	if d > slerpLinear {
		a, b = 1-f, f
	} else {
		theta := math32.Acos(d)
		isin := 1 / math32.Sin(theta)
		a = math32.Sin((1-f)*theta) * isin
		b = math32.Sin(f*theta) * isin
	}
	var v, w V3
	v.Scale(a, &l.V)
	w.Scale(b, &s.V)
	q.V.Add(&v, &w)
	q.R = a*l.R + b*s.R
	q.Norm(q)
}
