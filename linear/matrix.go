// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

// M3 is a column-major 3x3 matrix of float32.
type M3 [3]V3

// I makes m an identity matrix.
func (m *M3) I() { *m = M3{{1}, {0, 1}, {0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
// m may alias l or r.
func (m *M3) Mul(l, r *M3) {
	var p M3
	for i := range p {
		for j := range p {
			for k := range p {
				p[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	*m = p
}

// Transpose sets m to contain the transpose of n.
func (m *M3) Transpose(n *M3) {
	for i := range m {
		m[i][i] = n[i][i]
		for j := i + 1; j < len(m); j++ {
			m[i][j], m[j][i] = n[j][i], n[i][j]
		}
	}
}

// Invert sets m to contain the inverse of n.
func (m *M3) Invert(n *M3) {
	var p M3
	s0 := n[1][1]*n[2][2] - n[1][2]*n[2][1]
	s1 := n[1][0]*n[2][2] - n[1][2]*n[2][0]
	s2 := n[1][0]*n[2][1] - n[1][1]*n[2][0]
	idet := 1 / (n[0][0]*s0 - n[0][1]*s1 + n[0][2]*s2)
	p[0][0] = s0 * idet
	p[0][1] = -(n[0][1]*n[2][2] - n[0][2]*n[2][1]) * idet
	p[0][2] = (n[0][1]*n[1][2] - n[0][2]*n[1][1]) * idet
	p[1][0] = -s1 * idet
	p[1][1] = (n[0][0]*n[2][2] - n[0][2]*n[2][0]) * idet
	p[1][2] = -(n[0][0]*n[1][2] - n[0][2]*n[1][0]) * idet
	p[2][0] = s2 * idet
	p[2][1] = -(n[0][0]*n[2][1] - n[0][1]*n[2][0]) * idet
	p[2][2] = (n[0][0]*n[1][1] - n[0][1]*n[1][0]) * idet
	*m = p
}

// Normal sets m to contain the normal matrix of w,
// that is, the inverse transpose of its upper-left
// 3x3 sub-matrix.
func (m *M3) Normal(w *M4) {
	u := M3{
		{w[0][0], w[0][1], w[0][2]},
		{w[1][0], w[1][1], w[1][2]},
		{w[2][0], w[2][1], w[2][2]},
	}
	u.Invert(&u)
	m.Transpose(&u)
}

// M4 is a column-major 4x4 matrix of float32.
type M4 [4]V4

// I makes m an identity matrix.
func (m *M4) I() { *m = M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
// m may alias l or r.
func (m *M4) Mul(l, r *M4) {
	var p M4
	for i := range p {
		for j := range p {
			for k := range p {
				p[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	*m = p
}

// Transpose sets m to contain the transpose of n.
func (m *M4) Transpose(n *M4) {
	for i := range m {
		m[i][i] = n[i][i]
		for j := i + 1; j < len(m); j++ {
			m[i][j], m[j][i] = n[j][i], n[i][j]
		}
	}
}

// Translate sets m to contain a translation by x, y, z.
func (m *M4) Translate(x, y, z float32) {
	m.I()
	m[3][0] = x
	m[3][1] = y
	m[3][2] = z
}

// Scale sets m to contain a scale by x, y, z.
func (m *M4) Scale(x, y, z float32) {
	*m = M4{{x}, {1: y}, {2: z}, {3: 1}}
}

// RotateQ sets m to contain the rotation described by
// the unit quaternion q.
func (m *M4) RotateQ(q *Q) {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.R
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	*m = M4{
		{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0},
		{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0},
		{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0},
		{0, 0, 0, 1},
	}
}

// TRS sets m to contain T ⋅ R ⋅ S, where T translates by t,
// R rotates by the unit quaternion r and S scales by s.
// Scaling is applied first and translation last.
func (m *M4) TRS(t *V3, r *Q, s *V3) {
	m.RotateQ(r)
	for i := range s {
		m[i].Scale(s[i], &m[i])
	}
	m[3] = V4{t[0], t[1], t[2], 1}
}

// Translation returns the translation component of m.
func (m *M4) Translation() V3 { return V3{m[3][0], m[3][1], m[3][2]} }

// Invert sets m to contain the inverse of n.
func (m *M4) Invert(n *M4) {
	var p M4
	s0 := n[0][0]*n[1][1] - n[0][1]*n[1][0]
	s1 := n[0][0]*n[1][2] - n[0][2]*n[1][0]
	s2 := n[0][0]*n[1][3] - n[0][3]*n[1][0]
	s3 := n[0][1]*n[1][2] - n[0][2]*n[1][1]
	s4 := n[0][1]*n[1][3] - n[0][3]*n[1][1]
	s5 := n[0][2]*n[1][3] - n[0][3]*n[1][2]
	c0 := n[2][0]*n[3][1] - n[2][1]*n[3][0]
	c1 := n[2][0]*n[3][2] - n[2][2]*n[3][0]
	c2 := n[2][0]*n[3][3] - n[2][3]*n[3][0]
	c3 := n[2][1]*n[3][2] - n[2][2]*n[3][1]
	c4 := n[2][1]*n[3][3] - n[2][3]*n[3][1]
	c5 := n[2][2]*n[3][3] - n[2][3]*n[3][2]
	idet := 1 / (s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0)
	p[0][0] = (c5*n[1][1] - c4*n[1][2] + c3*n[1][3]) * idet
	p[0][1] = (-c5*n[0][1] + c4*n[0][2] - c3*n[0][3]) * idet
	p[0][2] = (s5*n[3][1] - s4*n[3][2] + s3*n[3][3]) * idet
	p[0][3] = (-s5*n[2][1] + s4*n[2][2] - s3*n[2][3]) * idet
	p[1][0] = (-c5*n[1][0] + c2*n[1][2] - c1*n[1][3]) * idet
	p[1][1] = (c5*n[0][0] - c2*n[0][2] + c1*n[0][3]) * idet
	p[1][2] = (-s5*n[3][0] + s2*n[3][2] - s1*n[3][3]) * idet
	p[1][3] = (s5*n[2][0] - s2*n[2][2] + s1*n[2][3]) * idet
	p[2][0] = (c4*n[1][0] - c2*n[1][1] + c0*n[1][3]) * idet
	p[2][1] = (-c4*n[0][0] + c2*n[0][1] - c0*n[0][3]) * idet
	p[2][2] = (s4*n[3][0] - s2*n[3][1] + s0*n[3][3]) * idet
	p[2][3] = (-s4*n[2][0] + s2*n[2][1] - s0*n[2][3]) * idet
	p[3][0] = (-c3*n[1][0] + c1*n[1][1] - c0*n[1][2]) * idet
	p[3][1] = (c3*n[0][0] - c1*n[0][1] + c0*n[0][2]) * idet
	p[3][2] = (-s3*n[3][0] + s1*n[3][1] - s0*n[3][2]) * idet
	p[3][3] = (s3*n[2][0] - s1*n[2][1] + s0*n[2][2]) * idet
	*m = p
}
