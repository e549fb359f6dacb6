// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FromMgl sets m to contain n.
// Both are column-major, so no transposition occurs.
func (m *M4) FromMgl(n *mgl32.Mat4) {
	for i := range m {
		for j := range m[i] {
			m[i][j] = n[i*4+j]
		}
	}
}

// Mgl returns m as a mgl32.Mat4.
func (m *M4) Mgl() (n mgl32.Mat4) {
	for i := range m {
		for j := range m[i] {
			n[i*4+j] = m[i][j]
		}
	}
	return
}

// FromMgl sets q to contain p.
func (q *Q) FromMgl(p *mgl32.Quat) {
	q.V = V3(p.V)
	q.R = p.W
}

// Mgl returns q as a mgl32.Quat.
// It is the inverse of FromMgl.
func (q *Q) Mgl() mgl32.Quat { return mgl32.Quat{W: q.R, V: mgl32.Vec3(q.V)} }
