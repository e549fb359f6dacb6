// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const tol = 1e-5

func near(a, b float32) bool { return math.Abs(float64(a-b)) <= tol }

func nearM4(m, n *M4) bool {
	for i := range m {
		for j := range m[i] {
			if !near(m[i][j], n[i][j]) {
				return false
			}
		}
	}
	return true
}

// nearQ compares rotations, so q and -q are equal.
func nearQ(q, p *Q) bool {
	d := q.Dot(p)
	return near(float32(math.Abs(float64(d))), 1)
}

func TestV(t *testing.T) {
	var u V3
	v := V3{1, 2, 4}
	w := V3{0, -1, 2}

	if u.Add(&v, &w); u != (V3{1, 1, 6}) {
		t.Fatalf("V3.Add\nhave %v\nwant [1 1 6]", u)
	}
	if u.Sub(&v, &w); u != (V3{1, 3, 2}) {
		t.Fatalf("V3.Sub\nhave %v\nwant [1 3 2]", u)
	}
	if u.Scale(-1, &v); u != (V3{-1, -2, -4}) {
		t.Fatalf("V3.Scale\nhave %v\nwant [-1 -2 -4]", u)
	}
	if d := v.Dot(&w); d != 6 {
		t.Fatalf("V3.Dot\nhave %v\nwant 6\n", d)
	}
	if l := v.Len(); l != float32(math.Sqrt(21)) {
		t.Fatalf("V3.Len\nhave %v\nwant %v\n", l, math.Sqrt(21))
	}
	if u.Lerp(&v, &w, 0.5); u != (V3{0.5, 0.5, 3}) {
		t.Fatalf("V3.Lerp\nhave %v\nwant [0.5 0.5 3]", u)
	}
	if u.Lerp(&v, &w, 0); u != v {
		t.Fatalf("V3.Lerp\nhave %v\nwant %v", u, v)
	}

	v = V3{0, 0, -2}
	w = V3{0, 4, 0}

	if v.Norm(&v); v != (V3{0, 0, -1}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 0 -1]", v)
	}
	if w.Norm(&w); w != (V3{0, 1, 0}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 1 0]", w)
	}
	if u.Cross(&v, &w); u != (V3{1, 0, 0}) {
		t.Fatalf("V3.Cross\nhave %v\nwant [1 0 0]", u)
	}
	if u.Cross(&w, &v); u != (V3{-1, 0, 0}) {
		t.Fatalf("V3.Cross\nhave %v\nwant [-1 0 0]", u)
	}

	m := M3{
		{2, 0, 1},
		{1, 3, 2},
		{4, 2, 3},
	}
	v = V3{-1, 0, 1}

	if u.Mul(&m, &v); u != (V3{2, 2, 2}) {
		t.Fatalf("V3.Mul\nhave %v\nwant [2 2 2]", u)
	}
	m.I()
	if u.Mul(&m, &v); u != v {
		t.Fatalf("V3.Mul\nhave %v\nwant %v", u, v)
	}
}

func TestM(t *testing.T) {
	var l M3
	m := M3{
		{1, 4, 7},
		{2, 5, 8},
		{3, 6, 9},
	}
	n := M3{
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 0},
	}

	if l.I(); l != (M3{{1}, {0, 1}, {0, 0, 1}}) {
		t.Fatalf("M3.I\nhave %v\nwant [%v %v %v]", l, V3{1}, V3{0, 1}, V3{0, 0, 1})
	}
	if l.Mul(&m, &n); l != (M3{m[1], m[2], m[0]}) {
		t.Fatalf("M3.Mul\nhave %v\nwant [%v %v %v]", l, m[1], m[2], m[0])
	}
	if l.Mul(&n, &m); l != (M3{{7, 1, 4}, {8, 2, 5}, {9, 3, 6}}) {
		t.Fatalf("M3.Mul\nhave %v\nwant %v", l, M3{{7, 1, 4}, {8, 2, 5}, {9, 3, 6}})
	}
	if l.Transpose(&m); l != (M3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}) {
		t.Fatalf("M3.Transpose\nhave %v\nwant %v", l, M3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	}
	if l.Invert(&n); l != (M3{n[1], n[2], n[0]}) {
		t.Fatalf("M3.Invert\nhave %v\nwant %v", l, M3{n[1], n[2], n[0]})
	}
	// Aliasing must not corrupt the result.
	l = m
	if l.Mul(&l, &n); l != (M3{m[1], m[2], m[0]}) {
		t.Fatalf("M3.Mul (aliased)\nhave %v\nwant [%v %v %v]", l, m[1], m[2], m[0])
	}
}

func TestNormal(t *testing.T) {
	var w M4
	var q Q
	q.Rotate(math.Pi/3, &V3{0, 0, 1})
	w.TRS(&V3{7, 8, 9}, &q, &V3{2, 2, 2})
	var nm M3
	nm.Normal(&w)
	// For a uniform scale s, the normal matrix is R/s.
	var r M4
	r.RotateQ(&q)
	for i := range nm {
		for j := range nm[i] {
			if !near(nm[i][j], r[i][j]/2) {
				t.Fatalf("M3.Normal\nhave %v\nwant %v/2", nm, r)
			}
		}
	}
}

func TestQ(t *testing.T) {
	var r, i Q
	i.I()
	if i != (Q{R: 1}) {
		t.Fatalf("Q.I\nhave %v\nwant {[0 0 0] 1}", i)
	}

	var x, y Q
	x.Rotate(math.Pi/2, &V3{1, 0, 0})
	y.Rotate(math.Pi/2, &V3{0, 1, 0})

	if r.Mul(&x, &i); !nearQ(&r, &x) {
		t.Fatalf("Q.Mul\nhave %v\nwant %v", r, x)
	}
	if r.Mul(&x, &y); !near(r.Len(), 1) {
		t.Fatalf("Q.Mul: Len\nhave %v\nwant 1", r.Len())
	}
	want := mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{1, 0, 0}).Mul(mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 1, 0}))
	var p Q
	p.FromMgl(&want)
	if !nearQ(&r, &p) {
		t.Fatalf("Q.Mul\nhave %v\nwant %v", r, p)
	}

	q := Q{V: V3{0, 3, 0}, R: 4}
	if q.Norm(&q); q != (Q{V: V3{0, 0.6, 0}, R: 0.8}) {
		t.Fatalf("Q.Norm\nhave %v\nwant {[0 0.6 0] 0.8}", q)
	}
	if q.Norm(&Q{}); q != i {
		t.Fatalf("Q.Norm (zero)\nhave %v\nwant %v", q, i)
	}
}

func TestEuler(t *testing.T) {
	var q, p Q
	q.Euler(0, 0, 0)
	if !nearQ(&q, &Q{R: 1}) {
		t.Fatalf("Q.Euler(0, 0, 0)\nhave %v\nwant identity", q)
	}
	for _, x := range [...]struct {
		yaw, pitch, roll float32
		axis             V3
		angle            float32
	}{
		{math.Pi / 4, 0, 0, V3{0, 0, 1}, math.Pi / 4},
		{0, math.Pi / 3, 0, V3{0, 1, 0}, math.Pi / 3},
		{0, 0, -math.Pi / 6, V3{1, 0, 0}, -math.Pi / 6},
	} {
		q.Euler(x.yaw, x.pitch, x.roll)
		p.Rotate(x.angle, &x.axis)
		if !nearQ(&q, &p) {
			t.Fatalf("Q.Euler(%v, %v, %v)\nhave %v\nwant %v", x.yaw, x.pitch, x.roll, q, p)
		}
	}
}

func TestSlerp(t *testing.T) {
	var a, b, q Q
	a.I()
	b.Rotate(math.Pi/2, &V3{0, 1, 0})

	q.Slerp(&a, &b, 0.5)
	var want Q
	want.Rotate(math.Pi/4, &V3{0, 1, 0})
	if !nearQ(&q, &want) {
		t.Fatalf("Q.Slerp\nhave %v\nwant %v", q, want)
	}
	mq := mgl32.QuatSlerp(a.Mgl(), b.Mgl(), 0.3)
	var p Q
	p.FromMgl(&mq)
	if q.Slerp(&a, &b, 0.3); !nearQ(&q, &p) {
		t.Fatalf("Q.Slerp\nhave %v\nwant %v", q, p)
	}

	// The negated endpoint describes the same rotation,
	// so the result must not change.
	var nb Q
	nb.Neg(&b)
	if q.Slerp(&a, &nb, 0.5); !nearQ(&q, &want) {
		t.Fatalf("Q.Slerp (negated)\nhave %v\nwant %v", q, want)
	}

	for _, f := range [...]float32{0, 0.25, 0.5, 0.75, 1} {
		if q.Slerp(&b, &b, f); !nearQ(&q, &b) || !near(q.Len(), 1) {
			t.Fatalf("Q.Slerp (same)\nhave %v\nwant %v", q, b)
		}
	}
}

func TestTRS(t *testing.T) {
	var x, r, s M4
	var q Q

	x.Translate(-1, -2, -3)
	q.Rotate(0, &V3{1})
	r.RotateQ(&q)
	s.Scale(5, 5, 5)
	x.Mul(&x, &r)
	x.Mul(&x, &s)
	if x != (M4{{5}, {1: 5}, {2: 5}, {-1, -2, -3, 1}}) {
		t.Fatalf("T*R*S\nhave %v\nwant %v", x, M4{{5}, {1: 5}, {2: 5}, {-1, -2, -3, 1}})
	}
	v := V4{1, 1, 1, 1}
	v.Mul(&x, &v)
	if v != (V4{4, 3, 2, 1}) {
		t.Fatalf("TRS*v\nhave %v\nwant %v", v, V4{4, 3, 2, 1})
	}

	tv := V3{3, -4, 5}
	sv := V3{1, 2, 3}
	q.Rotate(1.1, &V3{0, 0.6, 0.8})
	x.TRS(&tv, &q, &sv)
	m := mgl32.Translate3D(3, -4, 5).Mul4(q.Mgl().Mat4()).Mul4(mgl32.Scale3D(1, 2, 3))
	var want M4
	want.FromMgl(&m)
	if !nearM4(&x, &want) {
		t.Fatalf("M4.TRS\nhave %v\nwant %v", x, want)
	}
	if tr := x.Translation(); tr != tv {
		t.Fatalf("M4.Translation\nhave %v\nwant %v", tr, tv)
	}

	// Scale must be applied before rotation.
	var y M4
	r.RotateQ(&q)
	s.Scale(1, 2, 3)
	y.Mul(&s, &r)
	x.Translate(0, 0, 0)
	x.Mul(&x, &r)
	x.Mul(&x, &s)
	if nearM4(&x, &y) {
		t.Fatal("R*S and S*R should differ for non-uniform scale")
	}
}

func TestTransposeM4(t *testing.T) {
	m := M4{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}, {13, 14, 15, 16}}
	want := M4{{1, 5, 9, 13}, {2, 6, 10, 14}, {3, 7, 11, 15}, {4, 8, 12, 16}}
	var n M4
	if n.Transpose(&m); n != want {
		t.Fatalf("M4.Transpose\nhave %v\nwant %v", n, want)
	}
	if n.Transpose(&n); n != m {
		t.Fatalf("M4.Transpose (aliased)\nhave %v\nwant %v", n, m)
	}
}

func TestInvert(t *testing.T) {
	var m, n, p, i M4
	var q Q
	q.Rotate(0.7, &V3{1, 0, 0})
	m.TRS(&V3{1, 2, 3}, &q, &V3{2, 3, 4})
	n.Invert(&m)
	p.Mul(&m, &n)
	i.I()
	if !nearM4(&p, &i) {
		t.Fatalf("M4.Invert\nhave %v\nwant %v", p, i)
	}
	n = m
	if n.Invert(&n); !nearM4(n.mulTo(&m), &i) {
		t.Fatalf("M4.Invert (aliased)\nhave %v\nwant %v", n, i)
	}
}

func (m *M4) mulTo(r *M4) *M4 {
	var p M4
	p.Mul(m, r)
	return &p
}

func TestMgl(t *testing.T) {
	m := M4{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}, {13, 14, 15, 16}}
	n := m.Mgl()
	if n.Col(1) != (mgl32.Vec4{5, 6, 7, 8}) {
		t.Fatalf("M4.Mgl: Col(1)\nhave %v\nwant [5 6 7 8]", n.Col(1))
	}
	var o M4
	if o.FromMgl(&n); o != m {
		t.Fatalf("M4.FromMgl\nhave %v\nwant %v", o, m)
	}
	q := Q{V: V3{1, 2, 3}, R: 4}
	mq := q.Mgl()
	var p Q
	if p.FromMgl(&mq); p != q {
		t.Fatalf("Q.FromMgl\nhave %v\nwant %v", p, q)
	}
}
