// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package anim

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/gviegas/viewer/linear"
)

// Circle describes a circular flight path on the XZ plane.
// The animated object faces the +X axis, which is kept
// tangent to the path.
type Circle struct {
	Radius float32
	Height float32
	Period float32
	// Number of segments. At least 3.
	Keys int
}

// Loop creates a Loop that flies c once per period.
// The first and last keys are identical, so the loop
// is continuous.
func (c *Circle) Loop() (*Loop, error) {
	switch {
	case c.Keys < 3:
		return nil, errors.Wrapf(ErrInvalidAnimation, "circle with %d keys", c.Keys)
	case c.Radius < 0 || math32.IsNaN(c.Radius):
		return nil, errors.Wrapf(ErrInvalidAnimation, "circle radius %v", c.Radius)
	case !(c.Period > 0):
		return nil, errors.Wrapf(ErrInvalidLoopPeriod, "circle period %v", c.Period)
	}
	tk := make([]Key[linear.V3], c.Keys+1)
	rk := make([]Key[linear.Q], c.Keys+1)
	up := linear.V3{0, 1, 0}
	for i := 0; i < c.Keys; i++ {
		f := float32(i) / float32(c.Keys)
		theta := 2 * math32.Pi * f
		sin, cos := math32.Sincos(theta)
		tk[i] = Key[linear.V3]{c.Period * f, linear.V3{c.Radius * sin, c.Height, c.Radius * cos}}
		rk[i].Time = tk[i].Time
		rk[i].Value.Rotate(theta, &up)
	}
	tk[c.Keys] = Key[linear.V3]{c.Period, tk[0].Value}
	rk[c.Keys] = Key[linear.Q]{c.Period, rk[0].Value}
	t, err := NewTrack(tk, LerpV3)
	if err != nil {
		return nil, err
	}
	r, err := NewTrack(rk, SlerpQ)
	if err != nil {
		return nil, err
	}
	s, err := NewTrack([]Key[linear.V3]{{0, linear.V3{1, 1, 1}}}, LerpV3)
	if err != nil {
		return nil, err
	}
	trs, err := NewTRS(t, r, s)
	if err != nil {
		return nil, err
	}
	l, err := NewLoop(trs, float64(c.Period))
	if err != nil {
		return nil, err
	}
	path := *c
	l.path = &path
	return l, nil
}

// Circle returns the path that generated l.
// It returns false if l was not created by
// Circle.Loop.
func (l *Loop) Circle() (Circle, bool) {
	if l.path == nil {
		return Circle{}, false
	}
	return *l.path, true
}
