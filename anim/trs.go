// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package anim

import (
	"math"

	"github.com/pkg/errors"

	"github.com/gviegas/viewer/linear"
)

// TRS animates a transform using separate translation,
// rotation and scale tracks.
//
// For seamless looping, the value at time 0 and the value
// at the end of the loop should match in every track.
// This is not checked.
type TRS struct {
	t *Track[linear.V3]
	r *Track[linear.Q]
	s *Track[linear.V3]
}

// NewTRS creates a new TRS.
// None of the tracks may be nil.
func NewTRS(t *Track[linear.V3], r *Track[linear.Q], s *Track[linear.V3]) (*TRS, error) {
	switch {
	case t == nil:
		return nil, errors.Wrap(ErrInvalidAnimation, "nil translation track")
	case r == nil:
		return nil, errors.Wrap(ErrInvalidAnimation, "nil rotation track")
	case s == nil:
		return nil, errors.Wrap(ErrInvalidAnimation, "nil scale track")
	}
	return &TRS{t, r, s}, nil
}

// Translation returns the translation track.
func (x *TRS) Translation() *Track[linear.V3] { return x.t }

// Rotation returns the rotation track.
func (x *TRS) Rotation() *Track[linear.Q] { return x.r }

// Scale returns the scale track.
func (x *TRS) Scale() *Track[linear.V3] { return x.s }

// Max returns the greatest key time across all tracks.
func (x *TRS) Max() float32 { return max(x.t.Max(), x.r.Max(), x.s.Max()) }

// Evaluate returns the transform at time t, computed as
// translate ⋅ rotate ⋅ scale.
func (x *TRS) Evaluate(t float32) (m linear.M4, err error) {
	tv, err := x.t.Sample(t)
	if err != nil {
		return
	}
	rq, err := x.r.Sample(t)
	if err != nil {
		return
	}
	sv, err := x.s.Sample(t)
	if err != nil {
		return
	}
	m.TRS(&tv, &rq, &sv)
	return
}

// Wrap returns t modulo p in the range [0, p).
// p must be greater than zero.
func Wrap(t, p float64) (float64, error) {
	if !(p > 0) || math.IsInf(p, 0) {
		return 0, errors.Wrapf(ErrInvalidLoopPeriod, "period %v", p)
	}
	u := t - p*math.Floor(t/p)
	if u >= p {
		// Rounding of tiny negative values.
		u = 0
	}
	return u, nil
}

// Loop is a TRS that repeats with a fixed period.
// A Loop is immutable once created.
type Loop struct {
	trs    *TRS
	period float64
	// Set by Circle.Loop.
	path *Circle
}

// NewLoop creates a new loop.
// If period is zero, the period is the greatest key
// time in trs (or 1 if all keys are at time 0).
// A negative period is invalid.
func NewLoop(trs *TRS, period float64) (*Loop, error) {
	if trs == nil {
		return nil, errors.Wrap(ErrInvalidAnimation, "nil TRS")
	}
	if period == 0 {
		if period = float64(trs.Max()); period <= 0 {
			period = 1
		}
	}
	if !(period > 0) || math.IsInf(period, 0) {
		return nil, errors.Wrapf(ErrInvalidLoopPeriod, "period %v", period)
	}
	return &Loop{trs: trs, period: period}, nil
}

// TRS returns the animation of l.
func (l *Loop) TRS() *TRS { return l.trs }

// Period returns the period of l, in seconds.
func (l *Loop) Period() float64 { return l.period }

// Local converts the global time t into the loop's
// local time.
func (l *Loop) Local(t float64) float32 {
	// period was validated by NewLoop.
	u, _ := Wrap(t, l.period)
	return float32(u)
}

// Evaluate returns the transform at global time t.
func (l *Loop) Evaluate(t float64) (linear.M4, error) {
	return l.trs.Evaluate(l.Local(t))
}
