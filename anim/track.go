// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package anim implements keyframe animation of
// node transforms.
package anim

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/gviegas/viewer/linear"
)

const prefix = "anim: "

var (
	// ErrInvalidAnimation means that a track is empty
	// or that its keys are malformed.
	ErrInvalidAnimation = errors.New(prefix + "invalid animation")

	// ErrDegenerateInterval means that two consecutive
	// keys share the same time.
	ErrDegenerateInterval = errors.New(prefix + "degenerate interval")

	// ErrInvalidLoopPeriod means that a loop period is
	// not greater than zero.
	ErrInvalidLoopPeriod = errors.New(prefix + "invalid loop period")
)

// Key is a keyframe.
type Key[T any] struct {
	Time  float32
	Value T
}

// Interp interpolates between l and r at f, where
// f is in the range [0, 1].
type Interp[T any] func(l, r *T, f float32) T

// Track is an animation channel.
// Its keys are sorted by time and no two keys have
// the same time.
// A Track is immutable once created.
type Track[T any] struct {
	keys   []Key[T]
	interp Interp[T]
}

// NewTrack creates a new track from keys.
// keys need not be sorted, but must not be empty
// and must not contain duplicate or non-finite times.
// The keys slice is not retained.
func NewTrack[T any](keys []Key[T], interp Interp[T]) (*Track[T], error) {
	if len(keys) == 0 {
		return nil, errors.Wrap(ErrInvalidAnimation, "no keys")
	}
	if interp == nil {
		return nil, errors.Wrap(ErrInvalidAnimation, "nil Interp")
	}
	ks := make([]Key[T], len(keys))
	copy(ks, keys)
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].Time < ks[j].Time })
	for i := range ks {
		if math32.IsNaN(ks[i].Time) || math32.IsInf(ks[i].Time, 0) {
			return nil, errors.Wrapf(ErrInvalidAnimation, "key time %v", ks[i].Time)
		}
		if i > 0 && ks[i].Time == ks[i-1].Time {
			return nil, errors.Wrapf(ErrInvalidAnimation, "duplicate key time %v", ks[i].Time)
		}
	}
	return &Track[T]{ks, interp}, nil
}

// Len returns the number of keys in k.
func (k *Track[_]) Len() int { return len(k.keys) }

// Key returns the ith key of k.
func (k *Track[T]) Key(i int) Key[T] { return k.keys[i] }

// Min returns the time of the first key.
func (k *Track[_]) Min() float32 { return k.keys[0].Time }

// Max returns the time of the last key.
func (k *Track[_]) Max() float32 { return k.keys[len(k.keys)-1].Time }

// Sample returns the value of k at time t.
// Times outside the range of keys are clamped.
func (k *Track[T]) Sample(t float32) (T, error) {
	n := len(k.keys)
	// NaN is treated as the start of the track.
	if !(t > k.keys[0].Time) {
		return k.keys[0].Value, nil
	}
	if t >= k.keys[n-1].Time {
		return k.keys[n-1].Value, nil
	}
	// i is in the range [1, n-1] since the
	// checks above failed.
	i := sort.Search(n, func(i int) bool { return k.keys[i].Time > t })
	k0, k1 := &k.keys[i-1], &k.keys[i]
	f, err := frac(t, k0.Time, k1.Time)
	if err != nil {
		var z T
		return z, err
	}
	return k.interp(&k0.Value, &k1.Value, f), nil
}

// frac returns the position of t in the interval [t0, t1],
// normalized to [0, 1].
func frac(t, t0, t1 float32) (float32, error) {
	d := t1 - t0
	if !(d > 0) {
		return 0, errors.Wrapf(ErrDegenerateInterval, "[%v, %v]", t0, t1)
	}
	return (t - t0) / d, nil
}

// LerpV3 is the Interp for vector tracks.
func LerpV3(l, r *linear.V3, f float32) (v linear.V3) {
	v.Lerp(l, r, f)
	return
}

// SlerpQ is the Interp for rotation tracks.
func SlerpQ(l, r *linear.Q, f float32) (q linear.Q) {
	q.Slerp(l, r, f)
	return
}

// NewV3Track creates a vector track that interpolates
// linearly.
func NewV3Track(keys map[float32]linear.V3) (*Track[linear.V3], error) {
	ks := make([]Key[linear.V3], 0, len(keys))
	for t, v := range keys {
		ks = append(ks, Key[linear.V3]{t, v})
	}
	return NewTrack(ks, LerpV3)
}

// NewScaleTrack creates a vector track from uniform
// scale factors.
func NewScaleTrack(keys map[float32]float32) (*Track[linear.V3], error) {
	ks := make([]Key[linear.V3], 0, len(keys))
	for t, s := range keys {
		ks = append(ks, Key[linear.V3]{t, linear.V3{s, s, s}})
	}
	return NewTrack(ks, LerpV3)
}

// NewQTrack creates a rotation track that interpolates
// spherically.
// Keys are normalized; a zero-length key is invalid.
func NewQTrack(keys map[float32]linear.Q) (*Track[linear.Q], error) {
	ks := make([]Key[linear.Q], 0, len(keys))
	for t, q := range keys {
		if q.Len() == 0 {
			return nil, errors.Wrapf(ErrInvalidAnimation, "zero quaternion at time %v", t)
		}
		q.Norm(&q)
		ks = append(ks, Key[linear.Q]{t, q})
	}
	return NewTrack(ks, SlerpQ)
}
