// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package leaf implements a drawable that records
// what it is asked to draw instead of rendering.
package leaf

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/viewer/input"
	"github.com/gviegas/viewer/linear"
	"github.com/gviegas/viewer/node"
)

// Draw describes a single call to Recorder.Draw.
type Draw struct {
	World  linear.M4
	Normal linear.M3
	// Rotation of World, ignoring scale.
	// It is exact only if World has no shear.
	Rotation linear.Q
	// Position of the viewer in world space.
	Eye   linear.V3
	Time  float64
	Light node.Light
}

// Recorder is a node.Drawable and node.KeyHandler.
type Recorder struct {
	Name string
	// OnDraw, if not nil, is called at the end of
	// every Draw.
	OnDraw func(r *Recorder, d *Draw)
	last   Draw
	n      int
	keys   []input.Key
}

// New creates a new recorder.
func New(name string) *Recorder { return &Recorder{Name: name} }

// Draw implements node.Drawable.
func (r *Recorder) Draw(parent *linear.M4, f *node.Frame) {
	r.last = Draw{
		World: *parent,
		Time:  f.Time,
		Light: f.Light,
	}
	r.last.Normal.Normal(parent)
	r.last.Rotation = rotation(parent)
	var inv linear.M4
	inv.Invert(&f.View)
	r.last.Eye = inv.Translation()
	r.n++
	if r.OnDraw != nil {
		r.OnDraw(r, &r.last)
	}
}

func rotation(m *linear.M4) (q linear.Q) {
	n := m.Mgl()
	u := mgl32.Mat3FromCols(n.Col(0).Vec3().Normalize(), n.Col(1).Vec3().Normalize(), n.Col(2).Vec3().Normalize())
	p := mgl32.Mat4ToQuat(u.Mat4()).Normalize()
	q.FromMgl(&p)
	return
}

// HandleKey implements node.KeyHandler.
func (r *Recorder) HandleKey(key input.Key) { r.keys = append(r.keys, key) }

// Last returns the most recent draw.
func (r *Recorder) Last() Draw { return r.last }

// Count returns the number of draws.
func (r *Recorder) Count() int { return r.n }

// Keys returns the keys received, in order.
func (r *Recorder) Keys() []input.Key { return r.keys }

// Factory creates a Recorder for every name.
// It has the signature of config.Factory.
func Factory(name string) (node.Drawable, error) { return New(name), nil }

func (r *Recorder) String() string { return r.Name }
