// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package camera implements an orbit camera that
// produces the view and projection matrices of
// node.Uniforms.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/viewer/input"
	"github.com/gviegas/viewer/linear"
	"github.com/gviegas/viewer/node"
)

// Steps applied by HandleKey.
const (
	AngleStep = 5
	ZoomStep  = 0.9
	MaxPitch  = 89
	// Closest distance to the target.
	MinDistance = 0.1
)

// Orbit is a camera that orbits a target point.
// Angles are in degrees.
type Orbit struct {
	Target   linear.V3
	Distance float32
	Pitch    float32 // about X
	Yaw      float32 // about Y
	Fovy     float32
	Near     float32
	Far      float32
}

// New creates a new orbit camera looking at the origin.
func New() *Orbit {
	return &Orbit{
		Distance: 10,
		Fovy:     45,
		Near:     0.1,
		Far:      1000,
	}
}

// Position returns the position of the camera's eye.
func (c *Orbit) Position() linear.V3 {
	ps, pc := math32.Sincos(mgl32.DegToRad(c.Pitch))
	ys, yc := math32.Sincos(mgl32.DegToRad(c.Yaw))
	v := linear.V3{c.Distance * pc * ys, c.Distance * ps, c.Distance * pc * yc}
	v.Add(&v, &c.Target)
	return v
}

// View returns the view matrix.
func (c *Orbit) View() (m linear.M4) {
	n := mgl32.LookAtV(mgl32.Vec3(c.Position()), mgl32.Vec3(c.Target), mgl32.Vec3{0, 1, 0})
	m.FromMgl(&n)
	return
}

// Projection returns the perspective projection for
// the given aspect ratio.
func (c *Orbit) Projection(aspect float32) (m linear.M4) {
	n := mgl32.Perspective(mgl32.DegToRad(c.Fovy), aspect, c.Near, c.Far)
	m.FromMgl(&n)
	return
}

// SetUniforms sets the View and Proj fields of u.
func (c *Orbit) SetUniforms(u *node.Uniforms, aspect float32) {
	u.View = c.View()
	u.Proj = c.Projection(aspect)
}

// HandleKey moves the camera.
// The arrow keys change yaw and pitch, and
// PageUp/PageDown zoom in and out.
func (c *Orbit) HandleKey(key input.Key) {
	switch key {
	case input.KeyLeft:
		c.Yaw -= AngleStep
	case input.KeyRight:
		c.Yaw += AngleStep
	case input.KeyUp:
		c.Pitch = min(c.Pitch+AngleStep, MaxPitch)
	case input.KeyDown:
		c.Pitch = max(c.Pitch-AngleStep, -MaxPitch)
	case input.KeyPageUp:
		c.Distance = max(c.Distance*ZoomStep, MinDistance)
	case input.KeyPageDown:
		c.Distance /= ZoomStep
	}
}
