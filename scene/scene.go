// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package scene provides functionality for assembling
// and drawing scene graphs.
package scene

import (
	"github.com/pkg/errors"

	"github.com/gviegas/viewer/camera"
	"github.com/gviegas/viewer/input"
	"github.com/gviegas/viewer/linear"
	"github.com/gviegas/viewer/node"
)

// ErrQuit is returned by HandleKey when the key
// requests that the viewer be closed.
var ErrQuit = errors.New("scene: quit")

// Scene is a set of root drawables plus the values
// shared by all of them in a frame.
type Scene struct {
	// Camera may be nil, in which case the view and
	// projection are identity.
	Camera *camera.Orbit
	Light  node.Light
	// Width / height of the viewport.
	Aspect float32
	root   *node.Node
	frame  node.Frame
}

// DefaultLight returns the light of a new Scene.
func DefaultLight() node.Light {
	return node.Light{
		Direction: linear.V3{0, 1, 0},
		Ambient:   linear.V3{0.1, 0.1, 0.1},
		Diffuse:   linear.V3{1, 1, 1},
		Specular:  linear.V3{1, 1, 1},
		Shininess: 16,
	}
}

// New creates an initialized scene.
func New() *Scene { return new(Scene).Init() }

// Init initializes a scene.
func (s *Scene) Init() *Scene {
	s.Camera = camera.New()
	s.Light = DefaultLight()
	s.Aspect = 1
	s.root = node.New("", nil)
	return s
}

// Add adds roots to s.
// Roots are drawn in the order they were added.
func (s *Scene) Add(roots ...node.Drawable) error { return s.root.Add(roots...) }

// Len returns the number of roots in s.
func (s *Scene) Len() int { return s.root.Len() }

// Root returns the ith root of s.
func (s *Scene) Root(i int) node.Drawable { return s.root.Child(i) }

// Draw draws every root of s, using the identity as
// parent transform, at global time t.
// It must not be called concurrently.
func (s *Scene) Draw(t float64) {
	s.frame.Time = t
	s.frame.Light = s.Light
	if s.Camera != nil {
		s.Camera.SetUniforms(&s.frame.Uniforms, s.Aspect)
	} else {
		s.frame.View.I()
		s.frame.Proj.I()
	}
	var m linear.M4
	m.I()
	s.root.Draw(&m, &s.frame)
}

// Frame returns the frame of the most recent call
// to s.Draw.
func (s *Scene) Frame() node.Frame { return s.frame }

// HandleKey delivers key to the camera and then to
// every root of s.
// It returns ErrQuit for the Esc and Q keys instead.
func (s *Scene) HandleKey(key input.Key) error {
	switch key {
	case input.KeyEsc, input.KeyQ:
		return ErrQuit
	}
	if s.Camera != nil {
		s.Camera.HandleKey(key)
	}
	s.root.HandleKey(key)
	return nil
}

// ForEach calls f for every drawable in s.
// See node.Node.ForEach.
func (s *Scene) ForEach(f func(node.Drawable) bool) { s.root.ForEach(f) }

// Find returns the first node named name, in
// depth-first order, or nil if there is none.
func (s *Scene) Find(name string) node.Drawable {
	var d node.Drawable
	s.ForEach(func(x node.Drawable) bool {
		if d != nil {
			return false
		}
		if b, ok := x.(interface{ Base() *node.Node }); ok && b.Base().Name == name {
			d = x
			return false
		}
		return true
	})
	return d
}

// Controls returns every control node in s, in
// depth-first order.
func (s *Scene) Controls() (cs []*node.Control) {
	s.ForEach(func(x node.Drawable) bool {
		if c, ok := x.(*node.Control); ok {
			cs = append(cs, c)
		}
		return true
	})
	return
}
