// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package node

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/gviegas/viewer/anim"
	"github.com/gviegas/viewer/input"
	"github.com/gviegas/viewer/linear"
)

// Control is a Node whose local transform is computed
// from a looping animation.
//
// The animation can be replaced at any time, including
// from a goroutine other than the one that draws;
// a Draw call observes either the old or the new
// animation in full.
type Control struct {
	Node
	loop atomic.Pointer[anim.Loop]
	keys map[input.Key]Rebuild
	errh func(error)
}

// Rebuild creates the replacement for the current loop.
type Rebuild func(cur *anim.Loop) (*anim.Loop, error)

// NewControl creates a new control node that plays loop.
func NewControl(name string, loop *anim.Loop) (*Control, error) {
	c := new(Control)
	c.Node.Init(name, nil)
	if err := c.SetLoop(loop); err != nil {
		return nil, err
	}
	return c, nil
}

// Loop returns the animation that c currently plays.
func (c *Control) Loop() *anim.Loop { return c.loop.Load() }

// SetLoop replaces the animation that c plays.
// loop must not be nil.
func (c *Control) SetLoop(loop *anim.Loop) error {
	if loop == nil {
		return errors.Wrapf(anim.ErrInvalidAnimation, "nil loop for %q", c.Name)
	}
	c.loop.Store(loop)
	return nil
}

// BindKey sets rebuild as the handler of key.
// When key is received, the loop that rebuild returns
// replaces the current one. rebuild may be called more
// than once per key. If rebuild fails, the
// current loop is kept and the error is reported to
// the error handler.
func (c *Control) BindKey(key input.Key, rebuild Rebuild) {
	if c.keys == nil {
		c.keys = make(map[input.Key]Rebuild)
	}
	c.keys[key] = rebuild
}

// SetErrorHandler sets the function that receives
// errors from key bindings.
func (c *Control) SetErrorHandler(f func(error)) { c.errh = f }

// HandleKey runs the binding of key, if any, and then
// forwards key to the children of c.
// If the loop is replaced while the binding runs, the
// binding runs again on the new loop.
func (c *Control) HandleKey(key input.Key) {
	if rebuild := c.keys[key]; rebuild != nil {
		if err := c.rebuild(rebuild); err != nil && c.errh != nil {
			c.errh(errors.Wrapf(err, "%s: key %v", c.Name, key))
		}
	}
	c.Node.HandleKey(key)
}

func (c *Control) rebuild(rebuild Rebuild) error {
	for {
		cur := c.loop.Load()
		loop, err := rebuild(cur)
		if err != nil {
			return err
		}
		if loop == nil {
			return errors.Wrapf(anim.ErrInvalidAnimation, "nil loop for %q", c.Name)
		}
		if c.loop.CompareAndSwap(cur, loop) {
			return nil
		}
	}
}

// Draw sets the local transform of c to the value of
// its animation at f.Time and then draws as a Node.
func (c *Control) Draw(parent *linear.M4, f *Frame) {
	// Evaluation cannot fail for a loop created
	// by anim.NewLoop; keep the last transform
	// if it ever does.
	if m, err := c.loop.Load().Evaluate(f.Time); err == nil {
		c.local = m
	}
	c.Node.Draw(parent, f)
}
