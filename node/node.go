// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package node implements the scene's graph.
package node

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/gviegas/viewer/input"
	"github.com/gviegas/viewer/linear"
)

const prefix = "node: "

// ErrCycleDetected means that a node was added to a
// second parent, or below one of its own descendants.
var ErrCycleDetected = errors.New(prefix + "cycle detected")

var errNilChild = errors.New(prefix + "nil child")

// Light is a directional light with Phong terms.
type Light struct {
	Direction linear.V3
	Ambient   linear.V3
	Diffuse   linear.V3
	Specular  linear.V3
	Shininess float32
}

// Uniforms are the values shared by every drawable
// in a traversal. The graph does not interpret them.
type Uniforms struct {
	View linear.M4
	Proj linear.M4
	Light
}

// Frame is the state of a single traversal.
// Every node in a traversal observes the same Frame.
type Frame struct {
	// Global animation time, in seconds.
	Time float64
	Uniforms
}

// Drawable is the interface that every child of a Node
// implements.
type Drawable interface {
	// Draw draws using parent as the world transform
	// of the caller.
	// It must not retain parent or f.
	Draw(parent *linear.M4, f *Frame)
}

// KeyHandler is an optional capability of a Drawable.
// Only children that implement it receive keys.
type KeyHandler interface {
	HandleKey(key input.Key)
}

// Node is a node in a scene graph.
// It owns its children exclusively; a child Node has
// at most one parent, and the attachment is permanent.
//
// Node is meant to be embedded by types that compute
// their local transforms, such as Control.
type Node struct {
	Name     string
	local    linear.M4
	world    linear.M4
	parent   *Node
	children []Drawable
}

// New creates a new node with no children.
// If local is nil, the identity is used.
func New(name string, local *linear.M4) *Node { return new(Node).Init(name, local) }

// NewTree creates a new node and adds children to it.
// It fails under the same conditions as Add.
func NewTree(name string, local *linear.M4, children ...Drawable) (*Node, error) {
	n := New(name, local)
	if err := n.Add(children...); err != nil {
		return nil, err
	}
	return n, nil
}

// Init initializes n.
func (n *Node) Init(name string, local *linear.M4) *Node {
	n.Name = name
	if local != nil {
		n.local = *local
	} else {
		n.local.I()
	}
	n.world = n.local
	return n
}

// Base returns n.
// Types that embed Node thus expose their graph node
// through this method.
func (n *Node) Base() *Node { return n }

// owner is implemented by Node and every type that
// embeds it.
type owner interface{ Base() *Node }

// Local returns the local transform of n.
func (n *Node) Local() linear.M4 { return n.local }

// SetLocal sets the local transform of n.
func (n *Node) SetLocal(m *linear.M4) { n.local = *m }

// World returns the world transform computed by the
// most recent call to n.Draw.
func (n *Node) World() linear.M4 { return n.world }

// Parent returns the parent of n, or nil if n was
// not added to any node.
func (n *Node) Parent() *Node { return n.parent }

// Len returns the number of children of n.
func (n *Node) Len() int { return len(n.children) }

// Child returns the ith child of n.
func (n *Node) Child(i int) Drawable { return n.children[i] }

// Add appends children to n, preserving their order.
// Children that embed Node are attached to n; it fails
// with ErrCycleDetected if any of them already has a
// parent or is n itself or one of its ancestors.
// Nil children, including nil pointers, are rejected.
// When Add fails, n is left unchanged.
//
// Drawables that do not embed Node carry no parent
// link. Sharing one of them between nodes is allowed,
// but it will be drawn once per owner.
func (n *Node) Add(children ...Drawable) error {
	for i, c := range children {
		if isNil(c) {
			return errors.Wrapf(errNilChild, "child %d of %q", i, n.Name)
		}
		o, ok := c.(owner)
		if !ok {
			continue
		}
		b := o.Base()
		if b.parent != nil {
			return errors.Wrapf(ErrCycleDetected, "%q already has parent %q", b.Name, b.parent.Name)
		}
		for a := n; a != nil; a = a.parent {
			if a == b {
				return errors.Wrapf(ErrCycleDetected, "%q is an ancestor of %q", b.Name, n.Name)
			}
		}
		for _, x := range children[:i] {
			if y, ok := x.(owner); ok && y.Base() == b {
				return errors.Wrapf(ErrCycleDetected, "%q added twice", b.Name)
			}
		}
	}
	for _, c := range children {
		if o, ok := c.(owner); ok {
			o.Base().parent = n
		}
	}
	n.children = append(n.children, children...)
	return nil
}

// isNil reports whether d is nil or holds a nil pointer.
// Calling Base on a nil pointer to a type that embeds
// Node would panic.
func isNil(d Drawable) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Draw computes the world transform of n as
// parent ⋅ local and then draws every child, in
// insertion order, using it.
func (n *Node) Draw(parent *linear.M4, f *Frame) {
	n.world.Mul(parent, &n.local)
	for _, c := range n.children {
		c.Draw(&n.world, f)
	}
}

// HandleKey forwards key to every child that is
// a KeyHandler.
func (n *Node) HandleKey(key input.Key) {
	for _, c := range n.children {
		if h, ok := c.(KeyHandler); ok {
			h.HandleKey(key)
		}
	}
}

// ForEach calls f for every descendant of n, depth-first
// and in insertion order. Children of a Drawable are
// visited only if it embeds Node.
// If f returns false, the children of that Drawable are
// skipped.
func (n *Node) ForEach(f func(Drawable) bool) {
	for _, c := range n.children {
		if !f(c) {
			continue
		}
		if o, ok := c.(owner); ok {
			o.Base().ForEach(f)
		}
	}
}

// String implements fmt.Stringer.
func (n *Node) String() string { return n.Name }
