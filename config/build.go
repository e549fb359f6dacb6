// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package config

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/gviegas/viewer/anim"
	"github.com/gviegas/viewer/linear"
	"github.com/gviegas/viewer/node"
	"github.com/gviegas/viewer/scene"
)

// Factory creates the leaf drawable identified by name.
// It returns an error wrapping ErrUnknownDrawable if
// name is not known.
type Factory func(name string) (node.Drawable, error)

// Build creates a scene from f.
// Drawables are created by factory, which may be nil
// if f names no drawables. Failures of key bindings
// are reported to log, which may be nil.
func Build(f *File, factory Factory, log logrus.FieldLogger) (*scene.Scene, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := scene.New()
	if err := f.Light.apply(&s.Light); err != nil {
		return nil, err
	}
	if f.Camera != nil {
		c := s.Camera
		if err := f.Camera.Target.v3(&c.Target, c.Target); err != nil {
			return nil, errors.Wrap(err, "camera target")
		}
		c.Pitch, c.Yaw = f.Camera.Pitch, f.Camera.Yaw
		for _, x := range [...]struct{ dst, src *float32 }{
			{&c.Distance, &f.Camera.Distance},
			{&c.Fovy, &f.Camera.Fovy},
			{&c.Near, &f.Camera.Near},
			{&c.Far, &f.Camera.Far},
		} {
			if *x.src != 0 {
				*x.dst = *x.src
			}
		}
	}
	b := builder{factory, log}
	for i := range f.Nodes {
		d, err := b.node(&f.Nodes[i])
		if err != nil {
			return nil, err
		}
		if err := s.Add(d); err != nil {
			return nil, err
		}
	}
	return s, nil
}

type builder struct {
	factory Factory
	log     logrus.FieldLogger
}

func (b *builder) node(n *Node) (node.Drawable, error) {
	var m linear.M4
	var loop *anim.Loop
	var err error
	if n.Animation != nil {
		if n.Translate != nil || n.Rotate != nil || n.Euler != nil || n.Scale != nil {
			return nil, errors.Wrapf(ErrInvalidValue, "%q: static transform on animated node", n.Name)
		}
		if loop, err = BuildLoop(n.Animation); err != nil {
			return nil, errors.Wrapf(err, "%q", n.Name)
		}
	} else {
		if len(n.Keys) > 0 {
			return nil, errors.Wrapf(ErrInvalidValue, "%q: key bindings on static node", n.Name)
		}
		if m, err = n.local(); err != nil {
			return nil, errors.Wrapf(err, "%q", n.Name)
		}
	}

	var children []node.Drawable
	for _, name := range n.Drawables {
		if b.factory == nil {
			return nil, errors.Wrapf(ErrUnknownDrawable, "%q (no factory)", name)
		}
		d, err := b.factory(name)
		if err != nil {
			return nil, err
		}
		children = append(children, d)
	}
	for i := range n.Children {
		d, err := b.node(&n.Children[i])
		if err != nil {
			return nil, err
		}
		children = append(children, d)
	}

	if loop == nil {
		nd, err := node.NewTree(n.Name, &m, children...)
		if err != nil {
			return nil, err
		}
		return nd, nil
	}
	ctl, err := node.NewControl(n.Name, loop)
	if err != nil {
		return nil, err
	}
	if err := b.bind(ctl, n.Keys); err != nil {
		return nil, err
	}
	if err := ctl.Add(children...); err != nil {
		return nil, err
	}
	return ctl, nil
}

// bind sets the key bindings of c.
// Every binding changes the radius of the circle that
// generated the current loop.
func (b *builder) bind(c *node.Control, keys []KeyBinding) error {
	if len(keys) == 0 {
		return nil
	}
	if _, ok := c.Loop().Circle(); !ok {
		return errors.Wrapf(ErrInvalidValue, "%q: key bindings require a circle animation", c.Name)
	}
	for _, k := range keys {
		delta := k.Radius
		c.BindKey(k.Key, func(cur *anim.Loop) (*anim.Loop, error) {
			p, ok := cur.Circle()
			if !ok {
				return nil, errors.Wrap(anim.ErrInvalidAnimation, "not a circle")
			}
			p.Radius += delta
			return p.Loop()
		})
	}
	log := b.log.WithField("node", c.Name)
	c.SetErrorHandler(func(err error) { log.WithError(err).Warn("key binding failed") })
	return nil
}

// local returns the static transform of n.
func (n *Node) local() (m linear.M4, err error) {
	var t, s linear.V3
	var r linear.Q
	if err = n.Translate.v3(&t, linear.V3{}); err != nil {
		return
	}
	if err = n.Scale.scale(&s); err != nil {
		return
	}
	switch {
	case n.Rotate != nil && n.Euler != nil:
		err = errors.Wrap(ErrInvalidValue, "both rotate and euler set")
		return
	case n.Rotate != nil:
		var axis linear.V3
		if err = n.Rotate.Axis.v3(&axis, linear.V3{0, 1, 0}); err != nil {
			return
		}
		if axis.Len() == 0 {
			err = errors.Wrap(ErrInvalidValue, "zero rotation axis")
			return
		}
		axis.Norm(&axis)
		r.Rotate(mgl32.DegToRad(n.Rotate.Angle), &axis)
	default:
		var e linear.V3
		if err = n.Euler.v3(&e, linear.V3{}); err != nil {
			return
		}
		r.Euler(mgl32.DegToRad(e[0]), mgl32.DegToRad(e[1]), mgl32.DegToRad(e[2]))
	}
	m.TRS(&t, &r, &s)
	return
}

// CircleKeys is the number of keys of a Circle whose
// Keys field is zero.
const CircleKeys = 32

// BuildLoop creates the loop described by a.
func BuildLoop(a *Animation) (*anim.Loop, error) {
	if a.Circle != nil {
		if a.Translate != nil || a.Rotate != nil || a.Scale != nil {
			return nil, errors.Wrap(ErrInvalidValue, "circle animation with keyframes")
		}
		c := anim.Circle{
			Radius: a.Circle.Radius,
			Height: a.Circle.Height,
			Period: a.Circle.Period,
			Keys:   a.Circle.Keys,
		}
		if c.Period == 0 {
			c.Period = float32(a.Period)
		}
		if c.Keys == 0 {
			c.Keys = CircleKeys
		}
		return c.Loop()
	}

	tk := []anim.Key[linear.V3]{{}}
	if a.Translate != nil {
		tk = make([]anim.Key[linear.V3], len(a.Translate))
		for i, k := range a.Translate {
			tk[i].Time = k.Time
			if err := k.Value.v3(&tk[i].Value, linear.V3{}); err != nil {
				return nil, errors.Wrapf(err, "translate key %d", i)
			}
		}
	}
	rk := []anim.Key[linear.Q]{{Value: linear.Q{R: 1}}}
	if a.Rotate != nil {
		rk = make([]anim.Key[linear.Q], len(a.Rotate))
		for i, k := range a.Rotate {
			rk[i].Time = k.Time
			if err := k.Value.q(&rk[i].Value); err != nil {
				return nil, errors.Wrapf(err, "rotate key %d", i)
			}
		}
	}
	sk := []anim.Key[linear.V3]{{Value: linear.V3{1, 1, 1}}}
	if a.Scale != nil {
		sk = make([]anim.Key[linear.V3], len(a.Scale))
		for i, k := range a.Scale {
			sk[i].Time = k.Time
			if err := k.Value.scale(&sk[i].Value); err != nil {
				return nil, errors.Wrapf(err, "scale key %d", i)
			}
		}
	}

	t, err := anim.NewTrack(tk, anim.LerpV3)
	if err != nil {
		return nil, errors.Wrap(err, "translate")
	}
	r, err := anim.NewTrack(rk, anim.SlerpQ)
	if err != nil {
		return nil, errors.Wrap(err, "rotate")
	}
	s, err := anim.NewTrack(sk, anim.LerpV3)
	if err != nil {
		return nil, errors.Wrap(err, "scale")
	}
	trs, err := anim.NewTRS(t, r, s)
	if err != nil {
		return nil, err
	}
	return anim.NewLoop(trs, a.Period)
}

// v3 sets dst to contain v, or def if v is empty.
func (v Vec) v3(dst *linear.V3, def linear.V3) error {
	switch len(v) {
	case 0:
		*dst = def
	case 3:
		*dst = linear.V3(v)
	default:
		return errors.Wrapf(ErrInvalidValue, "%v: want 3 components", v)
	}
	return nil
}

// scale is like v3 but also accepts a single component
// as a uniform scale. The default is unit scale.
func (v Vec) scale(dst *linear.V3) error {
	if len(v) == 1 {
		*dst = linear.V3{v[0], v[0], v[0]}
		return nil
	}
	return v.v3(dst, linear.V3{1, 1, 1})
}

// q sets dst to contain the rotation that v describes,
// either Euler angles in degrees or a quaternion.
func (v Vec) q(dst *linear.Q) error {
	switch len(v) {
	case 3:
		dst.Euler(mgl32.DegToRad(v[0]), mgl32.DegToRad(v[1]), mgl32.DegToRad(v[2]))
	case 4:
		q := linear.Q{V: linear.V3{v[0], v[1], v[2]}, R: v[3]}
		if !(q.Len() > 0) {
			return errors.Wrapf(anim.ErrInvalidAnimation, "%v: zero-length quaternion", v)
		}
		dst.Norm(&q)
	default:
		return errors.Wrapf(ErrInvalidValue, "%v: want 3 or 4 components", v)
	}
	return nil
}

func (l *Light) apply(dst *node.Light) error {
	if l == nil {
		return nil
	}
	for _, x := range [...]struct {
		name string
		src  Vec
		dst  *linear.V3
	}{
		{"direction", l.Direction, &dst.Direction},
		{"ambient", l.Ambient, &dst.Ambient},
		{"diffuse", l.Diffuse, &dst.Diffuse},
		{"specular", l.Specular, &dst.Specular},
	} {
		if err := x.src.v3(x.dst, *x.dst); err != nil {
			return errors.Wrapf(err, "light %s", x.name)
		}
	}
	if l.Shininess != nil {
		dst.Shininess = *l.Shininess
	}
	return nil
}
