// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package config implements scene description files.
// A description can be written in YAML or TOML and is
// turned into a scene.Scene by Build.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gviegas/viewer/input"
)

const prefix = "config: "

var (
	// ErrUnknownFormat means that a file extension or
	// format name is neither YAML nor TOML.
	ErrUnknownFormat = errors.New(prefix + "unknown format")
	// ErrUnknownDrawable means that a Factory could not
	// create a named drawable.
	ErrUnknownDrawable = errors.New(prefix + "unknown drawable")
	// ErrInvalidValue means that a field has a value
	// that cannot be used, such as a vector with the
	// wrong number of components.
	ErrInvalidValue = errors.New(prefix + "invalid value")
)

// Format is the format of a description file.
type Format string

// Formats.
const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatOf returns the Format for the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", path)
}

// File is the root of a description.
type File struct {
	Light  *Light  `yaml:"light" toml:"light"`
	Camera *Camera `yaml:"camera" toml:"camera"`
	Nodes  []Node  `yaml:"nodes" toml:"nodes"`
}

// Vec is a list of vector components.
// Its required length depends on the field.
type Vec []float32

// Light describes the scene's light.
// Omitted fields keep the scene defaults.
type Light struct {
	Direction Vec      `yaml:"direction" toml:"direction"`
	Ambient   Vec      `yaml:"ambient" toml:"ambient"`
	Diffuse   Vec      `yaml:"diffuse" toml:"diffuse"`
	Specular  Vec      `yaml:"specular" toml:"specular"`
	Shininess *float32 `yaml:"shininess" toml:"shininess"`
}

// Camera describes the orbit camera.
// Angles are in degrees. Zero values for Distance,
// Fovy, Near and Far keep the camera defaults.
type Camera struct {
	Target   Vec     `yaml:"target" toml:"target"`
	Distance float32 `yaml:"distance" toml:"distance"`
	Pitch    float32 `yaml:"pitch" toml:"pitch"`
	Yaw      float32 `yaml:"yaw" toml:"yaw"`
	Fovy     float32 `yaml:"fovy" toml:"fovy"`
	Near     float32 `yaml:"near" toml:"near"`
	Far      float32 `yaml:"far" toml:"far"`
}

// Node describes a node of the graph.
//
// A node with an Animation becomes a control node and
// must not set a static transform. Otherwise, its
// local transform is built from Translate, one of
// Rotate or Euler, and Scale.
type Node struct {
	Name      string       `yaml:"name" toml:"name"`
	Translate Vec          `yaml:"translate" toml:"translate"`
	Rotate    *Rotation    `yaml:"rotate" toml:"rotate"`
	Euler     Vec          `yaml:"euler" toml:"euler"`
	Scale     Vec          `yaml:"scale" toml:"scale"`
	Drawables []string     `yaml:"drawables" toml:"drawables"`
	Animation *Animation   `yaml:"animation" toml:"animation"`
	Keys      []KeyBinding `yaml:"keys" toml:"keys"`
	Children  []Node       `yaml:"children" toml:"children"`
}

// Rotation is an axis-angle rotation.
// Angle is in degrees.
type Rotation struct {
	Axis  Vec     `yaml:"axis" toml:"axis"`
	Angle float32 `yaml:"angle" toml:"angle"`
}

// Animation describes the loop of a control node.
// It is either keyframed or a Circle.
//
// Rotate values are Euler angles in degrees (yaw,
// pitch, roll) or quaternions (x, y, z, w).
// Scale values have one component (uniform) or three.
// Omitted tracks are static: no translation, no
// rotation and unit scale.
type Animation struct {
	Period    float64    `yaml:"period" toml:"period"`
	Translate []Keyframe `yaml:"translate" toml:"translate"`
	Rotate    []Keyframe `yaml:"rotate" toml:"rotate"`
	Scale     []Keyframe `yaml:"scale" toml:"scale"`
	Circle    *Circle    `yaml:"circle" toml:"circle"`
}

// Keyframe is a single key of a track.
type Keyframe struct {
	Time  float32 `yaml:"time" toml:"time"`
	Value Vec     `yaml:"value" toml:"value"`
}

// Circle describes a circular flight path.
// A zero Period uses Animation.Period and zero Keys
// uses CircleKeys.
type Circle struct {
	Radius float32 `yaml:"radius" toml:"radius"`
	Height float32 `yaml:"height" toml:"height"`
	Period float32 `yaml:"period" toml:"period"`
	Keys   int     `yaml:"keys" toml:"keys"`
}

// KeyBinding changes the radius of a circle animation
// by Radius when Key is pressed.
type KeyBinding struct {
	Key    input.Key `yaml:"key" toml:"key"`
	Radius float32   `yaml:"radius" toml:"radius"`
}

// Decode decodes a description from r.
// Unknown fields are an error.
func Decode(r io.Reader, format Format) (*File, error) {
	f := new(File)
	switch format {
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(f); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, prefix+"yaml")
		}
	case TOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(f); err != nil {
			return nil, errors.Wrap(err, prefix+"toml")
		}
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
	return f, nil
}

// Load reads and decodes the file at path.
// The format is given by the extension.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, prefix+"load")
	}
	f, err := Decode(bytes.NewReader(b), format)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return f, nil
}
