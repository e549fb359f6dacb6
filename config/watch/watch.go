// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package watch reloads the animations of a scene when
// its description file changes.
//
// Only the loops of existing control nodes are replaced.
// Other changes to the file, such as new nodes, are
// reported and otherwise ignored.
package watch

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/gviegas/viewer/anim"
	"github.com/gviegas/viewer/config"
	"github.com/gviegas/viewer/node"
	"github.com/gviegas/viewer/scene"
)

// Watcher watches a description file.
type Watcher struct {
	path  string
	scene *scene.Scene
	log   logrus.FieldLogger
}

// New creates a new watcher for the file at path, which
// s was built from. If log is nil, the standard logger
// is used.
func New(path string, s *scene.Scene, log logrus.FieldLogger) *Watcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Watcher{
		path:  filepath.Clean(path),
		scene: s,
		log:   log.WithField("file", path),
	}
}

// Reload reads the file and replaces the loop of every
// control node that it describes. It returns the number
// of replaced loops.
// If any animation in the file is invalid, no loop is
// replaced.
func (w *Watcher) Reload() (int, error) {
	f, err := config.Load(w.path)
	if err != nil {
		return 0, err
	}

	ctls := make(map[string][]*node.Control)
	for _, c := range w.scene.Controls() {
		ctls[c.Name] = append(ctls[c.Name], c)
	}
	type swap struct {
		ctl  []*node.Control
		loop *anim.Loop
	}
	var swaps []swap
	seen := make(map[string]bool)

	var walk func([]config.Node) error
	walk = func(ns []config.Node) error {
		for i := range ns {
			n := &ns[i]
			switch c, ok := ctls[n.Name]; {
			case n.Animation == nil && ok:
				w.log.WithField("node", n.Name).Warn("animation removed; keeping current loop")
			case n.Animation == nil:
			case !ok:
				w.log.WithField("node", n.Name).Warn("no such control node; ignoring animation")
			default:
				loop, err := config.BuildLoop(n.Animation)
				if err != nil {
					return errors.Wrapf(err, "%q", n.Name)
				}
				swaps = append(swaps, swap{c, loop})
			}
			seen[n.Name] = true
			if err := walk(n.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(f.Nodes); err != nil {
		return 0, err
	}

	for name := range ctls {
		if !seen[name] {
			w.log.WithField("node", name).Warn("control node missing from file; keeping current loop")
		}
	}
	var n int
	for _, s := range swaps {
		for _, c := range s.ctl {
			// Loops built by BuildLoop are never nil.
			c.SetLoop(s.loop)
			n++
		}
	}
	return n, nil
}

// Run watches the file until ctx is done, calling
// Reload whenever the file is written or replaced.
// Reload failures are logged.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "watch")
	}
	defer fw.Close()
	// Watch the directory; editors may replace the file.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return errors.Wrap(err, "watch")
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			n, err := w.Reload()
			if err != nil {
				w.log.WithError(err).Error("reload failed")
				continue
			}
			w.log.WithField("loops", n).Info("reloaded")
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("watch error")
		}
	}
}
