// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Viewer replays an animated scene description without
// a window. Every drawable logs its world translation
// when drawn.
//
// Usage:
//
//	viewer [flags] FILE
//
// FILE is a YAML or TOML scene description. Drawables
// named in it are replaced by recorders.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gviegas/viewer/config"
	"github.com/gviegas/viewer/config/watch"
	"github.com/gviegas/viewer/input"
	"github.com/gviegas/viewer/internal/leaf"
	"github.com/gviegas/viewer/node"
	"github.com/gviegas/viewer/scene"
)

type options struct {
	frames   int
	fps      float64
	start    float64
	aspect   float32
	watch    bool
	press    []string
	logLevel string
}

func newCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "viewer [flags] FILE",
		Short:        "Replay an animated scene description",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], &opts, cmd.ErrOrStderr())
		},
	}
	f := cmd.Flags()
	f.IntVarP(&opts.frames, "frames", "n", 60, "number of frames to draw (0 with --watch: until interrupted)")
	f.Float64Var(&opts.fps, "fps", 30, "frames per second")
	f.Float64Var(&opts.start, "start", 0, "global time of the first frame, in seconds")
	f.Float32Var(&opts.aspect, "aspect", 16.0/9, "viewport aspect ratio")
	f.BoolVarP(&opts.watch, "watch", "w", false, "draw in real time and reload animations when FILE changes")
	f.StringArrayVarP(&opts.press, "press", "p", nil, "press `key@seconds` (repeatable)")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level")
	return cmd
}

// press is a key pressed at a given global time.
type press struct {
	key input.Key
	at  float64
}

// parsePress parses a string in the form key@seconds.
func parsePress(s string) (press, error) {
	k, t, ok := strings.Cut(s, "@")
	if !ok {
		return press{}, errors.Errorf("press %q: want key@seconds", s)
	}
	key, err := input.ParseKey(k)
	if err != nil {
		return press{}, errors.Wrapf(err, "press %q", s)
	}
	at, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return press{}, errors.Wrapf(err, "press %q", s)
	}
	return press{key, at}, nil
}

var spewConfig = spew.ConfigState{Indent: "  ", DisableCapacities: true, DisablePointerAddresses: true}

func run(ctx context.Context, path string, opts *options, out io.Writer) error {
	log := logrus.New()
	log.SetOutput(out)
	lvl, err := logrus.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	if !(opts.fps > 0) {
		return errors.Errorf("invalid fps %v", opts.fps)
	}

	presses := make([]press, 0, len(opts.press))
	for _, s := range opts.press {
		p, err := parsePress(s)
		if err != nil {
			return err
		}
		presses = append(presses, p)
	}
	sort.SliceStable(presses, func(i, j int) bool { return presses[i].at < presses[j].at })

	f, err := config.Load(path)
	if err != nil {
		return err
	}
	if log.IsLevelEnabled(logrus.DebugLevel) {
		log.Debug("description\n" + spewConfig.Sdump(f))
	}
	var frame int
	factory := func(name string) (node.Drawable, error) {
		r := leaf.New(name)
		r.OnDraw = func(r *leaf.Recorder, d *leaf.Draw) {
			t := d.World.Translation()
			log.WithFields(logrus.Fields{
				"drawable": r.Name,
				"frame":    frame,
				"time":     d.Time,
				"x":        t[0],
				"y":        t[1],
				"z":        t[2],
			}).Info("draw")
		}
		return r, nil
	}
	s, err := config.Build(f, factory, log)
	if err != nil {
		return err
	}
	s.Aspect = opts.aspect

	// step draws a frame at global time t after
	// delivering the presses due by then.
	step := func(t float64) (quit bool) {
		for len(presses) > 0 && presses[0].at <= t {
			p := presses[0]
			presses = presses[1:]
			log.WithFields(logrus.Fields{"key": p.key, "time": t}).Debug("press")
			if err := s.HandleKey(p.key); errors.Is(err, scene.ErrQuit) {
				log.WithField("frame", frame).Info("quit")
				return true
			}
		}
		s.Draw(t)
		frame++
		return false
	}

	if !opts.watch {
		for frame < opts.frames {
			if step(opts.start + float64(frame)/opts.fps) {
				break
			}
		}
		return nil
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()
	w := watch.New(path, s, log)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	tick := time.NewTicker(time.Duration(float64(time.Second) / opts.fps))
	defer tick.Stop()
	begin := time.Now()
	for opts.frames == 0 || frame < opts.frames {
		select {
		case <-ctx.Done():
			return <-done
		case err := <-done:
			return err
		case now := <-tick.C:
			if step(opts.start + now.Sub(begin).Seconds()) {
				cancel()
				return <-done
			}
		}
	}
	cancel()
	return <-done
}

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
