// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/viewer/anim"
	"github.com/gviegas/viewer/config"
	"github.com/gviegas/viewer/internal/leaf"
	"github.com/gviegas/viewer/linear"
	"github.com/gviegas/viewer/node"
	"github.com/gviegas/viewer/scene"
)

const before = `
nodes:
  - name: ship
    animation:
      translate: [{time: 0, value: [0, 0, 0]}, {time: 10, value: [10, 0, 0]}]
    children:
      - name: wing
        animation:
          circle: {radius: 1, period: 4, keys: 8}
  - name: ground
    drawables: [grid]
`

const after = `
nodes:
  - name: ship
    animation:
      translate: [{time: 0, value: [0, 0, 0]}, {time: 10, value: [0, 20, 0]}]
    children:
      - name: wing
        animation:
          circle: {radius: 3, period: 4, keys: 8}
  - name: ground
    drawables: [grid]
`

func setup(t *testing.T) (string, *scene.Scene) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(before), 0o644))
	f, err := config.Load(path)
	require.NoError(t, err)
	s, err := config.Build(f, leaf.Factory, nil)
	require.NoError(t, err)
	return path, s
}

func translation(t *testing.T, c *node.Control, at float64) linear.V3 {
	t.Helper()
	m, err := c.Loop().Evaluate(at)
	require.NoError(t, err)
	return m.Translation()
}

func TestReload(t *testing.T) {
	path, s := setup(t)
	log, hook := test.NewNullLogger()
	w := New(path, s, log)

	ship := s.Find("ship").(*node.Control)
	wing := s.Find("wing").(*node.Control)
	assert.Equal(t, linear.V3{5, 0, 0}, translation(t, ship, 5))

	// Unchanged file.
	n, err := w.Reload()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, hook.Entries)

	require.NoError(t, os.WriteFile(path, []byte(after), 0o644))
	n, err = w.Reload()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, linear.V3{0, 10, 0}, translation(t, ship, 5))
	c, ok := wing.Loop().Circle()
	require.True(t, ok)
	assert.Equal(t, float32(3), c.Radius)

	// The rest of the graph is untouched.
	assert.Same(t, ship, s.Find("ship"))
	assert.Equal(t, 2, s.Len())
}

func TestReloadInvalid(t *testing.T) {
	path, s := setup(t)
	w := New(path, s, nil)
	ship := s.Find("ship").(*node.Control)
	wing := s.Find("wing").(*node.Control)
	sl, wl := ship.Loop(), wing.Loop()

	// The ship is valid, but the wing is not.
	require.NoError(t, os.WriteFile(path, []byte(`
nodes:
  - name: ship
    animation:
      translate: [{time: 0, value: [1, 1, 1]}]
    children:
      - name: wing
        animation:
          circle: {radius: -1, period: 4, keys: 8}
`), 0o644))
	_, err := w.Reload()
	assert.ErrorIs(t, err, anim.ErrInvalidAnimation)
	assert.Same(t, sl, ship.Loop())
	assert.Same(t, wl, wing.Loop())

	require.NoError(t, os.WriteFile(path, []byte("nodes: [{name: ship, colour: red}]"), 0o644))
	_, err = w.Reload()
	assert.Error(t, err)
	assert.Same(t, sl, ship.Loop())
}

func TestReloadStructural(t *testing.T) {
	path, s := setup(t)
	log, hook := test.NewNullLogger()
	w := New(path, s, log)
	ship := s.Find("ship").(*node.Control)
	sl := ship.Loop()

	require.NoError(t, os.WriteFile(path, []byte(`
nodes:
  - name: ship
    children:
      - name: wing
        animation:
          circle: {radius: 2, period: 4, keys: 8}
  - name: tail
    animation:
      translate: [{time: 0, value: [1, 1, 1]}]
`), 0o644))
	n, err := w.Reload()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Same(t, sl, ship.Loop())

	var warned []string
	for _, e := range hook.AllEntries() {
		assert.Equal(t, logrus.WarnLevel, e.Level)
		assert.Equal(t, path, e.Data["file"])
		warned = append(warned, e.Data["node"].(string))
	}
	assert.ElementsMatch(t, []string{"ship", "tail"}, warned)

	require.NoError(t, os.WriteFile(path, []byte("nodes: []"), 0o644))
	hook.Reset()
	n, err = w.Reload()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, hook.AllEntries(), 2)
}

func TestRun(t *testing.T) {
	path, s := setup(t)
	log, _ := test.NewNullLogger()
	w := New(path, s, log)
	ship := s.Find("ship").(*node.Control)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to start.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(after), 0o644))
	require.Eventually(t, func() bool {
		m, err := ship.Loop().Evaluate(5)
		return err == nil && m.Translation() == linear.V3{0, 10, 0}
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watcher.Run: did not return after cancel")
	}
}
