package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testOptions(dir string) Options {
	return Options{
		Paths:            []string{dir},
		Ignored:          []string{"node_modules"},
		PollInterval:     10 * time.Millisecond,
		AggregateTimeout: 10 * time.Millisecond,
	}
}

func TestWatcherDetectsModification(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "background.ts")
	require.NoError(t, os.WriteFile(file, []byte("export {}"), 0600))

	w := New(testOptions(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, func() {
			select {
			case fired <- struct{}{}:
			default:
			}
		})
	}()

	// Let the baseline scan land before changing anything.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(file, []byte("export const changed = 1"), 0600))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(file, future, future))

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the change")
	}

	cancel()
	<-done
}

func TestWatcherIgnoresConfiguredDirs(t *testing.T) {
	dir := t.TempDir()
	ignored := filepath.Join(dir, "node_modules", "pkg")
	require.NoError(t, os.MkdirAll(ignored, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(ignored, "index.js"), []byte("x"), 0600))

	w := New(testOptions(dir))

	changed := w.scan()
	require.False(t, changed, "baseline over ignored-only tree should see nothing")
	require.Empty(t, w.timestamps)
}

func TestWatcherDetectsRemoval(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "content.ts")
	require.NoError(t, os.WriteFile(file, []byte("export {}"), 0600))

	w := New(testOptions(dir))

	w.scan()
	require.NoError(t, os.Remove(file))
	require.True(t, w.scan())
}

func TestNewDefaults(t *testing.T) {
	w := New(Options{})
	require.Equal(t, time.Second, w.opts.PollInterval)
	require.Equal(t, time.Second, w.opts.AggregateTimeout)
}
