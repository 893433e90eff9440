package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestOverlayWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "outline.png")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	w, err := NewOverlayWatcher(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	changed := make(chan string, 4)
	w.OnChange(func(p string) { changed <- p })
	require.NoError(t, w.Start())
	defer w.Stop()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.png"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))

	select {
	case got := <-changed:
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestOverlayWatcher_StopWithoutStart(t *testing.T) {
	w, err := NewOverlayWatcher(filepath.Join(t.TempDir(), "outline.png"), nil)
	require.NoError(t, err)
	w.Stop()
}
