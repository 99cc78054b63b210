package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_EmitsBatchForMatchingFile(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, []string{"**/*.smithy"}, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	batches, err := w.Start()
	require.NoError(t, err)

	path := filepath.Join(dir, "a.smithy")
	require.NoError(t, os.WriteFile(path, []byte("namespace com.a\n"), 0o644))

	select {
	case b := <-batches:
		all := append(append(b.Added, b.Changed...), b.Removed...)
		require.Contains(t, all, path)
	case <-time.After(3 * time.Second):
		t.Fatal("no batch within timeout")
	}
}

func TestWatcher_IgnoresNonMatchingFile(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, []string{"**/*.smithy"}, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	batches, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "note.txt"), []byte("x"), 0o644))

	select {
	case b := <-batches:
		t.Fatalf("unexpected batch: %+v", b)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_CloseStopsStream(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, []string{"**/*.smithy"}, 50*time.Millisecond)
	require.NoError(t, err)

	batches, err := w.Start()
	require.NoError(t, err)
	require.NoError(t, w.Close())

	select {
	case _, open := <-batches:
		require.False(t, open, "stream should close after Close")
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close")
	}
}
