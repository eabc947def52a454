package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles_FiresOnWriteAndStops(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "circuit.hcl")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Files(ctx, []string{path}, 20*time.Millisecond, zerolog.Nop(), func() { calls.Add(1) })
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("b"), 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestFiles_MissingDirectory(t *testing.T) {
	err := Files(context.Background(), []string{"/definitely/not/here/x.hcl"}, time.Millisecond, zerolog.Nop(), func() {})
	assert.Error(t, err)
}
