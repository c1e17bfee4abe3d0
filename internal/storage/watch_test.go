package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatch(t *testing.T, s *FS, key string) *atomic.Int32 {
	t.Helper()
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	go func() {
		defer close(done)
		_ = Watch(ctx, s, key, logger, func() { calls.Add(1) })
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// Give the watcher time to register.
	time.Sleep(50 * time.Millisecond)
	return &calls
}

func TestWatch_ExternalWriteTriggersCallback(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Put("data", []byte("[]")))
	calls := startWatch(t, s, "data")

	path, err := s.Path("data")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"x"}]`), 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
}

func TestWatch_OwnWriteIgnored(t *testing.T) {
	s := tempStore(t)
	calls := startWatch(t, s, "data")

	require.NoError(t, s.Put("data", []byte(`[{"id":"mine"}]`)))

	time.Sleep(watchDebounce + 200*time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestWatch_OtherFilesIgnored(t *testing.T) {
	s := tempStore(t)
	calls := startWatch(t, s, "data")

	require.NoError(t, s.Put("other", []byte("x")))
	path, _ := s.Path("other")
	require.NoError(t, os.WriteFile(path, []byte("y"), 0o644))

	time.Sleep(watchDebounce + 200*time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
