package lifecycle

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingTarget struct {
	suspends  int
	resumes   int
	resumeErr error
}

func (c *countingTarget) Suspend() { c.suspends++ }

func (c *countingTarget) Resume() error {
	c.resumes++
	return c.resumeErr
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBridgeForwardsOncePerTransition(t *testing.T) {
	target := &countingTarget{}
	b := New(target, quietLogger())

	require.NoError(t, b.Foreground())
	require.Equal(t, 0, target.resumes, "already in foreground")

	b.Background()
	b.Background()
	require.Equal(t, 1, target.suspends)
	require.True(t, b.InBackground())

	require.NoError(t, b.Foreground())
	require.NoError(t, b.Foreground())
	require.Equal(t, 1, target.resumes)
	require.False(t, b.InBackground())
}

func TestBridgeToggle(t *testing.T) {
	target := &countingTarget{}
	b := New(target, quietLogger())

	require.NoError(t, b.Toggle())
	require.Equal(t, 1, target.suspends)
	require.NoError(t, b.Toggle())
	require.Equal(t, 1, target.resumes)
}

func TestBridgeSurfacesResumeError(t *testing.T) {
	target := &countingTarget{resumeErr: errors.New("sensor gone")}
	b := New(target, quietLogger())

	b.Background()
	require.Error(t, b.Foreground())
	require.False(t, b.InBackground())
}

func TestHandleSignal(t *testing.T) {
	target := &countingTarget{}
	b := New(target, quietLogger())

	b.handleSignal(syscall.SIGUSR1)
	b.handleSignal(syscall.SIGUSR2)
	require.Equal(t, 1, target.suspends)
	require.Equal(t, 1, target.resumes)
}

type lockedTarget struct {
	mu       sync.Mutex
	suspends int
	resumes  int
}

func (l *lockedTarget) Suspend() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.suspends++
}

func (l *lockedTarget) Resume() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resumes++
	return nil
}

func TestConcurrentTogglesAlternate(t *testing.T) {
	target := &lockedTarget{}
	b := New(target, quietLogger())

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Toggle()
		}()
	}
	wg.Wait()

	// an even number of flips ends in the foreground with matched calls
	require.False(t, b.InBackground())
	require.Equal(t, n/2, target.suspends)
	require.Equal(t, n/2, target.resumes)
}
