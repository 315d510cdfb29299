package signal

import (
	"context"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_SignalCancelsContext(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handleSignal(syscall.SIGINT)

	require.ErrorIs(t, h.Context().Err(), context.Canceled)
	assert.True(t, h.WasInterrupted())
}

func TestHandler_MultipleSignalsHandledOnce(t *testing.T) {
	var calls atomic.Int32
	h := NewHandler(context.Background(), WithOnInterrupt(func(os.Signal) {
		calls.Add(1)
	}))
	defer h.Stop()

	h.handleSignal(syscall.SIGINT)
	h.handleSignal(syscall.SIGTERM)
	h.handleSignal(syscall.SIGINT)

	assert.Equal(t, int32(1), calls.Load())
	select {
	case <-h.Interrupted():
	default:
		t.Fatal("interrupted channel should be closed")
	}
}

func TestHandler_OnInterruptReceivesSignal(t *testing.T) {
	got := make(chan os.Signal, 1)
	h := NewHandler(context.Background(), WithOnInterrupt(func(sig os.Signal) {
		got <- sig
	}))
	defer h.Stop()

	h.sigChan <- syscall.SIGTERM

	select {
	case sig := <-got:
		assert.Equal(t, syscall.SIGTERM, sig)
	case <-time.After(time.Second):
		t.Fatal("signal was not delivered")
	}
	<-h.Context().Done()
}

func TestHandler_StopCancelsWithoutInterrupt(t *testing.T) {
	h := NewHandler(context.Background())
	h.Stop()
	h.Stop()

	require.Error(t, h.Context().Err())
	assert.False(t, h.WasInterrupted())
}

func TestHandler_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	h := NewHandler(parent)
	defer h.Stop()

	cancel()

	select {
	case <-h.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("context should follow its parent")
	}
	assert.False(t, h.WasInterrupted())
}
