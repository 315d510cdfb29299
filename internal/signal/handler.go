// Package signal cancels a relpack run on SIGINT or SIGTERM.
//
// The pipeline writes the manifest, archive and notes through temp files, so a
// canceled context is all a step needs to stop without leaving partial output.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler owns a context that is canceled on the first SIGINT or SIGTERM.
type Handler struct {
	ctx         context.Context //nolint:containedctx // handler owns the context lifecycle
	cancel      context.CancelFunc
	interrupted chan struct{}
	done        chan struct{}
	sigChan     chan os.Signal
	onInterrupt func(os.Signal)

	once     sync.Once
	stopOnce sync.Once
}

// Option configures a Handler.
type Option func(*Handler)

// WithOnInterrupt registers fn to run once when the first signal arrives,
// before the context is canceled. The CLI uses it to log the interruption.
func WithOnInterrupt(fn func(os.Signal)) Option {
	return func(h *Handler) { h.onInterrupt = fn }
}

// NewHandler starts listening for SIGINT and SIGTERM. Call Stop when done.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	err := runner.Run(h.Context(), opts)
func NewHandler(parent context.Context, opts ...Option) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
		sigChan:     make(chan os.Signal, 1),
	}
	for _, opt := range opts {
		opt(h)
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context returns the context canceled on interrupt or Stop.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted returns a channel closed when a signal was received.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// WasInterrupted reports whether a signal has been received.
func (h *Handler) WasInterrupted() bool {
	select {
	case <-h.interrupted:
		return true
	default:
		return false
	}
}

// Stop unregisters the handler and cancels its context. Safe to call twice.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

// handleSignal runs once, whatever the number of signals delivered.
func (h *Handler) handleSignal(sig os.Signal) {
	h.once.Do(func() {
		if h.onInterrupt != nil {
			h.onInterrupt(sig)
		}
		h.cancel()
		close(h.interrupted)
	})
}

func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.done:
			return
		case sig := <-h.sigChan:
			h.handleSignal(sig)
		}
	}
}
