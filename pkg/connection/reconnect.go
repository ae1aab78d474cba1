package connection

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// ConnectFunc performs one connection attempt.
type ConnectFunc func(ctx context.Context) error

// ReconnectorConfig configures a Reconnector.
type ReconnectorConfig struct {
	// Connect is called once per attempt. Required.
	Connect ConnectFunc

	// ShouldRetry is checked before waiting and before each attempt. The
	// loop ends when it returns false. Nil means always.
	ShouldRetry func() bool

	// Backoff supplies the delays. Nil means NewBackoff().
	Backoff *Backoff

	// AttemptTimeout bounds each attempt. Zero means no timeout.
	AttemptTimeout time.Duration

	Logger *slog.Logger
}

// Reconnector runs a ConnectFunc in the background with backoff until it
// succeeds, ShouldRetry turns false, or Stop is called.
type Reconnector struct {
	cfg     ReconnectorConfig
	backoff *Backoff
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	trigger chan struct{}

	mu             sync.Mutex
	started        bool
	onReconnecting func(attempt int, delay time.Duration)
	onReconnected  func()
}

// NewReconnector creates a stopped Reconnector. Call Start to run it.
func NewReconnector(cfg ReconnectorConfig) *Reconnector {
	if cfg.Backoff == nil {
		cfg.Backoff = NewBackoff()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Reconnector{
		cfg:     cfg,
		backoff: cfg.Backoff,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		trigger: make(chan struct{}, 1),
	}
}

// Start launches the background loop. Calling it twice has no effect.
func (r *Reconnector) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true
	r.wg.Add(1)
	go r.loop()
}

// Trigger asks the loop to begin retrying. Triggers while a retry cycle is
// pending or running are coalesced.
func (r *Reconnector) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Stop ends the loop and waits for it to exit.
func (r *Reconnector) Stop() {
	r.cancel()
	r.wg.Wait()
}

// Attempts returns the attempts made in the current cycle.
func (r *Reconnector) Attempts() int {
	return r.backoff.Attempts()
}

// OnReconnecting sets a callback invoked before each wait.
func (r *Reconnector) OnReconnecting(fn func(attempt int, delay time.Duration)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onReconnecting = fn
}

// OnReconnected sets a callback invoked after a successful attempt.
func (r *Reconnector) OnReconnected(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onReconnected = fn
}

func (r *Reconnector) loop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-r.trigger:
			r.retry()
		}
	}
}

func (r *Reconnector) shouldRetry() bool {
	if r.ctx.Err() != nil {
		return false
	}
	return r.cfg.ShouldRetry == nil || r.cfg.ShouldRetry()
}

func (r *Reconnector) retry() {
	for r.shouldRetry() {
		delay := r.backoff.Next()
		attempt := r.backoff.Attempts()

		r.mu.Lock()
		onReconnecting := r.onReconnecting
		r.mu.Unlock()
		if onReconnecting != nil {
			onReconnecting(attempt, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-r.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if !r.shouldRetry() {
			break
		}

		ctx, cancel := r.ctx, context.CancelFunc(func() {})
		if r.cfg.AttemptTimeout > 0 {
			ctx, cancel = context.WithTimeout(r.ctx, r.cfg.AttemptTimeout)
		}
		err := r.cfg.Connect(ctx)
		cancel()

		if err == nil {
			r.backoff.Reset()
			r.mu.Lock()
			onReconnected := r.onReconnected
			r.mu.Unlock()
			if onReconnected != nil {
				onReconnected()
			}
			return
		}
		r.logger.Debug("reconnect attempt failed", "attempt", attempt, "error", err)
	}
	r.backoff.Reset()
}
