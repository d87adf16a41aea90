// Package shutdown turns SIGINT/SIGTERM into context cancellation.
//
// The first signal cancels the run context so in-flight downloads and
// generation can unwind. A second signal forces the process out.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go_fluxcheck/logging"

	"go.uber.org/zap"
)

// ForceAfter is the signal count that triggers a forced exit.
const ForceAfter = 2

// SignalCounter tracks repeated shutdown signals and triggers forced shutdown.
//
// Usage:
//
//	counter := NewSignalCounter(2, func() {
//	    os.Exit(core.ExitCodeSIGINT)
//	})
//	count := counter.Increment() // from the signal loop
type SignalCounter struct {
	mu         sync.Mutex
	count      int
	forceAfter int
	onForce    func()
}

// NewSignalCounter creates a SignalCounter that calls onForce (may be nil)
// once the count reaches forceAfter.
func NewSignalCounter(forceAfter int, onForce func()) *SignalCounter {
	return &SignalCounter{
		forceAfter: forceAfter,
		onForce:    onForce,
	}
}

// Increment increases the signal count by one and returns the new count.
// The callback runs while holding the lock; it should exit the process or return quickly.
func (s *SignalCounter) Increment() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	if s.count >= s.forceAfter && s.onForce != nil {
		s.onForce()
	}
	return s.count
}

// Count returns the current signal count.
func (s *SignalCounter) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Interrupter cancels a context on the first shutdown signal and calls a
// force callback on the second.
type Interrupter struct {
	logger  *logging.Logger
	cancel  context.CancelFunc
	counter *SignalCounter

	mu  sync.Mutex
	sig os.Signal

	sigChan chan os.Signal
	done    chan struct{}
	once    sync.Once
}

// WatchSignals returns a context cancelled by SIGINT or SIGTERM.
// onForce receives the signal that reached ForceAfter; it usually exits.
// Call Stop to release the signal handler.
func WatchSignals(parent context.Context, logger *logging.Logger, onForce func(os.Signal)) (context.Context, *Interrupter) {
	i, ctx := newInterrupter(parent, logger, onForce)

	signal.Notify(i.sigChan, os.Interrupt, syscall.SIGTERM)
	go i.loop()

	return ctx, i
}

func newInterrupter(parent context.Context, logger *logging.Logger, onForce func(os.Signal)) (*Interrupter, context.Context) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	ctx, cancel := context.WithCancel(parent)

	i := &Interrupter{
		logger:  logger,
		cancel:  cancel,
		sigChan: make(chan os.Signal, ForceAfter),
		done:    make(chan struct{}),
	}
	i.counter = NewSignalCounter(ForceAfter, func() {
		if onForce != nil {
			onForce(i.Signal())
		}
	})
	return i, ctx
}

func (i *Interrupter) loop() {
	for {
		select {
		case sig := <-i.sigChan:
			i.handle(sig)
		case <-i.done:
			return
		}
	}
}

// handle records sig, cancels the run on the first signal and escalates on later ones.
func (i *Interrupter) handle(sig os.Signal) {
	i.mu.Lock()
	i.sig = sig
	i.mu.Unlock()

	if count := i.counter.Increment(); count == 1 {
		i.logger.Warn("Received shutdown signal, cancelling run (repeat to force)",
			zap.String("signal", sig.String()))
		i.cancel()
	}
}

// Signal returns the last signal received, or nil.
func (i *Interrupter) Signal() os.Signal {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.sig
}

// Stop restores default signal handling and cancels the context.
// Safe to call multiple times.
func (i *Interrupter) Stop() {
	i.once.Do(func() {
		signal.Stop(i.sigChan)
		close(i.done)
		i.cancel()
	})
}
