package app

import (
	"context"
	"log"
	"os"
	"sync"
	"syscall"
)

// WithSignals returns a context that is cancelled when a signal arrives on
// sig or cancel is called. reason reports the signal name once the context is
// done ("" if it was cancelled some other way).
func WithSignals(parent context.Context, sig <-chan os.Signal) (ctx context.Context, reason func() string, cancel context.CancelFunc) {
	ctx, cancel = context.WithCancel(parent)

	var mu sync.Mutex
	var name string

	go func() {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			mu.Lock()
			name = SignalName(s)
			mu.Unlock()
			cancel()
		case <-ctx.Done():
		}
	}()

	reason = func() string {
		mu.Lock()
		defer mu.Unlock()
		return name
	}
	return ctx, reason, cancel
}

// SignalName returns the conventional name of s, e.g. "SIGINT".
func SignalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
