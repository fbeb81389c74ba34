// Package bootstrap provides application lifecycle helpers.
package bootstrap

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

// App manages application lifecycle with graceful shutdown support.
type App struct {
	mu    sync.Mutex
	hooks []func(ctx context.Context) error
}

// New creates a new App.
func New() *App {
	return &App{}
}

// AddShutdownHook registers a function to call during graceful shutdown.
// Hooks run in reverse order (LIFO). Thread-safe.
func (a *App) AddShutdownHook(fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// Run executes run with a context canceled on SIGINT or SIGTERM.
// Once run returns, the shutdown hooks are called in LIFO order whether or not
// a signal arrived. context.Canceled caused by the signal is not an error.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
		close(errCh)
	}()

	err := <-errCh
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		err = nil
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	return errors.Join(err, a.shutdown(shutdownCtx))
}

func (a *App) shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var errs []error
	for i := len(a.hooks) - 1; i >= 0; i-- {
		if err := a.hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
