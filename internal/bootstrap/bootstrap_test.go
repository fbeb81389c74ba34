package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_Run(t *testing.T) {
	t.Run("run returns nil", func(t *testing.T) {
		app := New()
		hookCalled := false
		app.AddShutdownHook(func(ctx context.Context) error {
			hookCalled = true
			return nil
		})
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		assert.NoError(t, err)
		assert.True(t, hookCalled)
	})

	t.Run("run returns error", func(t *testing.T) {
		app := New()
		want := errors.New("run failed")
		closeErr := errors.New("close failed")
		app.AddShutdownHook(func(ctx context.Context) error {
			return closeErr
		})
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return want
		})
		assert.ErrorIs(t, err, want)
		assert.ErrorIs(t, err, closeErr)
	})

	t.Run("canceled without a cancellation of the parent is an error", func(t *testing.T) {
		app := New()
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return context.Canceled
		})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("shutdown hooks run in LIFO order on context cancel", func(t *testing.T) {
		app := New()
		var mu sync.Mutex
		var order []string

		for _, name := range []string{"first", "second", "third"} {
			app.AddShutdownHook(func(ctx context.Context) error {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, name)
				return nil
			})
		}

		ctx, cancel := context.WithCancel(context.Background())
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			<-ctx.Done()
			return ctx.Err()
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"third", "second", "first"}, order)
	})

	t.Run("hook errors are joined", func(t *testing.T) {
		app := New()
		closeErr := errors.New("close failed")
		app.AddShutdownHook(func(ctx context.Context) error {
			return closeErr
		})

		ctx, cancel := context.WithCancel(context.Background())
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			<-ctx.Done()
			return nil
		})
		assert.ErrorIs(t, err, closeErr)
	})

	t.Run("hook registered from inside run callback", func(t *testing.T) {
		app := New()
		hookCalled := false

		ctx, cancel := context.WithCancel(context.Background())
		err := app.Run(ctx, func(ctx context.Context) error {
			app.AddShutdownHook(func(ctx context.Context) error {
				hookCalled = true
				return nil
			})
			cancel()
			<-ctx.Done()
			return nil
		})
		require.NoError(t, err)
		assert.True(t, hookCalled)
	})
}
