package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want time.Duration
	}{
		{name: "default timeout", want: DefaultShutdownTimeout},
		{name: "custom timeout", opts: []Option{WithShutdownTimeout(3 * time.Second)}, want: 3 * time.Second},
		{name: "non-positive timeout keeps default", opts: []Option{WithShutdownTimeout(0)}, want: DefaultShutdownTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := New(tt.opts...)
			assert.Equal(t, tt.want, app.shutdownTimeout)
		})
	}
}

func TestApp_Run(t *testing.T) {
	t.Run("run returns nil", func(t *testing.T) {
		app := New()
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("run error is returned and hooks still run", func(t *testing.T) {
		app := New()
		closed := false
		app.AddShutdownHook("db", func(ctx context.Context) error {
			closed = true
			return nil
		})

		want := errors.New("listen failed")
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return want
		})
		assert.ErrorIs(t, err, want)
		assert.True(t, closed)
	})

	t.Run("shutdown hooks run in reverse order on context cancel", func(t *testing.T) {
		app := New()
		var mu sync.Mutex
		var order []string
		for _, name := range []string{"database", "session store", "http server"} {
			app.AddShutdownHook(name, func(ctx context.Context) error {
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
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"http server", "session store", "database"}, order)
	})

	t.Run("hook errors are joined with the hook name", func(t *testing.T) {
		app := New()
		hookErr := errors.New("close failed")
		app.AddShutdownHook("redis", func(ctx context.Context) error {
			return hookErr
		})
		app.AddShutdownHook("http server", func(ctx context.Context) error {
			return nil
		})

		err := app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		require.ErrorIs(t, err, hookErr)
		assert.Contains(t, err.Error(), "redis > close failed")
	})

	t.Run("hooks get a deadline", func(t *testing.T) {
		app := New(WithShutdownTimeout(time.Minute))
		var deadline time.Time
		var hasDeadline bool
		app.AddShutdownHook("http server", func(ctx context.Context) error {
			deadline, hasDeadline = ctx.Deadline()
			return ctx.Err()
		})

		ctx, cancel := context.WithCancel(context.Background())
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			return nil
		})
		require.NoError(t, err)
		require.True(t, hasDeadline)
		assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
	})

	t.Run("hook registered from inside run callback", func(t *testing.T) {
		app := New()
		hookCalled := false

		ctx, cancel := context.WithCancel(context.Background())
		err := app.Run(ctx, func(ctx context.Context) error {
			app.AddShutdownHook("late", func(ctx context.Context) error {
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
