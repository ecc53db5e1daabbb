package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("no checks", func(t *testing.T) {
		t.Parallel()
		resp := Run(context.Background(), nil)
		require.True(t, resp.Healthy())
		require.NoError(t, resp.Err())
	})

	t.Run("all healthy", func(t *testing.T) {
		t.Parallel()
		resp := Run(context.Background(), Checks{
			"r2":    func(context.Context) error { return nil },
			"cache": func(context.Context) error { return nil },
		})
		require.Equal(t, StatusHealthy, resp.Status)
		require.Len(t, resp.Checks, 2)
		require.Equal(t, StatusHealthy, resp.Checks["r2"].Status)
	})

	t.Run("one failing", func(t *testing.T) {
		t.Parallel()
		resp := Run(context.Background(), Checks{
			"r2":    func(context.Context) error { return errors.New("bucket unreachable") },
			"cache": func(context.Context) error { return nil },
		})
		require.False(t, resp.Healthy())
		require.Equal(t, StatusUnhealthy, resp.Checks["r2"].Status)
		require.Equal(t, "bucket unreachable", resp.Checks["r2"].Error)
		require.Equal(t, StatusHealthy, resp.Checks["cache"].Status)

		err := resp.Err()
		require.ErrorIs(t, err, ErrCheckFailed)
		require.Contains(t, err.Error(), "r2")
		require.NotContains(t, err.Error(), "cache")
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()
		resp := Run(context.Background(), Checks{
			"slow": func(ctx context.Context) error {
				<-ctx.Done()
				return nil
			},
		}, WithTimeout(20*time.Millisecond))

		require.False(t, resp.Healthy())
		require.Equal(t, ErrCheckTimeout.Error(), resp.Checks["slow"].Error)
	})
}

func TestOptions(t *testing.T) {
	t.Parallel()

	cfg := newConfig(WithTimeout(0), WithLogger(nil))
	require.Equal(t, defaultTimeout, cfg.timeout)
	require.NotNil(t, cfg.logger)

	cfg = newConfig(WithTimeout(time.Second))
	require.Equal(t, time.Second, cfg.timeout)
}
