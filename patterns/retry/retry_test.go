package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fast(attempts int) Config {
	return Config{MaxAttempts: attempts, InitialDelay: time.Millisecond, BackoffFactor: 2, MaxDelay: 5 * time.Millisecond}
}

func TestDo_Success(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	}, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_RetryAndSuccess(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 2 {
			return errors.New("temporary")
		}
		return nil
	}, fast(3))
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestDo_AllAttemptsFail(t *testing.T) {
	attempts := 0
	expected := errors.New("persistent")
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return expected
	}, fast(3))
	assert.ErrorIs(t, err, expected)
	assert.Equal(t, 3, attempts)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	attempts := 0
	expected := errors.New("invalid")
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return Permanent(expected)
	}, fast(5))
	assert.Same(t, expected, err)
	assert.Equal(t, 1, attempts)
	assert.NoError(t, Permanent(nil))
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	attempts := 0
	err := Do(ctx, func(ctx context.Context) error {
		attempts++
		return nil
	}, fast(3))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, attempts)
}

func TestDo_CancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxAttempts: 3, InitialDelay: time.Hour, BackoffFactor: 1}
	err := Do(ctx, func(ctx context.Context) error {
		cancel()
		return errors.New("fail")
	}, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	attempts := 0
	_ = Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("x")
	}, Config{})
	assert.Equal(t, 1, attempts)
}

func TestDoWithInfo_PassesAttempt(t *testing.T) {
	var seen []int
	_ = DoWithInfo(context.Background(), func(ctx context.Context, attempt int) error {
		seen = append(seen, attempt)
		return errors.New("x")
	}, fast(3))
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestConfig_Delay(t *testing.T) {
	cfg := Config{InitialDelay: 10 * time.Millisecond, BackoffFactor: 2, MaxDelay: 30 * time.Millisecond}
	assert.Equal(t, 10*time.Millisecond, cfg.Delay(1))
	assert.Equal(t, 20*time.Millisecond, cfg.Delay(2))
	assert.Equal(t, 30*time.Millisecond, cfg.Delay(3))

	flat := Config{InitialDelay: 5 * time.Millisecond}
	assert.Equal(t, 5*time.Millisecond, flat.Delay(4))
}
