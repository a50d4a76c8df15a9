package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://datahub.io/core/sea-level-rise/r/sea-level.csv", "datahub.io"},
		{"http://127.0.0.1:8080/data.csv", "127.0.0.1:8080"},
		{"not a url", "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, HostOf(tt.in))
		})
	}
}

func TestUnlimited_NeverBlocks(t *testing.T) {
	l := Unlimited()
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow("datahub.io"))
	}
	require.NoError(t, l.Wait(context.Background(), "datahub.io"))
}

func TestLimiter_BurstPerHost(t *testing.T) {
	l := New(0.001, 2)

	assert.True(t, l.Allow("a.example"))
	assert.True(t, l.Allow("a.example"))
	assert.False(t, l.Allow("a.example"), "burst exhausted")

	assert.True(t, l.Allow("b.example"), "hosts have independent buckets")
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	l := New(0.001, 1)
	require.True(t, l.Allow("slow.example"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.Error(t, l.Wait(ctx, "slow.example"))
}

func TestLimiter_NilIsNoOp(t *testing.T) {
	var l *Limiter
	assert.True(t, l.Allow("x"))
	assert.NoError(t, l.Wait(context.Background(), "x"))
}
