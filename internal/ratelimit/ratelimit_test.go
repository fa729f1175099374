package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_AllowWithinWindow(t *testing.T) {
	l := New(3, 10*time.Second)

	assert.True(t, l.Allow("registry"))
	assert.True(t, l.Allow("registry"))
	assert.True(t, l.Allow("registry"))
	assert.False(t, l.Allow("registry"))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := New(1, 10*time.Second)

	assert.True(t, l.Allow("registry"))
	assert.False(t, l.Allow("registry"))
	assert.True(t, l.Allow("websearch"))
}

func TestLimiter_WindowResets(t *testing.T) {
	now := time.Now()
	l := New(2, 10*time.Second)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("registry"))
	assert.True(t, l.Allow("registry"))
	assert.False(t, l.Allow("registry"))

	// Advance past the window boundary: allowance is restored.
	now = now.Add(10 * time.Second)
	assert.True(t, l.Allow("registry"))
	assert.True(t, l.Allow("registry"))
	assert.False(t, l.Allow("registry"))
}

func TestLimiter_Status(t *testing.T) {
	now := time.Now()
	l := New(5, 10*time.Second)
	l.now = func() time.Time { return now }

	remaining, _ := l.Status("registry")
	assert.Equal(t, 5, remaining)

	l.Allow("registry")
	l.Allow("registry")
	remaining, reset := l.Status("registry")
	assert.Equal(t, 3, remaining)
	assert.Equal(t, now.Add(10*time.Second), reset)

	now = now.Add(11 * time.Second)
	remaining, _ = l.Status("registry")
	assert.Equal(t, 5, remaining)
}
