package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameRateLimiter(t *testing.T) {
	rl := NewFrameRateLimiter(2, time.Second)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "limits are per connection")

	now = now.Add(1100 * time.Millisecond)
	assert.True(t, rl.Allow("a"))

	rl.Forget("a")
	_, ok := rl.history["a"]
	assert.False(t, ok)
}

func TestFrameRateLimiter_Disabled(t *testing.T) {
	assert.Nil(t, NewFrameRateLimiter(0, time.Second))
	assert.Nil(t, NewFrameRateLimiter(5, 0))
}
