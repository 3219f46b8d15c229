package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealTimeProvider_MicrosecondUTC(t *testing.T) {
	now := RealTimeProvider{}.Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%int(time.Microsecond))
}

func TestFixedTimeProvider_AddTime(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	tp := NewFixedTimeProvider(start)

	assert.True(t, tp.Now().Equal(start))
	assert.Equal(t, time.UTC, tp.Now().Location())

	tp.AddTime(90 * time.Minute)
	assert.True(t, tp.Now().Equal(start.Add(90*time.Minute)))
}
