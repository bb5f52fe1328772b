package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLatencyDelays(t *testing.T) {
	l := NewLatency(1)
	assert.Equal(t, time.Second, l.Delay(OpAddNeed))
	assert.Equal(t, 500*time.Millisecond, l.Delay(OpSearch))
	assert.Equal(t, 300*time.Millisecond, l.Delay(OpSendMessage))

	half := NewLatency(0.5)
	assert.Equal(t, 150*time.Millisecond, half.Delay(OpMarkRead))

	assert.Zero(t, NoLatency().Delay(OpAddNeed))
	var nilLatency *Latency
	assert.Zero(t, nilLatency.Delay(OpAddNeed))
}

func TestLatencyWaitSleepsScaledDelay(t *testing.T) {
	var slept []time.Duration
	l := NewLatency(2)
	l.sleep = func(d time.Duration) { slept = append(slept, d) }

	l.Wait(OpToggleSave)
	NoLatency().Wait(OpToggleSave)

	assert.Equal(t, []time.Duration{600 * time.Millisecond}, slept)
}
