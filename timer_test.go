/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualTicker fires only when the test pushes to c.
type manualTicker struct {
	c       chan time.Time
	stopped chan struct{}
}

func newManualTicker() *manualTicker {
	return &manualTicker{
		c:       make(chan time.Time),
		stopped: make(chan struct{}),
	}
}

func (m *manualTicker) C() <-chan time.Time { return m.c }
func (m *manualTicker) Stop() { close(m.stopped) }

func newTestTimer(clock *fakeClock, tk ticker) (*roundTimer, chan event) {
	events := make(chan event, 8)

	rt := newRoundTimer(events)
	rt.now = clock.Now
	rt.newTicker = func(time.Duration) ticker { return tk }

	return rt, events
}

func TestRoundTimer_Remaining(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	rt, _ := newTestTimer(clock, idleTicker{})
	t.Cleanup(rt.cancel)

	assert.False(t, rt.active())
	assert.Equal(t, 0, rt.remaining())

	rt.start(30 * time.Second)
	assert.True(t, rt.active())
	assert.Equal(t, 30, rt.remaining())

	clock.advance(100 * time.Millisecond)
	assert.Equal(t, 30, rt.remaining())

	clock.advance(900 * time.Millisecond)
	assert.Equal(t, 29, rt.remaining())

	clock.advance(28*time.Second + time.Nanosecond)
	assert.Equal(t, 1, rt.remaining())

	clock.advance(time.Hour)
	assert.Equal(t, 0, rt.remaining())
}

func TestRoundTimer_ForwardsTicksWithGeneration(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	tk := newManualTicker()
	rt, events := newTestTimer(clock, tk)

	rt.start(10 * time.Second)
	gen := rt.gen

	tk.c <- time.Now()

	select {
	case ev := <-events:
		tick, ok := ev.(timerTick)
		require.True(t, ok)
		assert.Equal(t, gen, tick.gen)
		assert.True(t, rt.current(tick.gen))
	case <-time.After(5 * time.Second):
		t.Fatal("no tick forwarded")
	}

	rt.cancel()

	select {
	case <-tk.stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("ticker not stopped after cancel")
	}

	assert.False(t, rt.current(gen))
	assert.False(t, rt.active())
}

func TestRoundTimer_RestartSupersedesPrevious(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	first := newManualTicker()
	rt, _ := newTestTimer(clock, first)

	rt.start(10 * time.Second)
	oldGen := rt.gen

	second := newManualTicker()
	rt.newTicker = func(time.Duration) ticker { return second }
	rt.start(20 * time.Second)
	t.Cleanup(rt.cancel)

	select {
	case <-first.stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("previous ticker still running")
	}

	assert.False(t, rt.current(oldGen))
	assert.True(t, rt.current(rt.gen))
	assert.Equal(t, 20, rt.remaining())
}
