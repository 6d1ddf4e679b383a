/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"math"
	"time"
)

const (
	minRoundSeconds = 10
	maxRoundSeconds = 300

	tickInterval = time.Second
)

type ticker interface {
	C() <-chan time.Time
	Stop()
}

type wallTicker struct {
	t *time.Ticker
}

func (w wallTicker) C() <-chan time.Time {
	return w.t.C
}

func (w wallTicker) Stop() {
	w.t.Stop()
}

func newWallTicker(d time.Duration) ticker {
	return wallTicker{t: time.NewTicker(d)}
}

// timerTick is delivered to the coordinator once per tickInterval while a
// round is running. gen identifies the timer that produced it.
type timerTick struct {
	gen uint64
}

// roundTimer counts down to a wall-clock deadline. Only the coordinator
// goroutine calls its methods; the ticking goroutine only forwards ticks.
//
// Every start and cancel bumps gen, so a tick produced by a superseded
// timer is recognised as stale and ignored even if it was already queued.
type roundTimer struct {
	ticks     chan<- event
	now       func() time.Time
	newTicker func(time.Duration) ticker

	gen      uint64
	deadline time.Time
	stop     chan struct{}
}

func newRoundTimer(ticks chan<- event) *roundTimer {
	return &roundTimer{
		ticks:     ticks,
		now:       time.Now,
		newTicker: newWallTicker,
	}
}

// start replaces any running countdown with one ending d from now.
func (t *roundTimer) start(d time.Duration) {
	t.cancel()

	t.gen++
	t.deadline = t.now().Add(d)
	t.stop = make(chan struct{})

	go t.forward(t.gen, t.newTicker(tickInterval), t.stop)
}

func (t *roundTimer) forward(gen uint64, tk ticker, stop <-chan struct{}) {
	defer tk.Stop()

	for {
		select {
		case <-tk.C():
			select {
			case t.ticks <- timerTick{gen: gen}:
			case <-stop:
				return
			}
		case <-stop:
			return
		}
	}
}

// cancel stops the countdown without firing completion.
func (t *roundTimer) cancel() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}

	t.gen++
	t.deadline = time.Time{}
}

func (t *roundTimer) active() bool {
	return !t.deadline.IsZero()
}

// current reports whether a tick with this gen belongs to the running timer.
func (t *roundTimer) current(gen uint64) bool {
	return t.active() && gen == t.gen
}

// remaining is max(0, ceil(deadline - now)) in whole seconds.
func (t *roundTimer) remaining() int {
	if !t.active() {
		return 0
	}

	left := t.deadline.Sub(t.now())
	if left <= 0 {
		return 0
	}

	return int(math.Ceil(left.Seconds()))
}
