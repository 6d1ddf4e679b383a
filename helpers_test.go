/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"math/rand/v2"
	"strconv"
	"sync"
	"testing"
	"time"
)

// fakePeer records everything sent to it.
type fakePeer struct {
	mu     sync.Mutex
	msgs   []any
	closed bool
}

func (f *fakePeer) Send(msg any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	f.msgs = append(f.msgs, msg)
	return true
}

func (f *fakePeer) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
}

func (f *fakePeer) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closed
}

func (f *fakePeer) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.msgs = nil
}

// received returns every message of type T sent to p, oldest first.
func received[T any](p *fakePeer) []T {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []T
	for _, m := range p.msgs {
		if v, ok := m.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func last[T any](t *testing.T, p *fakePeer) T {
	t.Helper()

	msgs := received[T](p)
	if len(msgs) == 0 {
		var zero T
		t.Fatalf("no %T received", zero)
	}
	return msgs[len(msgs)-1]
}

func simpleTypes(p *fakePeer) []string {
	var types []string
	for _, m := range received[simpleMessage](p) {
		types = append(types, m.Type)
	}
	return types
}

func errorTexts(p *fakePeer) []string {
	var texts []string
	for _, m := range received[errorMessage](p) {
		texts = append(texts, m.Message)
	}
	return texts
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// idleTicker never fires; tests deliver ticks by hand.
type idleTicker struct{}

func (idleTicker) C() <-chan time.Time { return nil }
func (idleTicker) Stop() {}

type fixedPrompts struct {
	n int
}

func (f *fixedPrompts) Prompt() string {
	f.n++
	return "prompt " + strconv.Itoa(f.n)
}

func testConfig() *Config {
	return &Config{
		bind:         "127.0.0.1",
		cookieMaxAge: 24 * time.Hour,
		heartbeat:    30 * time.Second,
		hostName:     "Host",
		port:         8080,
		roundSeconds: 60,
	}
}

type harness struct {
	t     *testing.T
	co    *Coordinator
	clock *fakeClock
	host  *fakePeer
	ids   int
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		t:     t,
		clock: &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)},
		host:  &fakePeer{},
	}

	h.co = newCoordinator(testConfig(), &fixedPrompts{}, rand.New(rand.NewPCG(1, 2)))
	h.co.newID = func() string {
		h.ids++
		return "p" + strconv.Itoa(h.ids)
	}
	h.co.timer.now = h.clock.Now
	h.co.timer.newTicker = func(time.Duration) ticker { return idleTicker{} }

	t.Cleanup(h.co.timer.cancel)

	h.co.handle(hostConnected{conn: h.host})

	return h
}

func (h *harness) hostSends(cmd hostCommand) {
	h.co.handle(hostMessage{conn: h.host, cmd: cmd})
}

func (h *harness) connect(token string) (*fakePeer, string) {
	h.t.Helper()

	conn := &fakePeer{}
	h.co.handle(playerConnected{conn: conn, token: token})

	p := h.co.session.participantFor(conn)
	if p == nil {
		h.t.Fatalf("connection was not bound to a participant")
	}
	return conn, p.ID
}

// join connects a new device and registers it under name.
func (h *harness) join(name string) (*fakePeer, string) {
	h.t.Helper()

	conn, id := h.connect("")
	h.co.handle(playerMessage{conn: conn, cmd: registerCommand{name: name}})
	return conn, id
}

func (h *harness) rate(conn *fakePeer, score float64) {
	h.co.handle(playerMessage{conn: conn, cmd: ratePartnerCommand{rating: score}})
}

func (h *harness) startRound(seconds int) {
	h.hostSends(startRoundCommand{seconds: &seconds})
}

// tick advances the clock by d and delivers one tick from the running timer.
func (h *harness) tick(d time.Duration) {
	h.clock.advance(d)
	h.co.handle(timerTick{gen: h.co.timer.gen})
}

func (h *harness) participant(id string) *Participant {
	h.t.Helper()

	p, ok := h.co.session.participants[id]
	if !ok {
		h.t.Fatalf("participant %s not found", id)
	}
	return p
}

func (h *harness) state() hostStateMessage {
	h.t.Helper()

	return last[hostStateMessage](h.t, h.host)
}
