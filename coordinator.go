/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxNameLength    = 50
	playerCookieName = "playerId"
	eventBufferSize  = 64
)

type event any

type hostConnected struct{ conn peer }

type hostDisconnected struct{ conn peer }

type hostMessage struct {
	conn peer
	cmd  hostCommand
}

type playerConnected struct {
	conn  peer
	token string
}

type playerDisconnected struct{ conn peer }

type playerMessage struct {
	conn peer
	cmd  playerCommand
}

// Coordinator owns the session and applies every change to it, one event
// at a time, from the goroutine running Run.
type Coordinator struct {
	cfg     *Config
	session *session
	timer   *roundTimer
	prompts promptSource
	rng     *rand.Rand
	newID   func() string

	events chan event
	done   chan struct{}
}

func newCoordinator(cfg *Config, prompts promptSource, rng *rand.Rand) *Coordinator {
	events := make(chan event, eventBufferSize)

	return &Coordinator{
		cfg:     cfg,
		session: newSession(cfg.roundSeconds),
		timer:   newRoundTimer(events),
		prompts: prompts,
		rng:     rng,
		newID:   uuid.NewString,
		events:  events,
		done:    make(chan struct{}),
	}
}

// Run handles events until ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context) error {
	defer close(c.done)
	defer c.disconnectAll()
	defer c.timer.cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-c.events:
			c.handle(ev)
		}
	}
}

// disconnectAll closes every bound socket. http.Server.Shutdown does not
// close hijacked connections.
func (c *Coordinator) disconnectAll() {
	if c.session.host != nil {
		c.session.host.Close()
	}

	c.session.each(func(p *Participant) {
		if p.conn != nil {
			p.conn.Close()
		}
	})

	logf(c.cfg, "CONN: Closed all connections")
}

// post queues ev for the coordinator. It returns false once Run has exited.
func (c *Coordinator) post(ev event) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.events <- ev:
		return true
	case <-c.done:
		return false
	}
}

func (c *Coordinator) handle(ev event) {
	switch ev := ev.(type) {
	case hostConnected:
		c.connectHost(ev.conn)
	case hostDisconnected:
		if c.session.unbindHost(ev.conn) {
			logf(c.cfg, "CONN: Host disconnected")
		}
	case hostMessage:
		c.handleHost(ev)
	case playerConnected:
		c.connectPlayer(ev.conn, ev.token)
	case playerDisconnected:
		c.disconnectPlayer(ev.conn)
	case playerMessage:
		c.handlePlayer(ev)
	case timerTick:
		c.tick(ev.gen)
	default:
		logf(c.cfg, "ERROR: Unhandled event %T", ev)
	}
}

func (c *Coordinator) connectHost(conn peer) {
	if err := c.session.bindHost(conn); err != nil {
		logf(c.cfg, "CONN: Rejected second host connection")
		conn.Send(newError(err))
		conn.Close()
		return
	}

	logf(c.cfg, "CONN: Host connected")

	conn.Send(connectedMessage{Type: "connected", Role: roleHost})
	c.broadcastHostState()
}

func (c *Coordinator) handleHost(msg hostMessage) {
	if c.session.host == nil || c.session.host != msg.conn {
		return
	}

	switch cmd := msg.cmd.(type) {
	case createPairsCommand:
		c.createPairs()
	case startRoundCommand:
		c.startRound(cmd)
	case kickPlayerCommand:
		c.kick(cmd.playerID)
	case endGameCommand:
		c.endGame()
	default:
		logf(c.cfg, "ERROR: Unhandled host command %T", cmd)
	}
}

func (c *Coordinator) hostError(err error) {
	if c.session.host == nil {
		return
	}
	c.session.host.Send(newError(err))
}

func (c *Coordinator) createPairs() {
	if c.session.phase == phaseEnded {
		c.hostError(errGameEnded)
		return
	}

	pairs, bye, err := computePairs(c.rng, c.session.eligibleIDs())
	if err != nil {
		c.hostError(err)
		return
	}

	// a new cycle supersedes whatever round was running
	c.timer.cancel()

	c.session.each(func(p *Participant) {
		p.resetCycle()
	})

	for _, pr := range pairs {
		a, b := c.session.participants[pr[0]], c.session.participants[pr[1]]
		a.Partner, b.Partner = playerPartner(b.ID), playerPartner(a.ID)

		a.send(pairCreatedMessage{Type: "pairCreated", Partner: b.ID, PartnerName: b.Name})
		b.send(pairCreatedMessage{Type: "pairCreated", Partner: a.ID, PartnerName: a.Name})
	}

	if bye != "" {
		p := c.session.participants[bye]
		p.Partner = byePartner()
		p.send(pairCreatedMessage{Type: "pairCreated", Partner: byeWireID, PartnerName: c.cfg.hostName})
	}

	c.session.phase = phasePaired
	pairingCycles.Inc()

	logf(c.cfg, "GAME: Created %d pair(s), bye: %t", len(pairs), bye != "")

	c.broadcastHostState()
}

func (c *Coordinator) startRound(cmd startRoundCommand) {
	seconds := c.session.roundSeconds
	if cmd.seconds != nil {
		seconds = *cmd.seconds
	}

	if cmd.invalid || seconds < minRoundSeconds || seconds > maxRoundSeconds {
		c.hostError(errRoundLength)
		return
	}

	switch c.session.phase {
	case phaseEnded:
		c.hostError(errGameEnded)
		return
	case phaseDiscussing:
		c.hostError(errRoundActive)
		return
	case phaseRating:
		c.hostError(errRoundOver)
		return
	}

	pairs := c.session.pairs()
	if len(pairs) == 0 {
		c.hostError(errNoPairs)
		return
	}

	c.session.roundSeconds = seconds

	for _, pr := range pairs {
		a, b := c.session.participants[pr[0]], c.session.participants[pr[1]]
		q := c.prompts.Prompt()
		a.Prompt, b.Prompt = q, q

		a.send(pairedMessage{Type: "paired", Partner: b.ID, PartnerName: b.Name, Question: q, CountdownSeconds: seconds})
		b.send(pairedMessage{Type: "paired", Partner: a.ID, PartnerName: a.Name, Question: q, CountdownSeconds: seconds})
	}

	for _, p := range c.session.byes() {
		p.Prompt = c.prompts.Prompt()
		p.send(pairedMessage{Type: "paired", Partner: byeWireID, PartnerName: c.cfg.hostName, Question: p.Prompt, CountdownSeconds: seconds})
	}

	c.timer.start(time.Duration(seconds) * time.Second)
	c.session.phase = phaseDiscussing
	roundsStarted.Inc()

	logf(c.cfg, "GAME: Started %ds round for %d pair(s)", seconds, len(pairs))

	c.broadcastCountdown(seconds)
	c.broadcastHostState()
}

func (c *Coordinator) tick(gen uint64) {
	if !c.timer.current(gen) {
		return
	}

	left := c.timer.remaining()
	c.broadcastCountdown(left)

	if left == 0 {
		c.endRound()
	}
}

// broadcastCountdown goes to the host and to everyone holding a prompt this
// round, including anyone whose partner was kicked after it started.
func (c *Coordinator) broadcastCountdown(left int) {
	msg := countdownMessage{Type: "countdown", TimeLeft: left}

	if c.session.host != nil {
		c.session.host.Send(msg)
	}

	c.session.each(func(p *Participant) {
		if p.Prompt != "" {
			p.send(msg)
		}
	})
}

func (c *Coordinator) endRound() {
	c.timer.cancel()
	c.session.phase = phaseRating

	c.session.each(func(p *Participant) {
		if p.Partner.isSet() {
			p.send(simpleMessage{Type: "ratePartner"})
		}
	})

	logf(c.cfg, "GAME: Round over, collecting ratings")

	c.broadcastHostState()
}

func (c *Coordinator) kick(id string) {
	p := c.session.remove(id)
	if p == nil {
		return
	}

	if p.conn != nil {
		p.conn.Send(simpleMessage{Type: "kicked"})
		p.conn.Close()
	}

	logf(c.cfg, "GAME: Kicked %q (%s)", p.Name, p.ID)

	c.broadcastHostState()
}

func (c *Coordinator) endGame() {
	if c.session.phase != phaseEnded {
		c.timer.cancel()
		c.session.phase = phaseEnded

		msg := gameEndedMessage{Type: "gameEnded", Leaderboard: c.session.leaderboard()}
		c.session.each(func(p *Participant) {
			p.send(msg)
		})

		logf(c.cfg, "GAME: Game ended with %d participant(s)", len(c.session.order))
	}

	c.broadcastHostState()
}

func (c *Coordinator) connectPlayer(conn peer, token string) {
	p, created := c.session.bindParticipant(token, conn, c.newID)

	if created {
		logf(c.cfg, "CONN: New player %s", p.ID)
		conn.Send(setCookieMessage{
			Type:   "setCookie",
			Name:   playerCookieName,
			Value:  p.ID,
			MaxAge: int(c.cfg.cookieMaxAge.Seconds()),
		})
	} else {
		logf(c.cfg, "CONN: Player %s reconnected", p.ID)
	}

	conn.Send(c.snapshot(p))
	c.broadcastHostState()
}

func (c *Coordinator) disconnectPlayer(conn peer) {
	p := c.session.unbindParticipant(conn)
	if p == nil {
		return
	}

	logf(c.cfg, "CONN: Player %s disconnected", p.ID)

	c.broadcastHostState()
}

func (c *Coordinator) handlePlayer(msg playerMessage) {
	p := c.session.participantFor(msg.conn)
	if p == nil {
		return
	}

	switch cmd := msg.cmd.(type) {
	case registerCommand:
		c.register(p, cmd.name)
	case ratePartnerCommand:
		c.rate(p, cmd.rating)
	default:
		logf(c.cfg, "ERROR: Unhandled player command %T", cmd)
	}
}

func (c *Coordinator) register(p *Participant, name string) {
	name = strings.TrimSpace(name)

	switch {
	case name == "":
		p.send(newError(errEmptyName))
		return
	case utf8.RuneCountInString(name) > maxNameLength:
		p.send(newError(errNameTooLong))
		return
	}

	p.Name = name
	p.send(registeredMessage{Type: "registered", Name: name})

	logf(c.cfg, "GAME: Player %s registered as %q", p.ID, name)

	c.broadcastHostState()
}

func (c *Coordinator) rate(p *Participant, score float64) {
	if c.session.phase == phaseEnded {
		p.send(newError(errGameEnded))
		return
	}

	already, err := c.session.recordRating(p.ID, score)
	if err != nil {
		p.send(newError(err))
		return
	}

	p.send(simpleMessage{Type: "ratingConfirmed"})

	if already {
		return
	}

	ratingsRecorded.Inc()

	c.broadcastHostState()
}

// snapshot is everything a (re)connecting device needs to rebuild its view.
func (c *Coordinator) snapshot(p *Participant) gameStateMessage {
	msg := gameStateMessage{
		Type:            "gameState",
		ID:              p.ID,
		Name:            p.Name,
		LeaderboardMode: c.session.leaderboardMode(),
	}

	if c.session.leaderboardMode() {
		msg.Leaderboard = c.session.leaderboard()
		return msg
	}

	// a participant whose partner was kicked mid-round still holds the prompt
	if p.Partner.isSet() || p.Prompt != "" {
		msg.Partner = p.Partner.wireID()
		msg.PartnerName = c.session.partnerName(p, c.cfg.hostName)
		msg.Question = p.Prompt
		msg.CountdownSeconds = c.session.roundSeconds
		msg.Rated = p.Rated
	}

	msg.ActiveRound = c.session.roundActive()
	if msg.ActiveRound && p.Prompt != "" {
		left := c.timer.remaining()
		msg.TimeLeft = &left
	}

	return msg
}

func (c *Coordinator) hostState() hostStateMessage {
	roster := make([]*Participant, 0, len(c.session.order))
	c.session.each(func(p *Participant) {
		roster = append(roster, p)
	})

	slices.SortFunc(roster, compareRoster)

	players := make([]rosterEntry, 0, len(roster))
	for _, p := range roster {
		entry := rosterEntry{
			ID:              p.ID,
			Name:            p.Name,
			Registered:      p.registered(),
			Connected:       p.connected(),
			PartnerID:       p.Partner.wireID(),
			Question:        p.Prompt,
			RatingsReceived: p.RatingCount,
			AverageScore:    formatMean(p),
			Rated:           p.Rated,
		}

		if !entry.Registered {
			entry.Name = "Not registered"
		}

		if p.Partner.isSet() {
			name := c.session.partnerName(p, c.cfg.hostName)
			entry.Partner = &name
		}

		players = append(players, entry)
	}

	msg := hostStateMessage{
		Type:             "hostState",
		Phase:            c.session.phase.String(),
		Players:          players,
		Pairs:            c.session.pairs(),
		ActiveRound:      c.session.roundActive(),
		TimeLeft:         c.timer.remaining(),
		RatingPercentage: c.session.ratingPercentage(),
		LeaderboardMode:  c.session.leaderboardMode(),
	}

	if msg.LeaderboardMode {
		msg.Leaderboard = c.session.leaderboard()
	}

	return msg
}

func (c *Coordinator) broadcastHostState() {
	participantsKnown.Set(float64(len(c.session.order)))

	if c.session.host == nil {
		return
	}

	c.session.host.Send(c.hostState())
}
