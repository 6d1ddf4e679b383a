/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"strings"
)

type phase int

const (
	phaseLobby phase = iota
	phasePaired
	phaseDiscussing
	phaseRating
	phaseEnded
)

func (p phase) String() string {
	switch p {
	case phaseLobby:
		return "lobby"
	case phasePaired:
		return "paired"
	case phaseDiscussing:
		return "discussing"
	case phaseRating:
		return "rating"
	case phaseEnded:
		return "ended"
	}
	return "unknown"
}

// session is the single game this process runs. Only the coordinator
// goroutine touches it.
type session struct {
	participants map[string]*Participant
	order        []string        // participant ids in join order
	byConn       map[peer]string // every bound player connection, stale ones included
	host         peer

	phase        phase
	roundSeconds int
}

func newSession(roundSeconds int) *session {
	return &session{
		participants: make(map[string]*Participant),
		byConn:       make(map[peer]string),
		roundSeconds: roundSeconds,
	}
}

func (s *session) roundActive() bool {
	return s.phase == phaseDiscussing
}

func (s *session) leaderboardMode() bool {
	return s.phase == phaseEnded
}

// each visits participants in join order.
func (s *session) each(fn func(p *Participant)) {
	for _, id := range s.order {
		fn(s.participants[id])
	}
}

func (s *session) eligibleIDs() []string {
	ids := make([]string, 0, len(s.order))
	s.each(func(p *Participant) {
		if p.eligible() {
			ids = append(ids, p.ID)
		}
	})
	return ids
}

// pairs rebuilds the current pairs from each participant's partner.
func (s *session) pairs() []pair {
	seen := make(map[string]bool)
	pairs := []pair{}

	s.each(func(p *Participant) {
		id, ok := p.Partner.playerID()
		if !ok || seen[p.ID] {
			return
		}
		seen[p.ID], seen[id] = true, true
		pairs = append(pairs, pair{p.ID, id})
	})

	return pairs
}

// byes lists participants partnered with the host.
func (s *session) byes() []*Participant {
	var byes []*Participant
	s.each(func(p *Participant) {
		if p.Partner.isBye() {
			byes = append(byes, p)
		}
	})
	return byes
}

func (s *session) bindHost(conn peer) error {
	if s.host != nil {
		return errHostBound
	}
	s.host = conn
	return nil
}

// unbindHost frees the host slot if conn is the bound host.
func (s *session) unbindHost(conn peer) bool {
	if s.host == nil || s.host != conn {
		return false
	}
	s.host = nil
	return true
}

// bindParticipant reattaches conn to the participant holding token, or
// creates a new participant when token is empty or unknown.
func (s *session) bindParticipant(token string, conn peer, newID func() string) (*Participant, bool) {
	created := false

	p, ok := s.participants[token]
	if token == "" || !ok {
		p = &Participant{ID: newID()}
		s.participants[p.ID] = p
		s.order = append(s.order, p.ID)
		created = true
	}

	p.conn = conn
	s.byConn[conn] = p.ID

	return p, created
}

// participantFor returns the participant conn is authoritative for.
func (s *session) participantFor(conn peer) *Participant {
	id, ok := s.byConn[conn]
	if !ok {
		return nil
	}

	p, ok := s.participants[id]
	if !ok || p.conn != conn {
		return nil
	}

	return p
}

// unbindParticipant marks the participant disconnected, unless conn has
// since been replaced by a newer connection for the same id.
func (s *session) unbindParticipant(conn peer) *Participant {
	p := s.participantFor(conn)
	delete(s.byConn, conn)

	if p == nil {
		return nil
	}

	p.conn = nil
	return p
}

// remove erases a participant and unlinks anyone partnered with them.
func (s *session) remove(id string) *Participant {
	p, ok := s.participants[id]
	if !ok {
		return nil
	}

	delete(s.participants, id)

	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	for conn, cid := range s.byConn {
		if cid == id {
			delete(s.byConn, conn)
		}
	}

	s.each(func(other *Participant) {
		if pid, ok := other.Partner.playerID(); ok && pid == id {
			other.Partner = noPartner()
		}
	})

	return p
}

// partnerName is the name the participant's partner is shown as.
func (s *session) partnerName(p *Participant, hostName string) string {
	if p.Partner.isBye() {
		return hostName
	}

	id, ok := p.Partner.playerID()
	if !ok {
		return ""
	}

	partner, ok := s.participants[id]
	if !ok || partner.Name == "" {
		return "Unknown"
	}

	return partner.Name
}

// compareRoster puts connected participants first, then sorts by name.
func compareRoster(a, b *Participant) int {
	if a.connected() != b.connected() {
		if a.connected() {
			return -1
		}
		return 1
	}

	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}

	return strings.Compare(a.ID, b.ID)
}
