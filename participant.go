/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

// partnerKind tags which variant a partnerRef holds.
type partnerKind int

const (
	partnerNone partnerKind = iota
	partnerPlayer
	partnerBye
)

// partnerRef is None, Participant(id), or Bye (partnered with the host).
type partnerRef struct {
	kind partnerKind
	id   string
}

func noPartner() partnerRef { return partnerRef{} }

func byePartner() partnerRef { return partnerRef{kind: partnerBye} }

func playerPartner(id string) partnerRef { return partnerRef{kind: partnerPlayer, id: id} }

func (p partnerRef) isSet() bool { return p.kind != partnerNone }
func (p partnerRef) isBye() bool { return p.kind == partnerBye }

// playerID returns the partner's id and true when the partner is another participant.
func (p partnerRef) playerID() (string, bool) {
	if p.kind != partnerPlayer {
		return "", false
	}
	return p.id, true
}

// wireID is how the partner is identified on the wire. The bye partner
// uses a fixed marker so clients can tell it apart from a real id.
func (p partnerRef) wireID() string {
	switch p.kind {
	case partnerPlayer:
		return p.id
	case partnerBye:
		return byeWireID
	}
	return ""
}

const byeWireID = "HOST"

// Participant is one player device's record. Disconnected participants keep
// every field except their connection.
type Participant struct {
	ID          string
	Name        string
	Partner     partnerRef
	Prompt      string
	Rated       bool
	RatingSum   float64
	RatingCount int

	conn peer
}

func (p *Participant) connected() bool {
	return p.conn != nil
}

func (p *Participant) registered() bool {
	return p.Name != ""
}

// eligible reports whether the participant can be paired.
func (p *Participant) eligible() bool {
	return p.connected() && p.registered()
}

func (p *Participant) mean() float64 {
	if p.RatingCount == 0 {
		return 0
	}
	return p.RatingSum / float64(p.RatingCount)
}

// send delivers msg to the participant if they are connected.
func (p *Participant) send(msg any) {
	if p.conn == nil {
		return
	}
	p.conn.Send(msg)
}

// resetCycle clears everything tied to the previous pairing cycle.
func (p *Participant) resetCycle() {
	p.Partner = noPartner()
	p.Prompt = ""
	p.Rated = false
}
