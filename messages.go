/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	minRating = 0
	maxRating = 10
)

var errUnknownMessage = errors.New("unknown message type")

// Messages from the host console
type hostCommand interface {
	hostCommand()
}

type createPairsCommand struct{}

// startRoundCommand carries the requested length; nil means use the default.
// invalid marks a length that was sent but is not a whole number.
type startRoundCommand struct {
	seconds *int
	invalid bool
}

type kickPlayerCommand struct {
	playerID string
}

type endGameCommand struct{}

func (createPairsCommand) hostCommand() {}
func (startRoundCommand) hostCommand() {}
func (kickPlayerCommand) hostCommand() {}
func (endGameCommand) hostCommand() {}

// Messages from player devices
type playerCommand interface {
	playerCommand()
}

type registerCommand struct {
	name string
}

type ratePartnerCommand struct {
	rating float64
}

func (registerCommand) playerCommand() {}
func (ratePartnerCommand) playerCommand() {}

type inboundEnvelope struct {
	Type             string          `json:"type"`
	CountdownSeconds json.RawMessage `json:"countdownSeconds,omitempty"`
	PlayerID         string          `json:"playerId,omitempty"`
	Name             string          `json:"name,omitempty"`
	Rating           json.RawMessage `json:"rating,omitempty"`
}

func decodeEnvelope(data []byte) (inboundEnvelope, error) {
	var env inboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("malformed message: %w", err)
	}
	return env, nil
}

func decodeHostCommand(data []byte) (hostCommand, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, err
	}

	switch env.Type {
	case "createPairs":
		return createPairsCommand{}, nil
	case "startRound":
		return parseRoundSeconds(env.CountdownSeconds), nil
	case "kickPlayer":
		return kickPlayerCommand{playerID: env.PlayerID}, nil
	case "endGame":
		return endGameCommand{}, nil
	default:
		return nil, fmt.Errorf("%w from host: %q", errUnknownMessage, env.Type)
	}
}

func decodePlayerCommand(data []byte) (playerCommand, error) {
	env, err := decodeEnvelope(data)
	if err != nil {
		return nil, err
	}

	switch env.Type {
	case "register":
		return registerCommand{name: env.Name}, nil
	case "ratePartner":
		return ratePartnerCommand{rating: parseRating(env.Rating)}, nil
	default:
		return nil, fmt.Errorf("%w from player: %q", errUnknownMessage, env.Type)
	}
}

// parseRoundSeconds accepts a whole JSON number or a numeric string. Anything
// else that was sent is flagged invalid so the host hears about it.
func parseRoundSeconds(raw json.RawMessage) startRoundCommand {
	if len(raw) == 0 || string(raw) == "null" {
		return startRoundCommand{}
	}

	f, ok := parseNumber(raw)
	if !ok || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return startRoundCommand{invalid: true}
	}

	n := int(f)
	return startRoundCommand{seconds: &n}
}

// parseNumber reads a JSON number, or a string holding one.
func parseNumber(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

// parseRating accepts a JSON number or a numeric string. Anything else
// counts as 0; numbers outside the scale are clamped onto it.
func parseRating(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	f, ok := parseNumber(raw)
	if !ok {
		return 0
	}

	return math.Max(minRating, math.Min(maxRating, f))
}

// Messages sent to the host console
type connectedMessage struct {
	Type string `json:"type"` // "connected"
	Role string `json:"role"`
}

type errorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

type rosterEntry struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Registered      bool    `json:"registered"`
	Connected       bool    `json:"connected"`
	Partner         *string `json:"partner"`
	PartnerID       string  `json:"partnerId,omitempty"`
	Question        string  `json:"question,omitempty"`
	RatingsReceived int     `json:"ratingsReceived"`
	AverageScore    string  `json:"averageScore"`
	Rated           bool    `json:"rated"`
}

type leaderboardEntry struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	RatingsReceived int     `json:"ratingsReceived"`
	AverageScore    string  `json:"averageScore"`
	Mean            float64 `json:"mean"`
	Connected       bool    `json:"connected"`
}

type hostStateMessage struct {
	Type             string             `json:"type"` // "hostState"
	Phase            string             `json:"phase"`
	Players          []rosterEntry      `json:"players"`
	Pairs            []pair             `json:"pairs"`
	ActiveRound      bool               `json:"activeRound"`
	TimeLeft         int                `json:"timeLeft"`
	RatingPercentage int                `json:"ratingPercentage"`
	LeaderboardMode  bool               `json:"leaderboardMode"`
	Leaderboard      []leaderboardEntry `json:"leaderboard"`
}

// Messages sent to player devices
type setCookieMessage struct {
	Type   string `json:"type"` // "setCookie"
	Name   string `json:"name"`
	Value  string `json:"value"`
	MaxAge int    `json:"maxAge"`
}

type gameStateMessage struct {
	Type             string             `json:"type"` // "gameState"
	ID               string             `json:"id"`
	Name             string             `json:"name,omitempty"`
	LeaderboardMode  bool               `json:"leaderboardMode"`
	Leaderboard      []leaderboardEntry `json:"leaderboard,omitempty"`
	Partner          string             `json:"partner,omitempty"`
	PartnerName      string             `json:"partnerName,omitempty"`
	Question         string             `json:"question,omitempty"`
	CountdownSeconds int                `json:"countdownSeconds,omitempty"`
	ActiveRound      bool               `json:"activeRound"`
	Rated            bool               `json:"rated"`
	TimeLeft         *int               `json:"timeLeft,omitempty"`
}

type registeredMessage struct {
	Type string `json:"type"` // "registered"
	Name string `json:"name"`
}

type pairCreatedMessage struct {
	Type        string `json:"type"` // "pairCreated"
	Partner     string `json:"partner"`
	PartnerName string `json:"partnerName"`
}

type pairedMessage struct {
	Type             string `json:"type"` // "paired"
	Partner          string `json:"partner"`
	PartnerName      string `json:"partnerName"`
	Question         string `json:"question"`
	CountdownSeconds int    `json:"countdownSeconds"`
}

type countdownMessage struct {
	Type     string `json:"type"` // "countdown"
	TimeLeft int    `json:"timeLeft"`
}

// simpleMessage is for notifications without a body ("ratePartner",
// "ratingConfirmed", "kicked").
type simpleMessage struct {
	Type string `json:"type"`
}

type gameEndedMessage struct {
	Type        string             `json:"type"` // "gameEnded"
	Leaderboard []leaderboardEntry `json:"leaderboard"`
}

func newError(err error) errorMessage {
	return errorMessage{Type: "error", Message: err.Error()}
}
