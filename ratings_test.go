/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pairedSession returns a session with a and b partnered and c on a bye.
func pairedSession() *session {
	s := newSession(60)

	for _, id := range []string{"a", "b", "c"} {
		s.bindParticipant(id, &fakePeer{}, func() string { return id })
		s.participants[id].Name = id
	}

	s.participants["a"].Partner = playerPartner("b")
	s.participants["b"].Partner = playerPartner("a")
	s.participants["c"].Partner = byePartner()

	return s
}

func TestRecordRating_OncePerCycle(t *testing.T) {
	s := pairedSession()

	already, err := s.recordRating("a", 6)
	require.NoError(t, err)
	assert.False(t, already)

	already, err = s.recordRating("a", 10)
	require.NoError(t, err)
	assert.True(t, already)

	b := s.participants["b"]
	assert.Equal(t, 1, b.RatingCount)
	assert.Equal(t, 6.0, b.RatingSum)
	assert.True(t, s.participants["a"].Rated)
	assert.Zero(t, s.participants["a"].RatingCount)

	s.participants["a"].resetCycle()
	s.participants["a"].Partner = playerPartner("b")

	_, err = s.recordRating("a", 8)
	require.NoError(t, err)
	assert.Equal(t, 2, b.RatingCount)
	assert.Equal(t, "7.00", formatMean(b))
}

func TestRecordRating_Rejections(t *testing.T) {
	s := pairedSession()

	_, err := s.recordRating("c", 5)
	assert.ErrorIs(t, err, errPartnerIsHost)
	assert.False(t, s.participants["c"].Rated)

	_, err = s.recordRating("missing", 5)
	assert.ErrorIs(t, err, errNoPartner)

	s.remove("b")
	_, err = s.recordRating("a", 5)
	assert.ErrorIs(t, err, errNoPartner)
	assert.False(t, s.participants["a"].Rated)

	s.participants["a"].Partner = playerPartner("gone")
	_, err = s.recordRating("a", 5)
	assert.ErrorIs(t, err, errNoPartner)
}

func TestLeaderboard_SortedByMean(t *testing.T) {
	s := newSession(60)
	for _, id := range []string{"low", "none", "high", "mid", "anon"} {
		s.bindParticipant(id, &fakePeer{}, func() string { return id })
		if id != "anon" {
			s.participants[id].Name = id
		}
	}

	s.participants["low"].RatingSum, s.participants["low"].RatingCount = 2, 2
	s.participants["high"].RatingSum, s.participants["high"].RatingCount = 19, 2
	s.participants["mid"].RatingSum, s.participants["mid"].RatingCount = 5, 1

	board := s.leaderboard()
	require.Len(t, board, 5)

	assert.Equal(t, "high", board[0].ID)
	assert.Equal(t, "9.50", board[0].AverageScore)
	assert.Equal(t, "mid", board[1].ID)
	assert.Equal(t, "low", board[2].ID)
	assert.Equal(t, "1.00", board[2].AverageScore)

	// unrated participants tie at zero below everyone with a positive mean
	tail := []string{board[3].ID, board[4].ID}
	assert.ElementsMatch(t, []string{"none", "anon"}, tail)
	for _, e := range board[3:] {
		assert.Zero(t, e.Mean)
		assert.Equal(t, "0.00", e.AverageScore)
		assert.Zero(t, e.RatingsReceived)
	}

	for _, e := range board {
		if e.ID == "anon" {
			assert.Equal(t, "Anonymous", e.Name)
		}
	}

	for i := 1; i < len(board); i++ {
		assert.GreaterOrEqual(t, board[i-1].Mean, board[i].Mean)
	}
}

func TestRatingPercentage(t *testing.T) {
	s := pairedSession()
	assert.Equal(t, 0, s.ratingPercentage())

	_, err := s.recordRating("a", 5)
	require.NoError(t, err)
	assert.Equal(t, 33, s.ratingPercentage())

	_, err = s.recordRating("b", 5)
	require.NoError(t, err)
	assert.Equal(t, 67, s.ratingPercentage())

	// raters who drop off still count toward the numerator
	s.unbindParticipant(s.participants["a"].conn)
	s.unbindParticipant(s.participants["c"].conn)
	assert.Equal(t, 200, s.ratingPercentage())

	s.unbindParticipant(s.participants["b"].conn)
	assert.Equal(t, 0, s.ratingPercentage())
}
