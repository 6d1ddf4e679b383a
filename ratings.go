/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// recordRating credits score to the rater's partner. A rater who already
// rated this cycle gets already=true and nothing changes.
func (s *session) recordRating(raterID string, score float64) (already bool, err error) {
	rater, ok := s.participants[raterID]
	if !ok {
		return false, errNoPartner
	}

	if rater.Rated {
		return true, nil
	}

	if rater.Partner.isBye() {
		return false, errPartnerIsHost
	}

	id, ok := rater.Partner.playerID()
	if !ok {
		return false, errNoPartner
	}

	partner, ok := s.participants[id]
	if !ok {
		return false, errNoPartner
	}

	partner.RatingSum += score
	partner.RatingCount++
	rater.Rated = true

	return false, nil
}

// leaderboard orders every participant by mean score received, highest
// first. Equal means keep join order.
func (s *session) leaderboard() []leaderboardEntry {
	entries := make([]leaderboardEntry, 0, len(s.order))

	s.each(func(p *Participant) {
		name := p.Name
		if name == "" {
			name = "Anonymous"
		}

		entries = append(entries, leaderboardEntry{
			ID:              p.ID,
			Name:            name,
			RatingsReceived: p.RatingCount,
			AverageScore:    formatMean(p),
			Mean:            p.mean(),
			Connected:       p.connected(),
		})
	})

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Mean > entries[j].Mean
	})

	return entries
}

// ratingPercentage is the share of participants who have rated, out of
// those currently connected and named. The numerator counts disconnected
// raters too, so the result can exceed 100.
func (s *session) ratingPercentage() int {
	eligible, rated := 0, 0

	s.each(func(p *Participant) {
		if p.eligible() {
			eligible++
		}
		if p.Rated {
			rated++
		}
	})

	if eligible == 0 {
		return 0
	}

	return int(math.Round(float64(rated) * 100 / float64(eligible)))
}

func formatMean(p *Participant) string {
	if p.RatingCount == 0 {
		return decimal.Zero.StringFixed(2)
	}

	return decimal.NewFromFloat(p.RatingSum).
		Div(decimal.NewFromInt(int64(p.RatingCount))).
		StringFixed(2)
}
