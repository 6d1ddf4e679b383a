/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"math/rand/v2"
)

// pair is two participant ids assigned to each other for one pairing cycle.
type pair [2]string

// computePairs shuffles ids uniformly and splits them into consecutive pairs.
// With an odd count the last id is returned as the bye. ids is not modified.
func computePairs(rng *rand.Rand, ids []string) ([]pair, string, error) {
	if len(ids) < 2 {
		return nil, "", errTooFewPlayers
	}

	shuffled := make([]string, len(ids))
	copy(shuffled, ids)

	// Fisher-Yates
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	pairs := make([]pair, 0, len(shuffled)/2)
	for i := 0; i+1 < len(shuffled); i += 2 {
		pairs = append(pairs, pair{shuffled[i], shuffled[i+1]})
	}

	bye := ""
	if len(shuffled)%2 != 0 {
		bye = shuffled[len(shuffled)-1]
	}

	return pairs, bye, nil
}
