package game

import (
	"hash/fnv"
	"math/rand"
)

// SeedFromMatchID derives the deterministic per-match seed from the match
// identifier. Repeated runs of the same match ID with the same input stream
// replay identically.
func SeedFromMatchID(matchID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(matchID))
	return int64(h.Sum64())
}

func newMatchRand(matchID string) *rand.Rand {
	return rand.New(rand.NewSource(SeedFromMatchID(matchID)))
}
