// Package rng derives reproducible random sources from string keys. Every
// random choice the engine makes goes through here so a draft replayed from
// the same state draws the same numbers.
package rng

import (
	"hash/fnv"
	"math/rand/v2"
)

// Key hashes a string key to a 64-bit seed
func Key(key string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return h.Sum64()
}

// For returns a source seeded from a key and a sequence number, e.g.
// (draftId, pickNumber)
func For(key string, n uint64) *rand.Rand {
	return rand.New(rand.NewPCG(Key(key), n))
}
