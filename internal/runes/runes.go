// Package runes hands out decorative rune glyphs to testimonial cards.
package runes

import "math/rand/v2"

// Glyphs is the default pool.
var Glyphs = []string{"ᛯ", "ᚨ", "ᛗ", "ᛟ", "ᛦ", "ᚳ", "ᛉ", "ᚼ"}

// Allocate returns n glyphs drawn from pool. Glyphs are unique when n does
// not exceed the pool; otherwise the pool is repeated and reshuffled. A nil
// rng uses the global source.
func Allocate(n int, pool []string, rng *rand.Rand) []string {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	shuffled := append([]string(nil), pool...)
	shuffle(shuffled, rng)
	if n <= len(shuffled) {
		return shuffled[:n]
	}

	copies := (n + len(pool) - 1) / len(pool)
	expanded := make([]string, 0, copies*len(pool))
	for i := 0; i < copies; i++ {
		expanded = append(expanded, shuffled...)
	}
	shuffle(expanded, rng)
	return expanded[:n]
}

func shuffle(s []string, rng *rand.Rand) {
	swap := func(i, j int) { s[i], s[j] = s[j], s[i] }
	if rng == nil {
		rand.Shuffle(len(s), swap)
		return
	}
	rng.Shuffle(len(s), swap)
}
