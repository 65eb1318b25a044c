// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package recommend

import (
	"fmt"
	"math"
)

// CosineSimilarity returns the cosine similarity between two vectors of the
// same length. It panics on a length mismatch (programmer error, see Vector).
//
// If either vector is entirely zero the result is exactly 0. This is a
// deliberate degenerate-case policy, not a numerical accident: a zero vector
// has no direction to compare, and returning 0 keeps brand-new users from
// spuriously matching everything or nothing while also avoiding division by
// zero. For the elementwise non-negative vectors used in this domain the
// result is always in [0, 1].
func CosineSimilarity(a, b Vector) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("recommend: cosine similarity on vectors of length %d and %d", len(a), len(b)))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
