// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package recommend

import "fmt"

// Vector is a fixed-length, non-negative feature vector with one axis per
// canonical category. Axis i always corresponds to Category(i).
//
// Every vector in the system has length NumCategories. A length mismatch is
// a programmer error (a bug in vector construction, not a data condition)
// and fails loudly rather than degrading silently.
type Vector []float64

// NewVector returns a zero-initialized vector of length NumCategories.
func NewVector() Vector {
	return make(Vector, NumCategories)
}

// VectorFromCategories builds a vector by incrementing the axis of each
// category present. Duplicates increment multiple times: deduplication is
// NormalizeTags' job, and callers are expected to have deduplicated when
// accumulation is not desired.
func VectorFromCategories(categories []Category) Vector {
	v := NewVector()
	v.Accumulate(categories, 1)
	return v
}

// Accumulate adds weight to the axis of each category in categories, in
// place. Used to boost a base interest vector with saved-event signal.
func (v Vector) Accumulate(categories []Category, weight float64) {
	if len(v) != NumCategories {
		panic(fmt.Sprintf("recommend: vector length %d, want %d", len(v), NumCategories))
	}
	for _, c := range categories {
		v[c] += weight
	}
}

// IsZero reports whether every axis is zero.
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the vector.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}
