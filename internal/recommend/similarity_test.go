// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package recommend

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    Vector
		b    Vector
		want float64
	}{
		{
			name: "identical non-zero vectors score 1",
			a:    Vector{1, 2, 0, 0, 1, 0},
			b:    Vector{1, 2, 0, 0, 1, 0},
			want: 1,
		},
		{
			name: "parallel vectors score 1 regardless of magnitude",
			a:    Vector{1, 1, 0, 0, 0, 0},
			b:    Vector{3, 3, 0, 0, 0, 0},
			want: 1,
		},
		{
			name: "orthogonal vectors score 0",
			a:    Vector{1, 0, 0, 0, 0, 0},
			b:    Vector{0, 1, 0, 0, 0, 0},
			want: 0,
		},
		{
			name: "zero left vector scores exactly 0",
			a:    Vector{0, 0, 0, 0, 0, 0},
			b:    Vector{1, 2, 3, 0, 0, 0},
			want: 0,
		},
		{
			name: "zero right vector scores exactly 0",
			a:    Vector{1, 2, 3, 0, 0, 0},
			b:    Vector{0, 0, 0, 0, 0, 0},
			want: 0,
		},
		{
			name: "both zero scores exactly 0",
			a:    Vector{0, 0, 0, 0, 0, 0},
			b:    Vector{0, 0, 0, 0, 0, 0},
			want: 0,
		},
		{
			name: "partial overlap lands strictly between 0 and 1",
			a:    Vector{1, 1, 0, 0, 0, 0},
			b:    Vector{1, 0, 0, 0, 0, 0},
			want: 1 / math.Sqrt2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCosineSimilaritySelfIsOne(t *testing.T) {
	// cos(v, v) = 1 for any non-zero v.
	vectors := []Vector{
		VectorFromCategories([]Category{CategoryAcademic}),
		VectorFromCategories([]Category{CategorySocial, CategoryCultural}),
		{0.5, 0, 2.5, 0, 7, 1},
	}
	for _, v := range vectors {
		if got := CosineSimilarity(v, v); math.Abs(got-1) > 1e-9 {
			t.Errorf("CosineSimilarity(v, v) = %f for %v, want 1", got, v)
		}
	}
}

func TestCosineSimilarityRange(t *testing.T) {
	// Non-negative vectors can never produce a similarity outside [0, 1].
	a := Vector{2, 0, 1, 0, 0, 3}
	b := Vector{0, 1, 4, 0, 2, 1}
	got := CosineSimilarity(a, b)
	if got < 0 || got > 1 {
		t.Errorf("CosineSimilarity() = %f, want within [0, 1]", got)
	}
}

func TestCosineSimilarityPanicsOnLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("length mismatch did not panic")
		}
	}()
	CosineSimilarity(Vector{1, 2}, Vector{1, 2, 3})
}
