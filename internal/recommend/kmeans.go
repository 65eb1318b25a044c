// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package recommend

import (
	"fmt"
	"math"
)

// maxKMeansIterations caps the assign/update loop. Convergence on the small,
// low-dimension populations this engine sees is typically immediate; the cap
// exists so pathological oscillation can never hang a request.
const maxKMeansIterations = 50

// UserPoint is the unit the clustering engine operates on: a user identifier
// paired with that user's feature vector.
type UserPoint struct {
	UserID string
	Vector Vector
}

// ClusterAssignment maps a user to a cluster index in [0, k). Cluster indices
// carry no meaning beyond within-request grouping.
type ClusterAssignment struct {
	UserID  string
	Cluster int
}

// KMeans clusters points into at most k groups using Lloyd's algorithm with
// deterministic seeding: initial centroids are the vectors of the first
// min(k, len(points)) points in input order, so identical input (including
// order) always produces identical assignments. No RNG is involved.
//
// It returns an error for k <= 0 and an empty result for empty input. The
// output contains exactly one assignment per input point, in input order.
//
// If a cluster receives no points in an iteration, its centroid is reseeded
// from the point at index (cluster+iteration) mod len(points). This keeps no
// cluster permanently empty and avoids infinite oscillation.
//
// This is a pure function of its inputs; it is CPU-bound, single-threaded,
// and bounded by maxKMeansIterations, so it takes no context.
func KMeans(points []UserPoint, k int) ([]ClusterAssignment, error) {
	if k <= 0 {
		return nil, fmt.Errorf("kmeans: k must be greater than 0, got %d", k)
	}
	if len(points) == 0 {
		return []ClusterAssignment{}, nil
	}

	safeK := k
	if safeK > len(points) {
		safeK = len(points)
	}

	// Deterministic seeding from the first safeK points.
	centroids := make([]Vector, safeK)
	for i := 0; i < safeK; i++ {
		centroids[i] = points[i].Vector.Clone()
	}

	assignments := make(map[string]int, len(points))

	for iter := 0; iter < maxKMeansIterations; iter++ {
		changed := false
		clusters := make([][]Vector, safeK)

		for _, point := range points {
			best := nearestCentroid(point.Vector, centroids)
			if prev, ok := assignments[point.UserID]; !ok || prev != best {
				changed = true
				assignments[point.UserID] = best
			}
			clusters[best] = append(clusters[best], point.Vector)
		}

		for c := 0; c < safeK; c++ {
			if len(clusters[c]) == 0 {
				// Deterministic reseed for a starved cluster.
				fallback := (c + iter) % len(points)
				centroids[c] = points[fallback].Vector.Clone()
				continue
			}
			centroids[c] = meanOfVectors(clusters[c])
		}

		if !changed {
			break
		}
	}

	out := make([]ClusterAssignment, 0, len(points))
	for _, point := range points {
		out = append(out, ClusterAssignment{
			UserID:  point.UserID,
			Cluster: assignments[point.UserID],
		})
	}

	return out, nil
}

// nearestCentroid returns the index of the closest centroid by Euclidean
// distance. Ties go to the first-encountered (smallest) index.
func nearestCentroid(v Vector, centroids []Vector) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := euclideanDistance(v, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// euclideanDistance returns the straight-line distance between two vectors.
func euclideanDistance(a, b Vector) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("recommend: euclidean distance on vectors of length %d and %d", len(a), len(b)))
	}
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// meanOfVectors returns the arithmetic mean of a non-empty list of vectors.
func meanOfVectors(vectors []Vector) Vector {
	if len(vectors) == 0 {
		panic("recommend: mean of empty vector list")
	}
	sums := make(Vector, len(vectors[0]))
	for _, v := range vectors {
		for i := range v {
			sums[i] += v[i]
		}
	}
	n := float64(len(vectors))
	for i := range sums {
		sums[i] /= n
	}
	return sums
}
