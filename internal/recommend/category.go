// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package recommend

import "strings"

// Category is one member of the fixed, closed vocabulary of interest
// categories. The ordinal value of a Category is its axis in every feature
// vector, so the declaration order below is significant and must not change
// at runtime.
type Category int

const (
	// CategoryAcademic covers lectures, workshops, hackathons, and study groups.
	CategoryAcademic Category = iota
	// CategorySocial covers mixers, parties, and general community events.
	CategorySocial
	// CategorySports covers games, tournaments, and athletic competitions.
	CategorySports
	// CategoryCareer covers job fairs, internship panels, and networking with employers.
	CategoryCareer
	// CategoryCultural covers art, music, dance, and heritage events.
	CategoryCultural
	// CategoryWellness covers fitness, health, and mindfulness events.
	CategoryWellness

	// NumCategories is the number of canonical categories and therefore the
	// length of every feature vector.
	NumCategories = 6
)

// DefaultCategory is where unknown raw tags land. Tags are never dropped:
// an event tagged only with unrecognized labels still participates in
// content scoring as a social event.
const DefaultCategory = CategorySocial

// String returns the canonical lowercase name for the category.
func (c Category) String() string {
	switch c {
	case CategoryAcademic:
		return "academic"
	case CategorySocial:
		return "social"
	case CategorySports:
		return "sports"
	case CategoryCareer:
		return "career"
	case CategoryCultural:
		return "cultural"
	case CategoryWellness:
		return "wellness"
	default:
		return "unknown"
	}
}

// tagAliases maps lowercase raw tags to canonical categories. This is the
// single source of truth for normalization and for the reverse mapping used
// by the cold-start fallback query.
var tagAliases = map[string]Category{
	// Canonical names map to themselves
	"academic": CategoryAcademic,
	"social":   CategorySocial,
	"sports":   CategorySports,
	"career":   CategoryCareer,
	"cultural": CategoryCultural,
	"wellness": CategoryWellness,
	// Aliases
	"coding":       CategoryAcademic,
	"technology":   CategoryAcademic,
	"hackathon":    CategoryAcademic,
	"workshop":     CategoryAcademic,
	"networking":   CategorySocial,
	"party":        CategorySocial,
	"fitness":      CategoryWellness,
	"health":       CategoryWellness,
	"art":          CategoryCultural,
	"music":        CategoryCultural,
	"dance":        CategoryCultural,
	"professional": CategoryCareer,
	"internship":   CategoryCareer,
	"job":          CategoryCareer,
	"game":         CategorySports,
	"competition":  CategorySports,
}

// NormalizeTags maps free-text tags to a deduplicated set of canonical
// categories. Matching is case-insensitive and whitespace-tolerant; unknown
// tags resolve to DefaultCategory rather than being dropped. A nil or empty
// input yields an empty result. Output order is unspecified beyond being
// stable for identical inputs; callers must treat the result as a set.
func NormalizeTags(tags []string) []Category {
	if len(tags) == 0 {
		return []Category{}
	}

	seen := make(map[Category]struct{}, NumCategories)
	out := make([]Category, 0, NumCategories)

	for _, tag := range tags {
		cat, ok := tagAliases[strings.ToLower(strings.TrimSpace(tag))]
		if !ok {
			cat = DefaultCategory
		}
		if _, dup := seen[cat]; dup {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}

	return out
}

// RawTagsFor reverse-maps categories through the alias table, returning every
// raw tag (canonical names included) that normalizes to one of the given
// categories. The fallback candidate query matches on these raw tags because
// events store raw tags, not canonical categories.
func RawTagsFor(categories []Category) []string {
	if len(categories) == 0 {
		return []string{}
	}

	want := make(map[Category]struct{}, len(categories))
	for _, c := range categories {
		want[c] = struct{}{}
	}

	out := make([]string, 0, len(tagAliases))
	for tag, cat := range tagAliases {
		if _, ok := want[cat]; ok {
			out = append(out, tag)
		}
	}

	return out
}
