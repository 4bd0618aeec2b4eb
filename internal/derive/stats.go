// Package derive computes presentation-ready aggregates from the membership
// sets and user preferences. Everything here is a pure function of its
// inputs, recomputed on every request; the sets are personal-collection
// sized, so there is no incremental maintenance.
package derive

import (
	"fmt"
	"sort"

	"github.com/mvdveen/streamfinder/internal/domain"
)

// PlatformCount is one bar of the platform distribution
type PlatformCount struct {
	Platform string
	Count    int
}

// PlatformDistribution counts watched titles per streaming platform.
// Platforms with no watched titles are dropped; the result is sorted by
// count descending, ties broken by name for a deterministic display.
func PlatformDistribution(watched []domain.MembershipRecord) []PlatformCount {
	counts := make(map[string]int)
	for _, r := range watched {
		for _, p := range r.Platforms {
			counts[p]++
		}
	}

	out := make([]PlatformCount, 0, len(counts))
	for p, n := range counts {
		out = append(out, PlatformCount{Platform: p, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Platform < out[j].Platform
	})
	return out
}

// GenreScore is one bar of the genre affinity display
type GenreScore struct {
	Genre string
	Score float64
}

// GenreAffinity turns the server-ranked genre list into display weights for
// the first six entries: max(10 - index*1.5, 1). The score is a display
// heuristic; order carries the meaning, not magnitude.
func GenreAffinity(genres []string) []GenreScore {
	if len(genres) > 6 {
		genres = genres[:6]
	}

	out := make([]GenreScore, 0, len(genres))
	for i, g := range genres {
		score := 10 - float64(i)*1.5
		if score < 1 {
			score = 1
		}
		out = append(out, GenreScore{Genre: g, Score: score})
	}
	return out
}

// Favorites returns the records rated five stars. Callers pass the watched
// set, or watched plus rated-only when favorites should span both.
func Favorites(records []domain.MembershipRecord) []domain.MembershipRecord {
	var out []domain.MembershipRecord
	for _, r := range records {
		if r.UserRating == 5 {
			out = append(out, r)
		}
	}
	return out
}

// DecadeBucket is one bar of the decade histogram
type DecadeBucket struct {
	Label string // e.g. "2010s"
	Count int
}

// DecadeHistogram buckets watched titles by release decade, newest decade
// first. Titles without a year are excluded from the histogram without
// affecting the other statistics.
func DecadeHistogram(watched []domain.MembershipRecord) []DecadeBucket {
	counts := make(map[string]int)
	for _, r := range watched {
		if r.Year <= 0 {
			continue
		}
		decade := (r.Year / 10) * 10
		counts[fmt.Sprintf("%ds", decade)]++
	}

	out := make([]DecadeBucket, 0, len(counts))
	for label, n := range counts {
		out = append(out, DecadeBucket{Label: label, Count: n})
	}
	// Labels are all 4-digit-plus-"s", so lexicographic descending is
	// chronological descending.
	sort.Slice(out, func(i, j int) bool {
		return out[i].Label > out[j].Label
	})
	return out
}

// Summary is the stats bar over the collection
type Summary struct {
	Watched       int
	StillToSee    int
	AverageRating float64
}

// Summarize computes the stats-bar numbers: watched count, watchlist backlog
// and the mean user rating over watched titles (0 when nothing is watched).
func Summarize(watched, watchlist []domain.MembershipRecord) Summary {
	s := Summary{Watched: len(watched), StillToSee: len(watchlist)}
	if len(watched) == 0 {
		return s
	}

	total := 0
	for _, r := range watched {
		total += r.UserRating
	}
	s.AverageRating = float64(total) / float64(len(watched))
	return s
}
