package domain

import (
	"fmt"
	"time"
)

// MediaType distinguishes content types
type MediaType int

const (
	MediaTypeMovie MediaType = iota
	MediaTypeSeries
)

// PathSegment returns the transport identifier used in detail URLs ("movie" or "tv")
func (t MediaType) PathSegment() string {
	if t == MediaTypeSeries {
		return "tv"
	}
	return "movie"
}

// String returns the display form of the media type
func (t MediaType) String() string {
	if t == MediaTypeSeries {
		return "series"
	}
	return "movie"
}

// ParseMediaType maps transport type strings onto MediaType.
// Unknown values default to movie.
func ParseMediaType(s string) MediaType {
	switch s {
	case "tv", "series", "show":
		return MediaTypeSeries
	default:
		return MediaTypeMovie
	}
}

// CatalogItem is a title as known to the remote catalog. It is immutable
// once fetched; the tracking engine never mutates catalog attributes.
type CatalogItem struct {
	ID            int       // Stable catalog identifier (negative for manual entries)
	Title         string    // Display title
	Year          int       // Release year (0 if unknown)
	Type          MediaType // Movie or series
	CatalogRating float64   // Source popularity score, read-only
	PosterRef     string    // Poster image reference
	Platforms     []string  // Current streaming availability
	IsEuropean    bool      // Part of the European catalog curation
}

// Description returns secondary info for list display
func (c CatalogItem) Description() string {
	if c.Year > 0 {
		return fmt.Sprintf("%d · %s", c.Year, c.Type)
	}
	return c.Type.String()
}

// Membership is the tracking state a catalog id occupies. An id belongs to
// at most one membership set at a time; the tag index makes that structural.
type Membership int

const (
	MembershipNone Membership = iota
	MembershipWatchlisted
	MembershipWatched
	MembershipRatedOnly
)

// String returns a human-readable representation of the membership tag
func (m Membership) String() string {
	switch m {
	case MembershipWatchlisted:
		return "watchlisted"
	case MembershipWatched:
		return "watched"
	case MembershipRatedOnly:
		return "rated-only"
	default:
		return "none"
	}
}

// MembershipRecord wraps a CatalogItem once it enters a membership set.
type MembershipRecord struct {
	CatalogItem

	// RemoteID is assigned by the remote service at the first successful
	// create and is required for any later update or delete.
	RemoteID string

	AddedAt   time.Time // When the item entered the watchlist
	WatchedAt time.Time // When the item was marked watched/rated

	// UserRating is 1..5 for watched and rated-only records, 0 on the watchlist.
	UserRating int
}

// HasRating reports whether the record carries a user rating
func (r MembershipRecord) HasRating() bool {
	return r.UserRating >= 1 && r.UserRating <= 5
}

// UserPreferences holds subscriptions and the server-computed genre ranking.
// Genres are opaque to the client: never edited locally, only replaced
// wholesale after the server recomputes affinity.
type UserPreferences struct {
	Platforms []string
	Genres    []string
}

// HasPlatform reports whether the user subscribes to the named platform
func (p UserPreferences) HasPlatform(name string) bool {
	for _, pl := range p.Platforms {
		if pl == name {
			return true
		}
	}
	return false
}

// Detail is the expanded metadata for the single open detail tile.
type Detail struct {
	Overview           string
	Cast               []string
	Genres             []string
	StreamingPlatforms []string
	RentBuyPlatforms   []string
	BackdropRef        string
}

// Recommendation is one entry of the server-ranked recommendation list.
type Recommendation struct {
	CatalogItem

	// AvailableOnYourPlatform is assigned server-side against the user's
	// subscriptions at ranking time.
	AvailableOnYourPlatform bool

	// RecommendedBecause carries the server's justification tags, if any.
	RecommendedBecause []string
}

// RecommendationSet is the full response of a recommendation fetch.
type RecommendationSet struct {
	Recommendations []Recommendation
	BasedOn         []string
}
