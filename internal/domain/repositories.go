package domain

import (
	"context"
	"time"
)

// CatalogClient provides discovery and search against the remote catalog
type CatalogClient interface {
	// DiscoverEuropean returns the curated European discovery list
	DiscoverEuropean(ctx context.Context) ([]CatalogItem, error)

	// DiscoverForUser returns the platform-scoped discovery list
	DiscoverForUser(ctx context.Context) ([]CatalogItem, error)

	// Search performs a free-text catalog search
	Search(ctx context.Context, query string) ([]CatalogItem, error)

	// GetDetail returns expanded metadata for one title
	GetDetail(ctx context.Context, mediaType MediaType, id int) (*Detail, error)
}

// TrackingClient provides remote reads and writes for the membership lists
type TrackingClient interface {
	// ListWatchlist returns the stored watchlist records
	ListWatchlist(ctx context.Context) ([]MembershipRecord, error)

	// ListWatched returns the stored watched records
	ListWatched(ctx context.Context) ([]MembershipRecord, error)

	// ListRated returns the stored rated-only records
	ListRated(ctx context.Context) ([]MembershipRecord, error)

	// CreateWatchlist stores a new watchlist record and returns its remote id
	CreateWatchlist(ctx context.Context, item CatalogItem) (string, error)

	// CreateWatched stores a new watched or rated-only record.
	// asWatched=false marks the record rated-without-watching.
	// Returns the remote id and the server-assigned watched date.
	CreateWatched(ctx context.Context, item CatalogItem, rating int, asWatched bool) (string, time.Time, error)

	// DeleteWatchlist removes a watchlist record by remote id
	DeleteWatchlist(ctx context.Context, remoteID string) error

	// DeleteWatched removes a watched/rated record by remote id
	DeleteWatched(ctx context.Context, remoteID string) error

	// PatchRating updates the rating field of a watched/rated record
	PatchRating(ctx context.Context, remoteID string, rating int) error
}

// PreferencesClient provides remote access to user preferences
type PreferencesClient interface {
	// GetPreferences returns the stored preferences
	GetPreferences(ctx context.Context) (UserPreferences, error)

	// PutPreferences replaces the stored preferences
	PutPreferences(ctx context.Context, prefs UserPreferences) error
}

// RecommendationClient provides the server-ranked recommendation list
type RecommendationClient interface {
	// GetRecommendations returns the ranked list with justification tags
	GetRecommendations(ctx context.Context) (RecommendationSet, error)
}
