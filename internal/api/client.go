package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mvdveen/streamfinder/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "StreamFinder/1.0"
)

// Client implements domain.CatalogClient, domain.TrackingClient,
// domain.PreferencesClient, and domain.RecommendationClient against the
// JSON-over-HTTP tracking service.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new tracking service client
func NewClient(baseURL, userID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		userID:  userID,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an HTTP request with an optional JSON payload
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("api request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrAuthFailed
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrItemNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Error("api request error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}

func (c *Client) userPath(suffix string) string {
	return fmt.Sprintf("/api/user/%s%s", url.PathEscape(c.userID), suffix)
}

// === Catalog ===

// DiscoverEuropean returns the curated European discovery list
func (c *Client) DiscoverEuropean(ctx context.Context) ([]domain.CatalogItem, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/discover/european", nil, nil)
	if err != nil {
		return nil, err
	}

	var dtos []catalogItemDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("failed to parse discover response: %w", err)
	}
	return mapCatalogItems(dtos), nil
}

// DiscoverForUser returns the platform-scoped discovery list
func (c *Client) DiscoverForUser(ctx context.Context) ([]domain.CatalogItem, error) {
	body, err := c.doRequest(ctx, http.MethodGet, c.userPath("/discover"), nil, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Results []catalogItemDTO `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse discover response: %w", err)
	}
	return mapCatalogItems(resp.Results), nil
}

// Search performs a free-text catalog search
func (c *Client) Search(ctx context.Context, query string) ([]domain.CatalogItem, error) {
	q := url.Values{}
	q.Set("query", query)

	body, err := c.doRequest(ctx, http.MethodGet, "/api/search", q, nil)
	if err != nil {
		return nil, err
	}

	var dtos []catalogItemDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	return mapCatalogItems(dtos), nil
}

// GetDetail returns expanded metadata for one title
func (c *Client) GetDetail(ctx context.Context, mediaType domain.MediaType, id int) (*domain.Detail, error) {
	path := fmt.Sprintf("/api/content/%s/%d", mediaType.PathSegment(), id)
	body, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var dto detailDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse detail response: %w", err)
	}
	return mapDetail(dto), nil
}

// === Tracking lists ===

func (c *Client) listRecords(ctx context.Context, list string) ([]domain.MembershipRecord, error) {
	body, err := c.doRequest(ctx, http.MethodGet, c.userPath("/"+list), nil, nil)
	if err != nil {
		return nil, err
	}

	var dtos []storedRecordDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", list, err)
	}

	records := make([]domain.MembershipRecord, 0, len(dtos))
	for _, dto := range dtos {
		records = append(records, mapStoredRecord(dto))
	}
	return records, nil
}

// ListWatchlist returns the stored watchlist records
func (c *Client) ListWatchlist(ctx context.Context) ([]domain.MembershipRecord, error) {
	return c.listRecords(ctx, "watchlist")
}

// ListWatched returns the stored watched records
func (c *Client) ListWatched(ctx context.Context) ([]domain.MembershipRecord, error) {
	return c.listRecords(ctx, "watched")
}

// ListRated returns the stored rated-only records
func (c *Client) ListRated(ctx context.Context) ([]domain.MembershipRecord, error) {
	return c.listRecords(ctx, "rated")
}

// CreateWatchlist stores a new watchlist record and returns its remote id
func (c *Client) CreateWatchlist(ctx context.Context, item domain.CatalogItem) (string, error) {
	payload := createRecordBody{
		ContentID: item.ID,
		Title:     item.Title,
		Year:      item.Year,
		Type:      item.Type.String(),
		Platforms: item.Platforms,
		PosterURL: item.PosterRef,
	}

	body, err := c.doRequest(ctx, http.MethodPost, c.userPath("/watchlist"), nil, payload)
	if err != nil {
		return "", err
	}

	var resp createRecordResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse create response: %w", err)
	}
	return resp.ID.String(), nil
}

// CreateWatched stores a new watched or rated-only record
func (c *Client) CreateWatched(ctx context.Context, item domain.CatalogItem, rating int, asWatched bool) (string, time.Time, error) {
	payload := createRecordBody{
		ContentID: item.ID,
		Title:     item.Title,
		Year:      item.Year,
		Type:      item.Type.String(),
		Platforms: item.Platforms,
		PosterURL: item.PosterRef,
		Rating:    &rating,
		IsWatched: &asWatched,
	}

	body, err := c.doRequest(ctx, http.MethodPost, c.userPath("/watched"), nil, payload)
	if err != nil {
		return "", time.Time{}, err
	}

	var resp createRecordResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to parse create response: %w", err)
	}
	return resp.ID.String(), parseDate(resp.WatchedDate), nil
}

// DeleteWatchlist removes a watchlist record by remote id
func (c *Client) DeleteWatchlist(ctx context.Context, remoteID string) error {
	path := c.userPath("/watchlist/" + url.PathEscape(remoteID))
	_, err := c.doRequest(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// DeleteWatched removes a watched/rated record by remote id
func (c *Client) DeleteWatched(ctx context.Context, remoteID string) error {
	path := c.userPath("/watched/" + url.PathEscape(remoteID))
	_, err := c.doRequest(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// PatchRating updates the rating field of a watched/rated record
func (c *Client) PatchRating(ctx context.Context, remoteID string, rating int) error {
	path := c.userPath("/watched/" + url.PathEscape(remoteID) + "/rating")
	_, err := c.doRequest(ctx, http.MethodPatch, path, nil, map[string]int{"rating": rating})
	return err
}

// === Preferences ===

// GetPreferences returns the stored preferences
func (c *Client) GetPreferences(ctx context.Context) (domain.UserPreferences, error) {
	body, err := c.doRequest(ctx, http.MethodGet, c.userPath("/preferences"), nil, nil)
	if err != nil {
		return domain.UserPreferences{}, err
	}

	var dto preferencesDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return domain.UserPreferences{}, fmt.Errorf("failed to parse preferences response: %w", err)
	}
	return domain.UserPreferences{Platforms: dto.Platforms, Genres: dto.Genres}, nil
}

// PutPreferences replaces the stored preferences
func (c *Client) PutPreferences(ctx context.Context, prefs domain.UserPreferences) error {
	payload := preferencesDTO{Genres: prefs.Genres, Platforms: prefs.Platforms}
	_, err := c.doRequest(ctx, http.MethodPut, c.userPath("/preferences"), nil, payload)
	return err
}

// === Recommendations ===

// GetRecommendations returns the server-ranked recommendation list
func (c *Client) GetRecommendations(ctx context.Context) (domain.RecommendationSet, error) {
	body, err := c.doRequest(ctx, http.MethodGet, c.userPath("/recommendations"), nil, nil)
	if err != nil {
		return domain.RecommendationSet{}, err
	}

	var resp recommendationsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.RecommendationSet{}, fmt.Errorf("failed to parse recommendations response: %w", err)
	}
	return mapRecommendationSet(resp), nil
}
