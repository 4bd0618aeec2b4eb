package api

import (
	"time"

	"github.com/mvdveen/streamfinder/internal/domain"
)

func mapCatalogItem(dto catalogItemDTO) domain.CatalogItem {
	return domain.CatalogItem{
		ID:            int(dto.ID),
		Title:         dto.Title,
		Year:          dto.Year,
		Type:          domain.ParseMediaType(dto.Type),
		CatalogRating: dto.Rating,
		PosterRef:     dto.PosterURL,
		Platforms:     decodePlatforms(dto.Platforms),
		IsEuropean:    dto.IsEuropean,
	}
}

func mapCatalogItems(dtos []catalogItemDTO) []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, mapCatalogItem(dto))
	}
	return items
}

func mapStoredRecord(dto storedRecordDTO) domain.MembershipRecord {
	// Ratings outside 0..5 would break the star rendering
	rating := dto.Rating
	if rating < 0 {
		rating = 0
	} else if rating > 5 {
		rating = 5
	}

	return domain.MembershipRecord{
		CatalogItem: domain.CatalogItem{
			ID:        int(dto.ContentID),
			Title:     dto.Title,
			Year:      dto.Year,
			Type:      domain.ParseMediaType(dto.Type),
			PosterRef: dto.PosterURL,
			Platforms: decodePlatforms(dto.Platforms),
		},
		RemoteID:   dto.ID.String(),
		AddedAt:    parseDate(dto.AddedDate),
		WatchedAt:  parseDate(dto.WatchedAt),
		UserRating: rating,
	}
}

func mapDetail(dto detailDTO) *domain.Detail {
	return &domain.Detail{
		Overview:           dto.Overview,
		Cast:               dto.Cast,
		Genres:             dto.Genres,
		StreamingPlatforms: dto.StreamingPlatforms,
		RentBuyPlatforms:   dto.RentBuyPlatforms,
		BackdropRef:        dto.Backdrop,
	}
}

func mapRecommendationSet(resp recommendationsResponse) domain.RecommendationSet {
	recs := make([]domain.Recommendation, 0, len(resp.Recommendations))
	for _, dto := range resp.Recommendations {
		recs = append(recs, domain.Recommendation{
			CatalogItem:             mapCatalogItem(dto.catalogItemDTO),
			AvailableOnYourPlatform: dto.AvailableOnYourPlatform,
			RecommendedBecause:      dto.RecommendedBecause,
		})
	}
	return domain.RecommendationSet{Recommendations: recs, BasedOn: resp.BasedOn}
}

// parseDate decodes service timestamps, tolerating absence and odd formats
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
