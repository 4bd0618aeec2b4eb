package search

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mvdveen/streamfinder/internal/domain"
)

// FilterLocal narrows a cached catalog list against the query while the
// remote debounce is still pending, so typing feels instant. Matching is
// fuzzy and case/diacritic-insensitive, ranked best match first.
func FilterLocal(items []domain.CatalogItem, query string, filter Filter) []domain.CatalogItem {
	if query == "" {
		if filter == FilterAll {
			return items
		}
	}

	type ranked struct {
		item domain.CatalogItem
		rank int
	}

	var matches []ranked
	for _, item := range items {
		if !filter.Allows(item.Type) {
			continue
		}
		if query == "" {
			matches = append(matches, ranked{item: item})
			continue
		}
		r := fuzzy.RankMatchNormalizedFold(query, item.Title)
		if r < 0 {
			continue
		}
		matches = append(matches, ranked{item: item, rank: r})
	}

	if query != "" {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].rank < matches[j].rank
		})
	}

	out := make([]domain.CatalogItem, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.item)
	}
	return out
}
