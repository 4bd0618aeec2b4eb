package derive

import (
	"reflect"
	"testing"

	"github.com/mvdveen/streamfinder/internal/domain"
)

func watchedRecord(id int, title string, year, rating int, platforms ...string) domain.MembershipRecord {
	return domain.MembershipRecord{
		CatalogItem: domain.CatalogItem{ID: id, Title: title, Year: year, Platforms: platforms},
		UserRating:  rating,
	}
}

func TestPlatformDistributionOrdering(t *testing.T) {
	watched := []domain.MembershipRecord{
		watchedRecord(1, "Dark", 2017, 4, "Netflix"),
		watchedRecord(2, "Lupin", 2021, 5, "Netflix"),
		watchedRecord(3, "The Twelve", 2022, 3, "NPO Start"),
		watchedRecord(4, "Tabula Rasa", 2017, 4, "Videoland"),
	}

	got := PlatformDistribution(watched)
	want := []PlatformCount{
		{Platform: "Netflix", Count: 2},
		{Platform: "NPO Start", Count: 1},
		{Platform: "Videoland", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPlatformDistributionDropsUnused(t *testing.T) {
	got := PlatformDistribution(nil)
	if len(got) != 0 {
		t.Fatalf("expected empty distribution, got %+v", got)
	}
}

func TestGenreAffinityWeights(t *testing.T) {
	genres := []string{"Thriller", "Drama", "Crime", "Sci-Fi", "Comedy", "Horror", "Documentary"}

	got := GenreAffinity(genres)
	if len(got) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(got))
	}
	wantScores := []float64{10, 8.5, 7, 5.5, 4, 2.5}
	for i, w := range wantScores {
		if got[i].Score != w {
			t.Fatalf("index %d: expected score %v, got %v", i, w, got[i].Score)
		}
	}
	if got[0].Genre != "Thriller" || got[5].Genre != "Horror" {
		t.Fatalf("expected ranked order preserved, got %+v", got)
	}
}

func TestGenreAffinityFloor(t *testing.T) {
	// With more aggressive decay a longer list would go below 1; the first
	// six never do, but the floor must hold if the cap changes.
	got := GenreAffinity([]string{"A"})
	if got[0].Score < 1 {
		t.Fatalf("score below floor: %v", got[0].Score)
	}
}

func TestFavoritesFiveStarOnly(t *testing.T) {
	records := []domain.MembershipRecord{
		watchedRecord(1, "Dark", 2017, 5),
		watchedRecord(2, "Lupin", 2021, 4),
		watchedRecord(7, "Call My Agent", 2015, 5),
	}

	got := Favorites(records)
	if len(got) != 2 {
		t.Fatalf("expected 2 favorites, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 7 {
		t.Fatalf("expected ids 1 and 7 in input order, got %+v", got)
	}
}

func TestDecadeHistogramExcludesMissingYear(t *testing.T) {
	watched := []domain.MembershipRecord{
		watchedRecord(1, "Dark", 2017, 4),
		watchedRecord(2, "Lupin", 2021, 5),
		watchedRecord(3, "Unknown", 0, 3),
		watchedRecord(4, "The Bridge", 2011, 4),
	}

	got := DecadeHistogram(watched)
	want := []DecadeBucket{
		{Label: "2020s", Count: 1},
		{Label: "2010s", Count: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSummarize(t *testing.T) {
	watched := []domain.MembershipRecord{
		watchedRecord(1, "Dark", 2017, 4),
		watchedRecord(2, "Lupin", 2021, 5),
	}
	watchlist := []domain.MembershipRecord{
		watchedRecord(3, "The Twelve", 2022, 0),
	}

	got := Summarize(watched, watchlist)
	if got.Watched != 2 || got.StillToSee != 1 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if got.AverageRating != 4.5 {
		t.Fatalf("expected average 4.5, got %v", got.AverageRating)
	}
}

func TestSummarizeEmptyWatched(t *testing.T) {
	got := Summarize(nil, nil)
	if got.AverageRating != 0 {
		t.Fatalf("expected zero average with no watched titles, got %v", got.AverageRating)
	}
}
