package domain

import "testing"

func TestParseMediaType(t *testing.T) {
	cases := []struct {
		in   string
		want MediaType
	}{
		{"movie", MediaTypeMovie},
		{"tv", MediaTypeSeries},
		{"series", MediaTypeSeries},
		{"show", MediaTypeSeries},
		{"", MediaTypeMovie},
		{"garbage", MediaTypeMovie},
	}
	for _, tc := range cases {
		if got := ParseMediaType(tc.in); got != tc.want {
			t.Fatalf("ParseMediaType(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMediaTypePathSegment(t *testing.T) {
	if got := MediaTypeMovie.PathSegment(); got != "movie" {
		t.Fatalf("movie path segment: %q", got)
	}
	if got := MediaTypeSeries.PathSegment(); got != "tv" {
		t.Fatalf("series path segment: %q", got)
	}
}

func TestCatalogItemDescription(t *testing.T) {
	with := CatalogItem{Title: "Dark", Year: 2017, Type: MediaTypeSeries}
	if got := with.Description(); got != "2017 · series" {
		t.Fatalf("unexpected description %q", got)
	}
	without := CatalogItem{Title: "Unknown", Type: MediaTypeMovie}
	if got := without.Description(); got != "movie" {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestHasRating(t *testing.T) {
	cases := []struct {
		rating int
		want   bool
	}{
		{0, false}, {1, true}, {5, true}, {6, false},
	}
	for _, tc := range cases {
		r := MembershipRecord{UserRating: tc.rating}
		if got := r.HasRating(); got != tc.want {
			t.Fatalf("rating %d: HasRating() = %v, want %v", tc.rating, got, tc.want)
		}
	}
}

func TestHasPlatform(t *testing.T) {
	p := UserPreferences{Platforms: []string{"Netflix", "Videoland"}}
	if !p.HasPlatform("Netflix") {
		t.Fatalf("expected Netflix subscription")
	}
	if p.HasPlatform("HBO Max") {
		t.Fatalf("unexpected HBO Max subscription")
	}
}
