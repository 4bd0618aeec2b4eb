package api

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDecodePlatforms(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"native array", `["Netflix", "HBO Max"]`, []string{"Netflix", "HBO Max"}},
		{"json-encoded string", `"[\"Netflix\"]"`, []string{"Netflix"}},
		{"empty array", `[]`, []string{}},
		{"null", `null`, nil},
		{"garbage string", `"not json"`, nil},
		{"wrong type", `42`, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := decodePlatforms(json.RawMessage(tc.raw))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestDecodePlatformsMissing(t *testing.T) {
	if got := decodePlatforms(nil); got != nil {
		t.Fatalf("expected nil for missing field, got %#v", got)
	}
}

func TestFlexInt(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{`42`, 42},
		{`"42"`, 42},
		{`42.0`, 42},
		{`"42.9"`, 42},
		{`null`, 0},
		{`""`, 0},
	}

	for _, tc := range cases {
		var f flexInt
		if err := json.Unmarshal([]byte(tc.raw), &f); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.raw, err)
		}
		if int(f) != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.raw, int(f), tc.want)
		}
	}

	var f flexInt
	if err := json.Unmarshal([]byte(`"abc"`), &f); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
}

func TestFlexString(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`"abc"`, "abc"},
		{`123`, "123"},
		{`null`, ""},
	}

	for _, tc := range cases {
		var f flexString
		if err := json.Unmarshal([]byte(tc.raw), &f); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.raw, err)
		}
		if f.String() != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.raw, f.String(), tc.want)
		}
	}
}

func TestMapStoredRecordClampsRating(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{-3, 0},
		{0, 0},
		{4, 4},
		{9, 5},
	}

	for _, tc := range cases {
		r := mapStoredRecord(storedRecordDTO{Title: "Dark", Rating: tc.in})
		if r.UserRating != tc.want {
			t.Fatalf("rating %d: got %d, want %d", tc.in, r.UserRating, tc.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	if got := parseDate("2024-03-01T12:00:00Z"); got.IsZero() {
		t.Fatalf("expected RFC3339 parsed")
	}
	if got := parseDate("2024-03-01"); got.IsZero() {
		t.Fatalf("expected date-only parsed")
	}
	if got := parseDate(""); !got.IsZero() {
		t.Fatalf("expected zero time for empty input")
	}
	if got := parseDate("last tuesday"); !got.IsZero() {
		t.Fatalf("expected zero time for junk input")
	}
}
