package api

import (
	"encoding/json"
	"strconv"
	"strings"
)

// flexInt decodes a JSON number or a string-encoded number. The service is
// loose about id encoding; ids must stay integer-comparable either way.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Tolerate float-encoded ids
		v, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return err
		}
		n = int(v)
	}
	*f = flexInt(n)
	return nil
}

// flexString decodes a JSON string or number into a string. Record ids
// arrive in both encodings.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		s = ""
	}
	*f = flexString(s)
	return nil
}

func (f flexString) String() string { return string(f) }

// catalogItemDTO mirrors the catalog objects returned by discover and search
type catalogItemDTO struct {
	ID         flexInt         `json:"id"`
	Title      string          `json:"title"`
	Year       int             `json:"year"`
	Type       string          `json:"type"`
	Rating     float64         `json:"rating"`
	PosterURL  string          `json:"posterUrl"`
	Platforms  json.RawMessage `json:"platforms"`
	IsEuropean bool            `json:"isEuropean"`
}

// storedRecordDTO mirrors one stored watchlist/watched/rated record
type storedRecordDTO struct {
	ID        flexString      `json:"id"`
	ContentID flexInt         `json:"contentId"`
	Title     string          `json:"title"`
	Year      int             `json:"year"`
	Type      string          `json:"type"`
	Rating    int             `json:"rating"`
	IsWatched *bool           `json:"isWatched"`
	PosterURL string          `json:"posterUrl"`
	Platforms json.RawMessage `json:"platforms"`
	AddedDate string          `json:"added_date"`
	WatchedAt string          `json:"watched_date"`
}

// createRecordBody is the POST payload for watchlist/watched creation
type createRecordBody struct {
	ContentID int      `json:"contentId"`
	Title     string   `json:"title"`
	Year      int      `json:"year"`
	Type      string   `json:"type"`
	Platforms []string `json:"platforms"`
	PosterURL string   `json:"posterUrl"`
	Rating    *int     `json:"rating,omitempty"`
	IsWatched *bool    `json:"isWatched,omitempty"`
}

// createRecordResponse is the service's answer to a record creation
type createRecordResponse struct {
	ID          flexString `json:"id"`
	WatchedDate string     `json:"watched_date"`
}

type detailDTO struct {
	Overview           string   `json:"overview"`
	Cast               []string `json:"cast"`
	Genres             []string `json:"genres"`
	StreamingPlatforms []string `json:"streamingPlatforms"`
	RentBuyPlatforms   []string `json:"rentBuyPlatforms"`
	Backdrop           string   `json:"backdrop"`
}

type preferencesDTO struct {
	Genres    []string `json:"genres"`
	Platforms []string `json:"platforms"`
}

type recommendationDTO struct {
	catalogItemDTO
	AvailableOnYourPlatform bool     `json:"availableOnYourPlatform"`
	RecommendedBecause      []string `json:"recommendedBecause"`
}

type recommendationsResponse struct {
	Recommendations []recommendationDTO `json:"recommendations"`
	BasedOn         []string            `json:"basedOn"`
}

// decodePlatforms handles the transport-ambiguous platforms field: it may
// arrive as a native JSON array or as a JSON-encoded string. Decode failure
// degrades to an empty set rather than failing the record.
func decodePlatforms(raw json.RawMessage) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var platforms []string
	if err := json.Unmarshal(raw, &platforms); err == nil {
		return platforms
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(encoded), &platforms); err != nil {
		return nil
	}
	return platforms
}
