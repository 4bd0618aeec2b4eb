package domain

// Snapshot persists the last-known membership lists and preferences so the
// app can start from a stale-but-usable state when the service is offline.
// Truth lives remotely; the snapshot is best-effort and write-behind.
type Snapshot interface {
	GetWatchlist() ([]MembershipRecord, bool)
	SaveWatchlist(records []MembershipRecord) error

	GetWatched() ([]MembershipRecord, bool)
	SaveWatched(records []MembershipRecord) error

	GetRated() ([]MembershipRecord, bool)
	SaveRated(records []MembershipRecord) error

	GetPreferences() (UserPreferences, bool)
	SavePreferences(prefs UserPreferences) error

	Close() error
}
