package models

// Platform identifies the social network a post targets
type Platform string

const (
	PlatformTwitter  Platform = "twitter"
	PlatformLinkedIn Platform = "linkedin"
)

// Platforms returns every platform a post may target
func Platforms() []Platform {
	return []Platform{PlatformTwitter, PlatformLinkedIn}
}

// Valid reports whether the platform belongs to the enumeration
func (p Platform) Valid() bool {
	for _, known := range Platforms() {
		if p == known {
			return true
		}
	}
	return false
}

// Status tracks a post through its publication lifecycle
type Status string

const (
	StatusPending   Status = "pending"
	StatusGenerated Status = "generated"
	StatusScheduled Status = "scheduled"
	StatusPosted    Status = "posted"
	StatusFailed    Status = "failed"
)

// Statuses returns every valid post status
func Statuses() []Status {
	return []Status{StatusPending, StatusGenerated, StatusScheduled, StatusPosted, StatusFailed}
}

// Valid reports whether the status belongs to the enumeration
func (s Status) Valid() bool {
	for _, known := range Statuses() {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether the status ends a publication attempt.
// A failed post may still be reverted to pending by a caller-driven retry.
func (s Status) Terminal() bool {
	return s == StatusPosted || s == StatusFailed
}

// SourceType describes where a content source came from. The set below is
// advisory rather than closed: callers may register new origin kinds without
// a schema change.
type SourceType string

const (
	SourceTypeGenerated SourceType = "generated"
	SourceTypeRSS       SourceType = "rss"
	SourceTypeArticle   SourceType = "article"
	SourceTypeTest      SourceType = "test"
)
