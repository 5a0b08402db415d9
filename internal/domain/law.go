package domain

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// LawChangeInput is a feed item after per-feed normalization. The core never
// sees feed-specific shapes.
type LawChangeInput struct {
	Title       string
	Description string
	PublishedAt time.Time
	URL         string
	FeedID      string
	Area        string
}

// LawMetadata tracks which feeds contributed to a merged law record.
type LawMetadata struct {
	Sources    []string `json:"sources"`
	URLs       []string `json:"urls"`
	MergeCount int      `json:"mergeCount"`
}

// LawChange is a normalized external legal update. At most one record exists
// per fingerprint; duplicates are merged into it.
type LawChange struct {
	ID            uuid.UUID
	Title         string
	Description   string
	SourceFeedID  string
	URL           string
	PublishedAt   time.Time
	Area          string
	Fingerprint   string
	SimilarityKey string
	Metadata      LawMetadata
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MatchText is the text embedded when matching the law against contracts,
// cut to at most maxChars runes. A non-positive maxChars leaves it whole.
func (l LawChange) MatchText(maxChars int) string {
	text := l.Title
	if l.Description != "" {
		text += "\n\n" + l.Description
	}
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxChars])
}

// IngestSummary counts the outcomes of one ingestion pass.
type IngestSummary struct {
	Inserted  int
	Merged    int
	Unchanged int
	Skipped   int
	Errors    int
}
