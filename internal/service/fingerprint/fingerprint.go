// Package fingerprint derives deduplication keys for law changes and merges
// records that describe the same change. All functions are pure.
package fingerprint

import (
	"encoding/hex"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

// DuplicateRatio is the token-set overlap above which two titles published
// on the same day are treated as the same change.
const DuplicateRatio = 0.8

const undated = "undated"

// Key returns the fingerprint of a feed item: the publication day (UTC) and
// a hash of the normalized title and description. When normalization leaves
// nothing, the raw title is hashed instead, then the URL.
func Key(in domain.LawChangeInput) string {
	title := domain.NormalizeForKey(in.Title)
	desc := domain.NormalizeForKey(in.Description)

	content := title + "\n" + desc
	if title == "" && desc == "" {
		content = strings.TrimSpace(in.Title)
		if content == "" {
			content = strings.TrimSpace(in.URL)
		}
	}

	sum := blake2b.Sum256([]byte(content))
	return DayBucket(in.PublishedAt) + ":" + hex.EncodeToString(sum[:])
}

// DayBucket is the temporal part of a fingerprint.
func DayBucket(t time.Time) string {
	if t.IsZero() {
		return undated
	}
	return t.UTC().Format(time.DateOnly)
}

// SimilarityKey returns the sorted unique title tokens joined by spaces.
func SimilarityKey(title string) string {
	return strings.Join(tokens(title), " ")
}

func tokens(s string) []string {
	fields := strings.Fields(domain.NormalizeForKey(s))
	slices.Sort(fields)
	return slices.Compact(fields)
}

// AreLikelyDuplicates reports whether two records describe the same change
// although their fingerprints differ: same URL, or same publication day with
// title token overlap of at least DuplicateRatio.
func AreLikelyDuplicates(a, b domain.LawChange) bool {
	if a.URL != "" && a.URL == b.URL {
		return true
	}
	if DayBucket(a.PublishedAt) != DayBucket(b.PublishedAt) {
		return false
	}
	return Jaccard(keyTokens(a), keyTokens(b)) >= DuplicateRatio
}

func keyTokens(l domain.LawChange) []string {
	if l.SimilarityKey != "" {
		return strings.Fields(l.SimilarityKey)
	}
	return tokens(l.Title)
}

// Jaccard returns |a∩b| / |a∪b| for two sorted, de-duplicated token lists.
// Two empty lists have ratio 0.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	var inter int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch strings.Compare(a[i], b[j]) {
		case 0:
			inter++
			i++
			j++
		case -1:
			i++
		default:
			j++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}

// NewLaw builds a fresh law record from a feed item. An undated item keeps
// its undated fingerprint but is stored as published at now.
func NewLaw(in domain.LawChangeInput, id uuid.UUID, now time.Time) domain.LawChange {
	law := domain.LawChange{
		ID:            id,
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		SourceFeedID:  in.FeedID,
		URL:           in.URL,
		PublishedAt:   in.PublishedAt,
		Area:          in.Area,
		Fingerprint:   Key(in),
		SimilarityKey: SimilarityKey(in.Title),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if law.PublishedAt.IsZero() {
		law.PublishedAt = now
	}
	if in.FeedID != "" {
		law.Metadata.Sources = []string{in.FeedID}
	}
	if in.URL != "" {
		law.Metadata.URLs = []string{in.URL}
	}
	return law
}

// MergeDuplicates folds an incoming duplicate into the existing record. It
// unions sources and URLs and keeps the longer description. MergeCount grows
// only when the incoming item contributed something, so merging the same
// duplicate again returns the record unchanged with changed == false.
func MergeDuplicates(existing domain.LawChange, incoming domain.LawChangeInput, now time.Time) (merged domain.LawChange, changed bool) {
	merged = existing
	merged.Metadata.Sources = slices.Clone(existing.Metadata.Sources)
	merged.Metadata.URLs = slices.Clone(existing.Metadata.URLs)

	if src := incoming.FeedID; src != "" && !slices.Contains(merged.Metadata.Sources, src) {
		merged.Metadata.Sources = append(merged.Metadata.Sources, src)
		changed = true
	}
	if u := incoming.URL; u != "" && !slices.Contains(merged.Metadata.URLs, u) {
		merged.Metadata.URLs = append(merged.Metadata.URLs, u)
		changed = true
	}
	if desc := strings.TrimSpace(incoming.Description); len([]rune(desc)) > len([]rune(merged.Description)) {
		merged.Description = desc
		changed = true
	}
	if merged.URL == "" && incoming.URL != "" {
		merged.URL = incoming.URL
	}
	if merged.Area == "" && incoming.Area != "" {
		merged.Area = incoming.Area
		changed = true
	}

	if !changed {
		return existing, false
	}
	merged.Metadata.MergeCount++
	merged.UpdatedAt = now
	return merged, true
}
