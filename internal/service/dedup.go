package service

import (
	"strings"

	"github.com/omprakashthakur/contenthub/internal/domain"
	"github.com/omprakashthakur/contenthub/internal/normalize"
)

// IsDuplicate decides whether a normalized candidate already exists in the
// stored set. Matching is exact only:
//
//  1. identifier equality,
//  2. display/source URL equality (covers legacy rows whose ids were not
//     provider-derived),
//  3. video only: an existing URL containing the candidate's provider video
//     id as a substring.
//
// Missed duplicates surface as extra rows, never as data loss.
func IsDuplicate(candidate *domain.ContentRecord, videoID string, existing []domain.ContentRecord) bool {
	for i := range existing {
		r := &existing[i]
		if candidate.ID != "" && candidate.ID == r.ID {
			return true
		}
		// the placeholder URL is shared by every item without a usable
		// image, so it never counts as a match
		if candidate.URL != "" && candidate.URL != normalize.PlaceholderURL && candidate.URL == r.URL {
			return true
		}
		if videoID != "" && (strings.Contains(r.URL, videoID) || strings.Contains(r.DownloadURL, videoID)) {
			return true
		}
	}
	return false
}
