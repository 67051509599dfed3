package cache

import (
	"time"

	"github.com/omprakashthakur/contenthub/internal/domain"
)

// Placeholders is the read-only fallback dataset shown when both the content
// store and the cache are unavailable. Display-only; never persisted.
func Placeholders() []domain.ContentRecord {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []domain.ContentRecord{
		{
			ID:        "placeholder-vlog-1",
			Kind:      domain.KindVlog,
			Title:     "Latest vlogs are temporarily unavailable",
			URL:       "/images/placeholder.svg",
			Alt:       "Placeholder",
			Category:  "daily-life",
			Source:    domain.SourceNative,
			Platform:  "YouTube",
			CreatedAt: created,
		},
	}
}
