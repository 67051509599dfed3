// Package normalize converts raw provider media items into the internal
// content schema. All functions are pure and total: every missing input
// field has a fallback, so there is no error path.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/omprakashthakur/contenthub/internal/domain"
)

// PlaceholderURL is used when a raw item carries no usable image URL.
const PlaceholderURL = "/images/placeholder.svg"

// urlPreference is the ordered resolution preference for the display URL.
var urlPreference = []string{"original", "large2x", "large", "medium", "small"}

// Normalizer derives ContentRecords from raw MediaItems. The zero value is
// not usable; construct with New.
type Normalizer struct {
	rules []CategoryRule
	now   func() time.Time
}

// Option customizes a Normalizer.
type Option func(*Normalizer)

// WithCategoryRules substitutes the keyword table used for video
// classification.
func WithCategoryRules(rules []CategoryRule) Option {
	return func(n *Normalizer) { n.rules = rules }
}

// withClock fixes the clock used for synthetic identifiers. Test hook.
func withClock(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		rules: DefaultCategoryRules,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Photo normalizes a raw stock-photo item into a photo ContentRecord.
func (n *Normalizer) Photo(raw domain.MediaItem) domain.ContentRecord {
	title := raw.Alt
	if title == "" {
		title = raw.Title
	}
	if title == "" && raw.AuthorName != "" {
		title = fmt.Sprintf("Photo by %s", raw.AuthorName)
	}
	if title == "" {
		title = "Untitled photo"
	}

	return domain.ContentRecord{
		ID:          n.identifier(domain.SourcePexels, raw.ExternalID),
		Kind:        domain.KindPhoto,
		Title:       title,
		Description: raw.Description,
		URL:         DisplayURL(raw.URLVariants),
		Alt:         title,
		Category:    "photography",
		Tags:        deriveTags(title),
		AuthorName:  raw.AuthorName,
		AuthorURL:   raw.AuthorURL,
		Width:       raw.Width,
		Height:      raw.Height,
		DownloadURL: raw.URLVariants["original"],
		Source:      domain.SourcePexels,
		Platform:    "Pexels",
		CreatedAt:   raw.PublishedAt,
	}
}

// Video normalizes a raw video item into a vlog ContentRecord, classifying
// its category from the keyword table and relabeling short-form videos.
func (n *Normalizer) Video(raw domain.MediaItem) domain.ContentRecord {
	title := raw.Title
	if title == "" && raw.AuthorName != "" {
		title = fmt.Sprintf("Video by %s", raw.AuthorName)
	}
	if title == "" {
		title = "Untitled video"
	}

	source := domain.SourceYouTube
	platform := "YouTube"
	category := n.Classify(title, raw.Description)
	if IsShortForm(title, raw.Description) {
		source = domain.SourceYTShorts
		platform = "YT Shorts"
		category = "short"
	}

	return domain.ContentRecord{
		ID:          n.identifier(domain.SourceYouTube, raw.ExternalID),
		Kind:        domain.KindVlog,
		Title:       title,
		Description: raw.Description,
		URL:         DisplayURL(raw.URLVariants),
		Alt:         title,
		Category:    category,
		Tags:        deriveTags(title),
		AuthorName:  raw.AuthorName,
		AuthorURL:   raw.AuthorURL,
		Width:       raw.Width,
		Height:      raw.Height,
		DownloadURL: raw.PageURL,
		Source:      source,
		Platform:    platform,
		CreatedAt:   raw.PublishedAt,
	}
}

// identifier derives the stable record id. A missing provider id falls back
// to a time-based synthetic id; retries of such items may insert duplicates,
// a documented limitation.
func (n *Normalizer) identifier(source, externalID string) string {
	if externalID == "" {
		return fmt.Sprintf("%s-t%d", source, n.now().UnixNano())
	}
	return fmt.Sprintf("%s-%s", source, externalID)
}

// Classify scans title and description against the keyword table,
// case-insensitively. First matching rule wins.
func (n *Normalizer) Classify(title, description string) string {
	text := strings.ToLower(title + " " + description)
	for _, rule := range n.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.Category
			}
		}
	}
	return DefaultCategory
}

// IsShortForm reports whether title or description carries a short-form
// marker such as "#shorts" or "#reel".
func IsShortForm(title, description string) bool {
	text := strings.ToLower(title + " " + description)
	for _, marker := range shortFormMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// DisplayURL picks the highest-resolution variant available, falling back
// to the local placeholder when none is present.
func DisplayURL(variants map[string]string) string {
	for _, key := range urlPreference {
		if url := variants[key]; url != "" {
			return url
		}
	}
	return PlaceholderURL
}

// deriveTags produces a small ordered tag list from the title words,
// skipping hashtags and short filler words.
func deriveTags(title string) []string {
	var tags []string
	for _, word := range strings.Fields(strings.ToLower(title)) {
		word = strings.Trim(word, ".,!?:;\"'()")
		if len(word) < 4 || strings.HasPrefix(word, "#") {
			continue
		}
		tags = append(tags, word)
		if len(tags) == 5 {
			break
		}
	}
	return tags
}
