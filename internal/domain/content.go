package domain

import "time"

// Kind identifies which content table a record belongs to.
type Kind string

const (
	KindPost  Kind = "post"
	KindVlog  Kind = "vlog"
	KindPhoto Kind = "photo"
)

// Valid reports whether k names a known content kind.
func (k Kind) Valid() bool {
	switch k {
	case KindPost, KindVlog, KindPhoto:
		return true
	}
	return false
}

// Source values for ContentRecord.Source.
const (
	SourceNative   = "native"
	SourcePexels   = "pexels"
	SourceYouTube  = "youtube"
	SourceYTShorts = "yt-shorts"
)

// ContentRecord is the persisted form of one piece of content (post, vlog,
// or photo). Externally synced records carry a provider-prefixed ID so that
// repeated syncs of the same provider item resolve to the same identifier.
type ContentRecord struct {
	ID          string    `db:"id" json:"id"`
	Kind        Kind      `db:"-" json:"kind"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	URL         string    `db:"url" json:"url"`
	Alt         string    `db:"alt" json:"alt"`
	Category    string    `db:"category" json:"category"`
	Tags        []string  `db:"-" json:"tags"`
	AuthorName  string    `db:"author_name" json:"authorName"`
	AuthorURL   string    `db:"author_url" json:"authorUrl"`
	Width       int       `db:"width" json:"width"`
	Height      int       `db:"height" json:"height"`
	DownloadURL string    `db:"download_url" json:"downloadUrl"`
	Source      string    `db:"source" json:"source"`
	Platform    string    `db:"platform" json:"platform"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// MediaItem is the provider-neutral raw shape produced by a source client.
// It exists only in memory during a sync run.
type MediaItem struct {
	ExternalID  string
	Title       string
	Description string
	Alt         string
	AuthorName  string
	AuthorURL   string
	PageURL     string
	Width       int
	Height      int
	// URLVariants maps resolution names (original, large2x, large, medium,
	// small) to URLs. Absent resolutions are simply missing keys.
	URLVariants map[string]string
	PublishedAt time.Time
	// VideoID is the provider-native video id, set for video items only.
	VideoID string
}

// SyncedItem identifies one record inserted by a sync run.
type SyncedItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// SyncReport summarizes one sync run.
// Invariant: Inserted + Skipped + Failed == TotalFetched.
type SyncReport struct {
	Provider     string        `json:"provider"`
	TotalFetched int           `json:"totalFetched"`
	Inserted     int           `json:"syncedCount"`
	Skipped      int           `json:"skippedCount"`
	Failed       int           `json:"failedCount"`
	Items        []SyncedItem  `json:"items,omitempty"`
	Duration     time.Duration `json:"-"`
}

// SyncState is the per-provider bookkeeping row updated after each run.
type SyncState struct {
	ID           int64     `db:"id"`
	SourceID     string    `db:"source_id"`
	LastSyncedAt time.Time `db:"last_synced_at"`
	TotalSynced  int64     `db:"total_synced"`
}
