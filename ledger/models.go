package ledger

import "time"

// PublishStatus is the outcome class of one publish attempt.
type PublishStatus string

const (
	// StatusSuccess means the destination confirmed the post.
	StatusSuccess PublishStatus = "success"
	// StatusFailed means the protocol completed but the destination
	// rejected or never readied the post.
	StatusFailed PublishStatus = "failed"
	// StatusError means the attempt died on an unexpected fault.
	StatusError PublishStatus = "error"
)

// PublishResult records the outcome of publishing one video to one
// destination account. Immutable once created.
type PublishResult struct {
	AccountID    string        `json:"account_id"`
	AccountLabel string        `json:"account_label"`
	Status       PublishStatus `json:"status"`
	RemotePostID string        `json:"remote_post_id,omitempty"`
	ErrorDetail  string        `json:"error_detail,omitempty"`
	PublishedAt  time.Time     `json:"published_at"`
}

// VideoRecord is one discovered and published video. Records are
// append-only: once in the ledger they are never mutated.
type VideoRecord struct {
	ID              string          `json:"id"`
	SourceURL       string          `json:"source_url"`
	ContentHash     string          `json:"content_hash,omitempty"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Keywords        string          `json:"keywords"`
	DurationSeconds int             `json:"duration_seconds"`
	DiscoveredAt    time.Time       `json:"discovered_at"`
	PublishResults  []PublishResult `json:"publish_results"`
}

// Succeeded reports whether at least one publish attempt succeeded.
// A record belongs in the ledger only if this is true.
func (r *VideoRecord) Succeeded() bool {
	for _, pr := range r.PublishResults {
		if pr.Status == StatusSuccess {
			return true
		}
	}
	return false
}
