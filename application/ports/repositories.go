// Package ports defines the interfaces between the application services and
// the infrastructure layer.
package ports

import (
	"context"
	"time"

	"communityhub/domain/content"
)

// ListOptions narrows a repository listing.
type ListOptions struct {
	// Limit caps the number of returned items; zero means no cap.
	Limit int
	// Category filters on exact category match when non-empty.
	Category string
	// StartAfter is an opaque cursor: the id of the last item of the
	// previous page.
	StartAfter string
}

// ListResult is one page of repository items.
type ListResult struct {
	Items []content.Item
	// NextCursor continues the listing, empty when exhausted.
	NextCursor string
	// Total is the number of published items matching the filter.
	Total int
}

// ContentRepository persists and lists content records of one content type.
// Absent records are reported as nil items with nil error; only storage
// failures produce errors.
type ContentRepository interface {
	Create(ctx context.Context, data content.Item) (string, error)
	GetByID(ctx context.Context, id string) (content.Item, error)
	Update(ctx context.Context, id string, data content.Item) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, opts ListOptions) (*ListResult, error)
	Recent(ctx context.Context, limit int) ([]content.Item, error)
}

// PresignedUpload describes a presigned PUT target for a client upload.
type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	FileKey   string `json:"file_key"`
	FileURL   string `json:"file_url"`
	ExpiresIn int    `json:"expires_in"`
	ExpiresAt string `json:"expires_at"`
}

// FileStore manages stored file objects referenced by content records.
type FileStore interface {
	// ExtractKey recovers the object key from a previously issued URL,
	// empty when the URL does not belong to this deployment's bucket.
	ExtractKey(fileURL string) string

	// DeleteMany issues a best-effort batch delete. Every input key gets
	// an entry in the result; per-key failures are recorded, not raised.
	DeleteMany(ctx context.Context, keys []string) map[string]bool

	// PresignUpload issues a time-limited upload URL for a new object.
	PresignUpload(ctx context.Context, mimeType, extension, folder string) (*PresignedUpload, error)
}

// Event is a domain event emitted after a successful mutation.
type Event struct {
	Type        string    `json:"type"`
	ContentType string    `json:"content_type"`
	ContentID   string    `json:"content_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Content event types.
const (
	EventContentCreated = "content.created"
	EventContentUpdated = "content.updated"
	EventContentDeleted = "content.deleted"
)

// EventPublisher publishes domain events. Publishing is best-effort: the
// caller logs failures and continues.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
