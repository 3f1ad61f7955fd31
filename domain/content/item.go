package content

// Content type discriminators for the shared table.
const (
	TypeNews    = "news"
	TypeGallery = "gallery"
	TypeBoard   = "board"
)

// Item statuses. Only published items are visible through list/recent.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// Well-known attribute names of the persisted record.
const (
	FieldID               = "id"
	FieldContentType      = "content_type"
	FieldTitle            = "title"
	FieldContent          = "content"
	FieldCategory         = "category"
	FieldImageURL         = "image_url"
	FieldShortDescription = "short_description"
	FieldStatus           = "status"
	FieldCreatedAt        = "created_at"
	FieldUpdatedAt        = "updated_at"
)

// Item is a single content record. It is deliberately schemaless: the core
// fields above are interpreted, everything else (gallery file metadata,
// board author, ...) is stored and returned verbatim.
type Item map[string]interface{}

func (i Item) str(field string) string {
	if v, ok := i[field].(string); ok {
		return v
	}
	return ""
}

// ID returns the item's unique identifier.
func (i Item) ID() string { return i.str(FieldID) }

// ContentType returns the discriminator the item was stored under.
func (i Item) ContentType() string { return i.str(FieldContentType) }

// Title returns the item title.
func (i Item) Title() string { return i.str(FieldTitle) }

// Category returns the item's category, empty when none was set.
func (i Item) Category() string { return i.str(FieldCategory) }

// Status returns the publication status.
func (i Item) Status() string { return i.str(FieldStatus) }

// CreatedAt returns the creation timestamp as stored (ISO-8601 UTC).
func (i Item) CreatedAt() string { return i.str(FieldCreatedAt) }

// UpdatedAt returns the last-mutation timestamp as stored.
func (i Item) UpdatedAt() string { return i.str(FieldUpdatedAt) }

// ImageURL returns the item's main image URL, empty when none.
func (i Item) ImageURL() string { return i.str(FieldImageURL) }

// IsPublished reports whether the item is externally visible.
func (i Item) IsPublished() bool { return i.Status() == StatusPublished }

// FileURLs collects the values of the given URL-bearing fields, skipping
// empty ones. Used to resolve storage objects before a delete.
func (i Item) FileURLs(fields ...string) []string {
	urls := make([]string, 0, len(fields))
	for _, f := range fields {
		if u := i.str(f); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Clone returns a shallow copy of the item.
func (i Item) Clone() Item {
	out := make(Item, len(i))
	for k, v := range i {
		out[k] = v
	}
	return out
}
