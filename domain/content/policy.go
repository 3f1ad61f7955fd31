package content

// TypePolicy carries the per-content-type business rules the generic
// service and repository are parameterized with. One policy value per type
// replaces a subclass hierarchy.
type TypePolicy struct {
	// ContentType is the discriminator stored on every record.
	ContentType string

	// RequiredFields must be present and non-empty on create.
	RequiredFields []string

	// UpdatableFields is the whitelist applied to partial updates.
	UpdatableFields []string

	// FileURLFields name the attributes holding storage object URLs that
	// are cleaned up when a record is deleted.
	FileURLFields []string

	// DefaultFields are stamped with an empty string when absent on create.
	DefaultFields []string
}

// NewsPolicy returns the policy for news articles.
func NewsPolicy() TypePolicy {
	return TypePolicy{
		ContentType:     TypeNews,
		RequiredFields:  []string{FieldTitle, FieldContent},
		UpdatableFields: []string{FieldTitle, FieldContent, FieldCategory, FieldImageURL, FieldShortDescription},
		FileURLFields:   []string{FieldImageURL},
		DefaultFields:   []string{FieldImageURL, FieldShortDescription},
	}
}

// GalleryPolicy returns the policy for gallery posts. Gallery records carry
// an uploaded file alongside the main image; both are cleaned up on delete.
func GalleryPolicy() TypePolicy {
	return TypePolicy{
		ContentType:     TypeGallery,
		RequiredFields:  []string{FieldTitle, FieldContent},
		UpdatableFields: []string{FieldTitle, FieldContent, FieldCategory, FieldImageURL, FieldShortDescription},
		FileURLFields:   []string{FieldImageURL, "file_url"},
		DefaultFields:   []string{FieldImageURL, FieldShortDescription},
	}
}

// BoardPolicy returns the policy for board posts. Boards have no category
// set; the author field passes through as an opaque attribute.
func BoardPolicy() TypePolicy {
	return TypePolicy{
		ContentType:     TypeBoard,
		RequiredFields:  []string{FieldTitle, FieldContent},
		UpdatableFields: []string{FieldTitle, FieldContent, FieldImageURL, FieldShortDescription},
		FileURLFields:   []string{FieldImageURL},
		DefaultFields:   []string{FieldImageURL, FieldShortDescription},
	}
}

// IsUpdatable reports whether the field may be changed through update.
func (p TypePolicy) IsUpdatable(field string) bool {
	for _, f := range p.UpdatableFields {
		if f == field {
			return true
		}
	}
	return false
}
