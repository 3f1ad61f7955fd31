package content

import "strings"

// CategorySet describes the legal categories for one content type.
type CategorySet struct {
	Allowed  []string
	Default  string
	Required bool
}

// Registry is the single source of truth for which categories are legal per
// content type. A Registry value is immutable once constructed; admin-style
// edits produce a new Registry instead of mutating shared state, so
// concurrent requests never observe a half-edited category set.
type Registry struct {
	sets map[string]CategorySet
}

// NewRegistry builds a registry from the given definitions. The input map is
// copied; later changes to it do not affect the registry.
func NewRegistry(defs map[string]CategorySet) Registry {
	sets := make(map[string]CategorySet, len(defs))
	for ct, def := range defs {
		sets[strings.ToLower(ct)] = CategorySet{
			Allowed:  append([]string(nil), def.Allowed...),
			Default:  def.Default,
			Required: def.Required,
		}
	}
	return Registry{sets: sets}
}

// DefaultRegistry returns the production category definitions.
func DefaultRegistry() Registry {
	return NewRegistry(map[string]CategorySet{
		TypeNews: {
			Allowed: []string{"센터소식", "프로그램소식", "행사소식", "생활정보", "기타"},
			Default: "기타",
		},
		TypeGallery: {
			Allowed: []string{"공지사항", "질문", "건의", "참고자료", "기타", "세미나", "일정"},
			Default: "공지사항",
		},
		// Board posts carry no category.
		TypeBoard: {},
	})
}

// AllowedCategories returns the ordered category list for a content type.
// Unknown types yield an empty list, not an error.
func (r Registry) AllowedCategories(contentType string) []string {
	def, ok := r.sets[strings.ToLower(contentType)]
	if !ok {
		return nil
	}
	return append([]string(nil), def.Allowed...)
}

// DefaultCategory returns the default category for a content type, empty
// when the type is unknown or has no default.
func (r Registry) DefaultCategory(contentType string) string {
	return r.sets[strings.ToLower(contentType)].Default
}

// IsCategoryRequired reports whether the content type mandates a category.
func (r Registry) IsCategoryRequired(contentType string) bool {
	return r.sets[strings.ToLower(contentType)].Required
}

// Validate reports whether a category value is acceptable for a content
// type. An empty category is always valid (it means "not specified").
func (r Registry) Validate(contentType, category string) bool {
	if category == "" {
		return true
	}
	for _, allowed := range r.sets[strings.ToLower(contentType)].Allowed {
		if allowed == category {
			return true
		}
	}
	return false
}

// Normalize trims the category and resolves it against the registry. A blank
// value returns the type's default when a category is required, otherwise
// empty. A non-empty value that is not in the allowed set also returns
// empty; callers that need to distinguish "no category" from "rejected
// category" must call Validate first.
func (r Registry) Normalize(contentType, category string) string {
	trimmed := strings.TrimSpace(category)
	if trimmed == "" {
		if r.IsCategoryRequired(contentType) {
			return r.DefaultCategory(contentType)
		}
		return ""
	}
	if r.Validate(contentType, trimmed) {
		return trimmed
	}
	return ""
}

// ContentTypes returns the registered content types.
func (r Registry) ContentTypes() []string {
	types := make([]string, 0, len(r.sets))
	for ct := range r.sets {
		types = append(types, ct)
	}
	return types
}

// All returns every content type with its allowed categories.
func (r Registry) All() map[string][]string {
	out := make(map[string][]string, len(r.sets))
	for ct, def := range r.sets {
		out[ct] = append([]string(nil), def.Allowed...)
	}
	return out
}

// WithCategory returns a new registry with the category appended to the
// content type's allowed set. Adding to an unknown type or re-adding an
// existing category returns the receiver unchanged.
func (r Registry) WithCategory(contentType, category string) Registry {
	ct := strings.ToLower(contentType)
	def, ok := r.sets[ct]
	if !ok || category == "" {
		return r
	}
	for _, existing := range def.Allowed {
		if existing == category {
			return r
		}
	}

	next := r.clone()
	set := next.sets[ct]
	set.Allowed = append(set.Allowed, category)
	next.sets[ct] = set
	return next
}

// WithoutCategory returns a new registry with the category removed. The last
// remaining category of a type cannot be removed.
func (r Registry) WithoutCategory(contentType, category string) Registry {
	ct := strings.ToLower(contentType)
	def, ok := r.sets[ct]
	if !ok || len(def.Allowed) <= 1 {
		return r
	}

	idx := -1
	for i, existing := range def.Allowed {
		if existing == category {
			idx = i
			break
		}
	}
	if idx == -1 {
		return r
	}

	next := r.clone()
	set := next.sets[ct]
	set.Allowed = append(append([]string(nil), set.Allowed[:idx]...), set.Allowed[idx+1:]...)
	next.sets[ct] = set
	return next
}

func (r Registry) clone() Registry {
	sets := make(map[string]CategorySet, len(r.sets))
	for ct, def := range r.sets {
		sets[ct] = CategorySet{
			Allowed:  append([]string(nil), def.Allowed...),
			Default:  def.Default,
			Required: def.Required,
		}
	}
	return Registry{sets: sets}
}
