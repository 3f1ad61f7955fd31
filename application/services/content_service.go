package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"communityhub/application/ports"
	"communityhub/domain/content"
	"communityhub/pkg/common"
	apperrors "communityhub/pkg/errors"
	"communityhub/pkg/utils"

	"go.uber.org/zap"
)

// shortDescriptionLength is how much of the content body seeds the
// short_description when the caller does not supply one.
const shortDescriptionLength = 100

// defaultRecentLimit applies when a recent query gives no limit.
const defaultRecentLimit = 5

// Page is one page of listed content.
type Page struct {
	Items   []content.Item `json:"items"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
	HasNext bool           `json:"has_next"`
}

// DeleteResult reports a successful delete. Warnings list file objects that
// could not be cleaned up; they never turn the delete into a failure.
type DeleteResult struct {
	ID       string   `json:"id"`
	Warnings []string `json:"warnings,omitempty"`
}

// ContentService enforces the per-type business rules and delegates
// persistence to the repository. One generic service covers every content
// type; the differences live in the TypePolicy and the category registry.
type ContentService struct {
	policy   content.TypePolicy
	registry content.Registry
	repo     ports.ContentRepository
	files    ports.FileStore
	events   ports.EventPublisher
	logger   *zap.Logger
}

// NewContentService creates a service for one content type
func NewContentService(
	policy content.TypePolicy,
	registry content.Registry,
	repo ports.ContentRepository,
	files ports.FileStore,
	logger *zap.Logger,
) *ContentService {
	return &ContentService{
		policy:   policy,
		registry: registry,
		repo:     repo,
		files:    files,
		logger:   logger,
	}
}

// SetEventPublisher attaches an optional domain event publisher
func (s *ContentService) SetEventPublisher(events ports.EventPublisher) {
	s.events = events
}

// ContentType returns the content type this service manages.
func (s *ContentService) ContentType() string {
	return s.policy.ContentType
}

// Categories returns the allowed categories for this content type.
func (s *ContentService) Categories() []string {
	return s.registry.AllowedCategories(s.policy.ContentType)
}

// Create validates the input and persists a new item, returning its id.
func (s *ContentService) Create(ctx context.Context, input content.Item) (string, error) {
	data := trimStrings(input)

	for _, field := range s.policy.RequiredFields {
		if v, _ := data[field].(string); v == "" {
			return "", apperrors.NewValidationError(fmt.Sprintf("Field '%s' is required", field))
		}
	}

	if err := s.checkCategory(data.Category()); err != nil {
		return "", err
	}

	if v, _ := data[content.FieldShortDescription].(string); v == "" {
		body, _ := data[content.FieldContent].(string)
		data[content.FieldShortDescription] = utils.Truncate(body, shortDescriptionLength)
	}

	id, err := s.repo.Create(ctx, data)
	if err != nil {
		return "", err
	}

	s.publish(ctx, ports.EventContentCreated, id)
	return id, nil
}

// GetByID returns the item, or nil when it does not exist under this
// content type.
func (s *ContentService) GetByID(ctx context.Context, id string) (content.Item, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial update. The empty return id means not found.
// Only whitelisted fields reach the repository; a request carrying none of
// them is rejected as a validation error.
func (s *ContentService) Update(ctx context.Context, id string, input content.Item) (string, error) {
	if id == "" {
		return "", apperrors.NewValidationError("id is required")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return "", nil
	}

	if raw, ok := input[content.FieldCategory]; ok {
		category, _ := raw.(string)
		if err := s.checkCategory(strings.TrimSpace(category)); err != nil {
			return "", err
		}
	}

	update := content.Item{}
	for _, field := range s.policy.UpdatableFields {
		if value, ok := input[field]; ok {
			if str, isStr := value.(string); isStr {
				value = strings.TrimSpace(str)
			}
			update[field] = value
		}
	}
	if len(update) == 0 {
		return "", apperrors.NewValidationError("No valid fields to update")
	}

	ok, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}

	s.publish(ctx, ports.EventContentUpdated, id)
	return id, nil
}

// Delete removes the item and cleans up its stored files. A nil result
// means not found. File keys are resolved before the record delete because
// the URLs become unreachable afterwards; the cleanup itself runs after the
// record delete succeeds and may partially fail without affecting the
// delete outcome.
func (s *ContentService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("id is required")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	var keys []string
	for _, fileURL := range existing.FileURLs(s.policy.FileURLFields...) {
		if key := s.files.ExtractKey(fileURL); key != "" {
			keys = append(keys, key)
		}
	}

	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var warnings []string
	if len(keys) > 0 {
		for key, deleted := range s.files.DeleteMany(ctx, keys) {
			if !deleted {
				warnings = append(warnings, fmt.Sprintf("failed to delete file %s", key))
			}
		}
		if len(warnings) > 0 {
			s.logger.Warn("Some files could not be deleted",
				zap.String("contentType", s.policy.ContentType),
				zap.String("id", id),
				zap.Strings("warnings", warnings),
			)
		}
	}

	s.publish(ctx, ports.EventContentDeleted, id)
	return &DeleteResult{ID: id, Warnings: warnings}, nil
}

// List returns one page of published items, newest first.
func (s *ContentService) List(ctx context.Context, page, limit int, category string) (*Page, error) {
	if page < 1 {
		return nil, apperrors.NewValidationError("page must be 1 or greater")
	}
	params := common.PaginationParams{Page: page, Limit: limit}.Clamp()

	if err := s.checkCategory(category); err != nil {
		return nil, err
	}

	result, err := s.repo.List(ctx, ports.ListOptions{Category: category})
	if err != nil {
		return nil, err
	}

	items := result.Items
	offset := params.Offset()
	if offset > len(items) {
		offset = len(items)
	}
	end := offset + params.Limit
	if end > len(items) {
		end = len(items)
	}

	return &Page{
		Items:   items[offset:end],
		Total:   result.Total,
		Page:    params.Page,
		Limit:   params.Limit,
		HasNext: end < len(items),
	}, nil
}

// Recent returns the newest published items.
func (s *ContentService) Recent(ctx context.Context, limit int) ([]content.Item, error) {
	if limit < 1 {
		limit = defaultRecentLimit
	}
	if limit > common.MaxPageSize {
		limit = common.MaxPageSize
	}
	return s.repo.Recent(ctx, limit)
}

// PresignUpload issues an upload target for a new file belonging to this
// content type.
func (s *ContentService) PresignUpload(ctx context.Context, mimeType, extension string) (*ports.PresignedUpload, error) {
	if mimeType == "" {
		return nil, apperrors.NewValidationError("content_type is required")
	}
	return s.files.PresignUpload(ctx, mimeType, extension, s.policy.ContentType)
}

// checkCategory validates a category value against the registry.
func (s *ContentService) checkCategory(category string) error {
	if s.registry.Validate(s.policy.ContentType, category) {
		return nil
	}
	allowed := s.registry.AllowedCategories(s.policy.ContentType)
	return apperrors.NewValidationError(fmt.Sprintf(
		"Invalid category '%s' for %s. Allowed categories: %s",
		category, s.policy.ContentType, strings.Join(allowed, ", "),
	)).WithDetails(map[string]interface{}{
		"allowed_categories": allowed,
	})
}

// publish emits a domain event, logging failures instead of propagating
// them: events are advisory.
func (s *ContentService) publish(ctx context.Context, eventType, id string) {
	if s.events == nil {
		return
	}
	event := ports.Event{
		Type:        eventType,
		ContentType: s.policy.ContentType,
		ContentID:   id,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("type", eventType),
			zap.String("id", id),
			zap.Error(err),
		)
	}
}

// trimStrings returns a copy of the item with every string value trimmed.
func trimStrings(input content.Item) content.Item {
	data := input.Clone()
	for k, v := range data {
		if str, ok := v.(string); ok {
			data[k] = strings.TrimSpace(str)
		}
	}
	return data
}
