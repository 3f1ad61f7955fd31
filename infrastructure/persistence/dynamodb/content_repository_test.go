package dynamodb

import (
	"context"
	"strings"
	"testing"

	"communityhub/application/ports"
	"communityhub/domain/content"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDynamoDB is an in-memory table keyed by id. It understands the
// equality-only filter and SET-only update expressions the repository
// builds: the expression builder numbers name and value placeholders in
// lockstep (#0/:0, #1/:1, ...), so each pair is treated as field = value.
type fakeDynamoDB struct {
	items       map[string]map[string]types.AttributeValue
	updateCalls int
	deleteCalls int
	scanPages   int
}

func newFakeDynamoDB() *fakeDynamoDB {
	return &fakeDynamoDB{items: map[string]map[string]types.AttributeValue{}}
}

func (f *fakeDynamoDB) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	id := params.Key[content.FieldID].(*types.AttributeValueMemberS).Value
	item, ok := f.items[id]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (f *fakeDynamoDB) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	id := params.Item[content.FieldID].(*types.AttributeValueMemberS).Value
	f.items[id] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoDB) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateCalls++
	id := params.Key[content.FieldID].(*types.AttributeValueMemberS).Value
	item, ok := f.items[id]
	if !ok {
		return &dynamodb.UpdateItemOutput{}, nil
	}
	for placeholder, field := range params.ExpressionAttributeNames {
		valueKey := ":" + strings.TrimPrefix(placeholder, "#")
		if value, ok := params.ExpressionAttributeValues[valueKey]; ok {
			item[field] = value
		}
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamoDB) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deleteCalls++
	id := params.Key[content.FieldID].(*types.AttributeValueMemberS).Value
	delete(f.items, id)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamoDB) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scanPages++
	var out []map[string]types.AttributeValue
	for _, item := range f.items {
		if f.matches(item, params) {
			out = append(out, item)
		}
	}
	return &dynamodb.ScanOutput{Items: out}, nil
}

func (f *fakeDynamoDB) matches(item map[string]types.AttributeValue, params *dynamodb.ScanInput) bool {
	for placeholder, field := range params.ExpressionAttributeNames {
		valueKey := ":" + strings.TrimPrefix(placeholder, "#")
		want, ok := params.ExpressionAttributeValues[valueKey]
		if !ok {
			continue
		}
		got, ok := item[field]
		if !ok {
			return false
		}
		wantS, wok := want.(*types.AttributeValueMemberS)
		gotS, gok := got.(*types.AttributeValueMemberS)
		if !wok || !gok || wantS.Value != gotS.Value {
			return false
		}
	}
	return true
}

// seed stores an item directly, bypassing the repository.
func (f *fakeDynamoDB) seed(t *testing.T, item content.Item) {
	t.Helper()
	av, err := attributevalue.MarshalMap(map[string]interface{}(item))
	require.NoError(t, err)
	f.items[item.ID()] = av
}

func newsRepo(fake *fakeDynamoDB) *ContentRepository {
	return NewContentRepository(fake, "content-test", content.NewsPolicy(), zap.NewNop())
}

func TestContentRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamoDB()
	repo := newsRepo(fake)

	id, err := repo.Create(ctx, content.Item{
		content.FieldTitle:    "Opening hours",
		content.FieldContent:  "The center opens at nine.",
		content.FieldCategory: "센터소식",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	item, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Equal(t, id, item.ID())
	assert.Equal(t, content.TypeNews, item.ContentType())
	assert.Equal(t, "Opening hours", item.Title())
	assert.Equal(t, "센터소식", item.Category())
	assert.Equal(t, content.StatusPublished, item.Status())
	assert.NotEmpty(t, item.CreatedAt())
	assert.Equal(t, item.CreatedAt(), item.UpdatedAt())
}

func TestContentRepositoryGetMissing(t *testing.T) {
	ctx := context.Background()
	repo := newsRepo(newFakeDynamoDB())

	item, err := repo.GetByID(ctx, "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestContentRepositoryTypeIsolation(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamoDB()

	galleryRepo := NewContentRepository(fake, "content-test", content.GalleryPolicy(), zap.NewNop())
	id, err := galleryRepo.Create(ctx, content.Item{
		content.FieldTitle:   "Summer photos",
		content.FieldContent: "Pictures from the trip.",
	})
	require.NoError(t, err)

	// The same id through the news repository must look absent.
	item, err := newsRepo(fake).GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, item)

	item, err = galleryRepo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, item)
}

func TestContentRepositoryUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies whitelisted fields and refreshes updated_at", func(t *testing.T) {
		fake := newFakeDynamoDB()
		repo := newsRepo(fake)

		fake.seed(t, content.Item{
			content.FieldID:          "n1",
			content.FieldContentType: content.TypeNews,
			content.FieldTitle:       "Old title",
			content.FieldStatus:      content.StatusPublished,
			content.FieldCreatedAt:   "2026-01-01T00:00:00.000000Z",
			content.FieldUpdatedAt:   "2026-01-01T00:00:00.000000Z",
		})

		ok, err := repo.Update(ctx, "n1", content.Item{
			content.FieldTitle: "New title",
			"not_updatable":    "ignored",
		})
		require.NoError(t, err)
		assert.True(t, ok)

		item, err := repo.GetByID(ctx, "n1")
		require.NoError(t, err)
		assert.Equal(t, "New title", item.Title())
		assert.NotContains(t, item, "not_updatable")
		assert.NotEqual(t, "2026-01-01T00:00:00.000000Z", item.UpdatedAt())
		assert.Equal(t, "2026-01-01T00:00:00.000000Z", item.CreatedAt())
	})

	t.Run("no whitelisted fields succeeds without touching storage", func(t *testing.T) {
		fake := newFakeDynamoDB()
		repo := newsRepo(fake)

		fake.seed(t, content.Item{
			content.FieldID:          "n1",
			content.FieldContentType: content.TypeNews,
			content.FieldStatus:      content.StatusPublished,
			content.FieldUpdatedAt:   "2026-01-01T00:00:00.000000Z",
		})

		ok, err := repo.Update(ctx, "n1", content.Item{"unrelated": "value"})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Zero(t, fake.updateCalls)

		item, err := repo.GetByID(ctx, "n1")
		require.NoError(t, err)
		assert.Equal(t, "2026-01-01T00:00:00.000000Z", item.UpdatedAt())
	})

	t.Run("missing id returns false without error", func(t *testing.T) {
		repo := newsRepo(newFakeDynamoDB())

		ok, err := repo.Update(ctx, "missing", content.Item{content.FieldTitle: "x"})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestContentRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamoDB()
	repo := newsRepo(fake)

	fake.seed(t, content.Item{
		content.FieldID:          "n1",
		content.FieldContentType: content.TypeNews,
		content.FieldStatus:      content.StatusPublished,
	})

	ok, err := repo.Delete(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, fake.deleteCalls)

	// Deleting again reports absent rather than failing.
	ok, err = repo.Delete(ctx, "n1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, fake.deleteCalls)
}

func seedNews(t *testing.T, fake *fakeDynamoDB, id, createdAt, category, status string) {
	t.Helper()
	fake.seed(t, content.Item{
		content.FieldID:          id,
		content.FieldContentType: content.TypeNews,
		content.FieldTitle:       "Title " + id,
		content.FieldCategory:    category,
		content.FieldStatus:      status,
		content.FieldCreatedAt:   createdAt,
	})
}

func TestContentRepositoryList(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamoDB()
	repo := newsRepo(fake)

	seedNews(t, fake, "a", "2026-03-01T10:00:00.000000Z", "기타", content.StatusPublished)
	seedNews(t, fake, "b", "2026-03-03T10:00:00.000000Z", "센터소식", content.StatusPublished)
	seedNews(t, fake, "c", "2026-03-02T10:00:00.000000Z", "기타", content.StatusPublished)
	seedNews(t, fake, "d", "2026-03-04T10:00:00.000000Z", "기타", content.StatusDraft)

	t.Run("returns published items newest first", func(t *testing.T) {
		result, err := repo.List(ctx, ports.ListOptions{})
		require.NoError(t, err)
		require.Len(t, result.Items, 3)

		assert.Equal(t, "b", result.Items[0].ID())
		assert.Equal(t, "c", result.Items[1].ID())
		assert.Equal(t, "a", result.Items[2].ID())
		assert.Equal(t, 3, result.Total)
		assert.Empty(t, result.NextCursor)
	})

	t.Run("filters by category", func(t *testing.T) {
		result, err := repo.List(ctx, ports.ListOptions{Category: "기타"})
		require.NoError(t, err)
		require.Len(t, result.Items, 2)
		assert.Equal(t, "c", result.Items[0].ID())
		assert.Equal(t, "a", result.Items[1].ID())
	})

	t.Run("limit and cursor page through the set", func(t *testing.T) {
		first, err := repo.List(ctx, ports.ListOptions{Limit: 2})
		require.NoError(t, err)
		require.Len(t, first.Items, 2)
		assert.Equal(t, "c", first.NextCursor)
		assert.Equal(t, 3, first.Total)

		second, err := repo.List(ctx, ports.ListOptions{Limit: 2, StartAfter: first.NextCursor})
		require.NoError(t, err)
		require.Len(t, second.Items, 1)
		assert.Equal(t, "a", second.Items[0].ID())
		assert.Empty(t, second.NextCursor)
	})
}

func TestContentRepositoryRecent(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamoDB()
	repo := newsRepo(fake)

	seedNews(t, fake, "a", "2026-03-01T10:00:00.000000Z", "", content.StatusPublished)
	seedNews(t, fake, "b", "2026-03-03T10:00:00.000000Z", "", content.StatusPublished)
	seedNews(t, fake, "c", "2026-03-02T10:00:00.000000Z", "", content.StatusPublished)

	items, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID())
	assert.Equal(t, "c", items[1].ID())
}
