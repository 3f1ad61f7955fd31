package dynamodb

import (
	"context"
	"sort"
	"time"

	"communityhub/application/ports"
	"communityhub/domain/content"
	apperrors "communityhub/pkg/errors"
	"communityhub/pkg/observability"
	"communityhub/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DynamoDBAPI is the subset of the DynamoDB client the repository uses.
// Tests provide a fake implementation.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// ContentRepository implements ports.ContentRepository over a single shared
// DynamoDB table. All content types coexist in the table; every query this
// repository issues is scoped to its own content_type so an id stored under
// another type is reported as absent, never leaked.
type ContentRepository struct {
	client    DynamoDBAPI
	tableName string
	policy    content.TypePolicy
	logger    *zap.Logger
	metrics   *observability.Metrics
}

var _ ports.ContentRepository = (*ContentRepository)(nil)

// NewContentRepository creates a repository scoped to one content type
func NewContentRepository(client DynamoDBAPI, tableName string, policy content.TypePolicy, logger *zap.Logger) *ContentRepository {
	return &ContentRepository{
		client:    client,
		tableName: tableName,
		policy:    policy,
		logger:    logger,
	}
}

// SetMetrics attaches an operation metrics publisher
func (r *ContentRepository) SetMetrics(metrics *observability.Metrics) {
	r.metrics = metrics
}

// Create persists a new record and returns its generated id. Timestamps and
// the published status are stamped here; the caller's fields pass through.
func (r *ContentRepository) Create(ctx context.Context, data content.Item) (string, error) {
	start := time.Now()

	id := uuid.New().String()
	now := utils.NowTimestamp()

	item := data.Clone()
	for _, field := range r.policy.DefaultFields {
		if _, ok := item[field]; !ok {
			item[field] = ""
		}
	}
	if _, ok := item[content.FieldStatus]; !ok {
		item[content.FieldStatus] = content.StatusPublished
	}
	item[content.FieldID] = id
	item[content.FieldContentType] = r.policy.ContentType
	item[content.FieldCreatedAt] = now
	item[content.FieldUpdatedAt] = now

	av, err := attributevalue.MarshalMap(map[string]interface{}(item))
	if err != nil {
		return "", apperrors.NewDatabaseError("create", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	r.metrics.RecordOperation(ctx, "create", time.Since(start), err)
	if err != nil {
		r.logger.Error("Failed to put item",
			zap.String("contentType", r.policy.ContentType),
			zap.String("id", id),
			zap.Error(err),
		)
		return "", apperrors.NewDatabaseError("create", err)
	}

	r.logger.Info("Item created",
		zap.String("contentType", r.policy.ContentType),
		zap.String("id", id),
	)

	return id, nil
}

// GetByID fetches a record by id. It returns nil for a missing id and for
// an id stored under a different content type.
func (r *ContentRepository) GetByID(ctx context.Context, id string) (content.Item, error) {
	start := time.Now()

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			content.FieldID: &types.AttributeValueMemberS{Value: id},
		},
	})
	r.metrics.RecordOperation(ctx, "get", time.Since(start), err)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get", err)
	}

	if out.Item == nil {
		return nil, nil
	}

	item, err := unmarshalItem(out.Item)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get", err)
	}

	if item.ContentType() != r.policy.ContentType {
		return nil, nil
	}

	return item, nil
}

// Update applies the whitelisted subset of data to an existing record and
// refreshes updated_at. It returns false when the record does not exist.
// When data contains no whitelisted field the call succeeds without
// touching storage, so updated_at keeps its previous value.
func (r *ContentRepository) Update(ctx context.Context, id string, data content.Item) (bool, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	update := expression.UpdateBuilder{}
	touched := 0
	for _, field := range r.policy.UpdatableFields {
		if value, ok := data[field]; ok {
			update = update.Set(expression.Name(field), expression.Value(value))
			touched++
		}
	}
	if touched == 0 {
		return true, nil
	}
	update = update.Set(expression.Name(content.FieldUpdatedAt), expression.Value(utils.NowTimestamp()))

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return false, apperrors.NewDatabaseError("update", err)
	}

	start := time.Now()
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			content.FieldID: &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	r.metrics.RecordOperation(ctx, "update", time.Since(start), err)
	if err != nil {
		r.logger.Error("Failed to update item",
			zap.String("contentType", r.policy.ContentType),
			zap.String("id", id),
			zap.Error(err),
		)
		return false, apperrors.NewDatabaseError("update", err)
	}

	r.logger.Info("Item updated",
		zap.String("contentType", r.policy.ContentType),
		zap.String("id", id),
		zap.Int("fields", touched),
	)

	return true, nil
}

// Delete removes a record. It returns false when the record does not exist;
// deleting an already-deleted id is not an error.
func (r *ContentRepository) Delete(ctx context.Context, id string) (bool, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	start := time.Now()
	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			content.FieldID: &types.AttributeValueMemberS{Value: id},
		},
	})
	r.metrics.RecordOperation(ctx, "delete", time.Since(start), err)
	if err != nil {
		r.logger.Error("Failed to delete item",
			zap.String("contentType", r.policy.ContentType),
			zap.String("id", id),
			zap.Error(err),
		)
		return false, apperrors.NewDatabaseError("delete", err)
	}

	r.logger.Info("Item deleted",
		zap.String("contentType", r.policy.ContentType),
		zap.String("id", id),
	)

	return true, nil
}

// List scans all published records of this content type, optionally
// filtered by category, sorts them by created_at descending and returns up
// to opts.Limit items with a continuation cursor. The scan itself is
// unordered; ordering is always applied here after retrieval.
func (r *ContentRepository) List(ctx context.Context, opts ports.ListOptions) (*ports.ListResult, error) {
	items, err := r.scanPublished(ctx, opts.Category)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt() > items[j].CreatedAt()
	})

	total := len(items)

	if opts.StartAfter != "" {
		from := 0
		for i, item := range items {
			if item.ID() == opts.StartAfter {
				from = i + 1
				break
			}
		}
		items = items[from:]
	}

	nextCursor := ""
	if opts.Limit > 0 && len(items) > opts.Limit {
		items = items[:opts.Limit]
		if len(items) > 0 {
			nextCursor = items[len(items)-1].ID()
		}
	}

	return &ports.ListResult{
		Items:      items,
		NextCursor: nextCursor,
		Total:      total,
	}, nil
}

// Recent returns the newest published items.
func (r *ContentRepository) Recent(ctx context.Context, limit int) ([]content.Item, error) {
	result, err := r.List(ctx, ports.ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

// scanPublished retrieves every published record of this content type,
// following scan pagination until the table is exhausted.
func (r *ContentRepository) scanPublished(ctx context.Context, category string) ([]content.Item, error) {
	filter := expression.Name(content.FieldContentType).Equal(expression.Value(r.policy.ContentType)).
		And(expression.Name(content.FieldStatus).Equal(expression.Value(content.StatusPublished)))
	if category != "" {
		filter = filter.And(expression.Name(content.FieldCategory).Equal(expression.Value(category)))
	}

	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("list", err)
	}

	start := time.Now()
	var items []content.Item
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			r.metrics.RecordOperation(ctx, "list", time.Since(start), err)
			r.logger.Error("Failed to scan items",
				zap.String("contentType", r.policy.ContentType),
				zap.Error(err),
			)
			return nil, apperrors.NewDatabaseError("list", err)
		}

		for _, raw := range out.Items {
			item, err := unmarshalItem(raw)
			if err != nil {
				r.logger.Warn("Skipping unreadable item", zap.Error(err))
				continue
			}
			items = append(items, item)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	r.metrics.RecordOperation(ctx, "list", time.Since(start), nil)
	return items, nil
}

func unmarshalItem(raw map[string]types.AttributeValue) (content.Item, error) {
	var data map[string]interface{}
	if err := attributevalue.UnmarshalMap(raw, &data); err != nil {
		return nil, err
	}
	return content.Item(data), nil
}
