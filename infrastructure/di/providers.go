package di

import (
	"context"
	"fmt"

	"communityhub/application/ports"
	"communityhub/application/services"
	"communityhub/domain/content"
	"communityhub/infrastructure/config"
	"communityhub/infrastructure/messaging/eventbridge"
	"communityhub/infrastructure/persistence/dynamodb"
	"communityhub/infrastructure/storage/s3"
	"communityhub/pkg/auth"
	"communityhub/pkg/errors"
	"communityhub/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client. A non-empty endpoint in
// the configuration points the client at a local DynamoDB.
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	if cfg.DynamoDBEndpoint != "" {
		return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		})
	}
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideS3Client creates an S3 client
func ProvideS3Client(awsCfg aws.Config) *awss3.Client {
	return awss3.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideCategoryRegistry creates the category registry
func ProvideCategoryRegistry() content.Registry {
	return content.DefaultRegistry()
}

// ProvideMetrics creates a metrics recorder, or nil when metrics are off.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	namespace := fmt.Sprintf("CommunityHub/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideTracer creates an X-Ray tracer, or nil when tracing is off.
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	if !cfg.EnableTracing {
		return nil
	}
	return observability.NewTracer("communityhub")
}

// ProvideFileStore creates the S3-backed file store
func ProvideFileStore(client *awss3.Client, cfg *config.Config, logger *zap.Logger) ports.FileStore {
	presigner := awss3.NewPresignClient(client)
	return s3.NewFileStore(client, presigner, cfg.FileBucket, logger)
}

// ProvideEventPublisher creates the domain event publisher, or nil when no
// event bus is configured.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if !cfg.EnableEvents {
		return nil
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideAuthService creates the admin auth service
func ProvideAuthService(cfg *config.Config, logger *zap.Logger) (*services.AuthService, error) {
	return services.NewAuthService(
		cfg.AdminUsername,
		cfg.AdminPassword,
		auth.JWTConfig{
			SecretKey: cfg.JWTSecret,
			Issuer:    cfg.JWTIssuer,
			Expiry:    cfg.TokenExpiry,
		},
		logger,
	)
}

// ProvideErrorHandler creates the HTTP error handler
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *errors.ErrorHandler {
	return errors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// newContentService wires one content type end to end.
func newContentService(
	policy content.TypePolicy,
	registry content.Registry,
	client *awsdynamodb.Client,
	files ports.FileStore,
	events ports.EventPublisher,
	metrics *observability.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) *services.ContentService {
	repo := dynamodb.NewContentRepository(client, cfg.DynamoDBTable, policy, logger)
	repo.SetMetrics(metrics)

	svc := services.NewContentService(policy, registry, repo, files, logger)
	if events != nil {
		svc.SetEventPublisher(events)
	}
	return svc
}

// ContentServices maps each content type to its service.
type ContentServices map[string]*services.ContentService

// Get returns the service for a content type, or nil for unknown types.
func (cs ContentServices) Get(contentType string) *services.ContentService {
	return cs[contentType]
}

// ProvideContentServices wires one service per supported content type.
func ProvideContentServices(
	registry content.Registry,
	client *awsdynamodb.Client,
	files ports.FileStore,
	events ports.EventPublisher,
	metrics *observability.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) ContentServices {
	result := ContentServices{}
	for _, policy := range []content.TypePolicy{
		content.NewsPolicy(),
		content.GalleryPolicy(),
		content.BoardPolicy(),
	} {
		result[policy.ContentType] = newContentService(policy, registry, client, files, events, metrics, cfg, logger)
	}
	return result
}
