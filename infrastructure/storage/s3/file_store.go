// Package s3 implements file object lifecycle management over AWS S3:
// presigned uploads for new files and best-effort cleanup of files
// referenced by deleted content records.
package s3

import (
	"context"
	"fmt"
	"strings"
	"time"

	"communityhub/application/ports"
	apperrors "communityhub/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// presignDuration limits how long an issued upload URL stays valid.
const presignDuration = 15 * time.Minute

// batchDeleteMax is the S3 DeleteObjects per-request ceiling.
const batchDeleteMax = 1000

// S3API is the subset of the S3 client used by the file store.
type S3API interface {
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// PresignAPI is the subset of the S3 presign client used by the file store.
type PresignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// FileStore implements ports.FileStore against one S3 bucket.
type FileStore struct {
	client    S3API
	presigner PresignAPI
	bucket    string
	logger    *zap.Logger
}

var _ ports.FileStore = (*FileStore)(nil)

// NewFileStore creates a file store for the given bucket
func NewFileStore(client S3API, presigner PresignAPI, bucket string, logger *zap.Logger) *FileStore {
	return &FileStore{
		client:    client,
		presigner: presigner,
		bucket:    bucket,
		logger:    logger,
	}
}

// ExtractKey recovers the object key from a previously issued file URL.
// Both URL conventions are recognized: virtual-hosted style
// (https://{bucket}.{host}/{key}) and path style
// (https://{host}/{bucket}/{key}). URLs pointing elsewhere yield "".
func (f *FileStore) ExtractKey(fileURL string) string {
	if fileURL == "" {
		return ""
	}

	if marker := f.bucket + ".s3.amazonaws.com/"; strings.Contains(fileURL, marker) {
		return strings.SplitN(fileURL, marker, 2)[1]
	}

	if marker := "s3.amazonaws.com/" + f.bucket + "/"; strings.Contains(fileURL, marker) {
		return strings.SplitN(fileURL, marker, 2)[1]
	}

	return ""
}

// DeleteMany removes the given objects in one batch call. The result maps
// every input key to its outcome; a failed batch marks all keys false. The
// call never returns an error: file cleanup is advisory and must not fail
// the content deletion that triggered it.
func (f *FileStore) DeleteMany(ctx context.Context, keys []string) map[string]bool {
	results := make(map[string]bool, len(keys))
	if len(keys) == 0 {
		return results
	}

	batch := keys
	if len(batch) > batchDeleteMax {
		batch = batch[:batchDeleteMax]
	}

	objects := make([]types.ObjectIdentifier, 0, len(batch))
	for _, key := range batch {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
	}

	out, err := f.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(f.bucket),
		Delete: &types.Delete{Objects: objects},
	})
	if err != nil {
		f.logger.Error("Batch delete failed", zap.Error(err), zap.Int("keys", len(keys)))
		for _, key := range keys {
			results[key] = false
		}
		return results
	}

	for _, deleted := range out.Deleted {
		if deleted.Key != nil {
			results[*deleted.Key] = true
		}
	}
	for _, failed := range out.Errors {
		if failed.Key != nil {
			results[*failed.Key] = false
			f.logger.Warn("Failed to delete object",
				zap.String("key", *failed.Key),
				zap.String("message", aws.ToString(failed.Message)),
			)
		}
	}

	// Keys beyond the batch ceiling or missing from the response count
	// as failures.
	for _, key := range keys {
		if _, ok := results[key]; !ok {
			results[key] = false
		}
	}

	return results
}

// PresignUpload issues a presigned PUT URL for a new object. The key is
// generated from the current time and a short unique suffix so client
// uploads never collide.
func (f *FileStore) PresignUpload(ctx context.Context, mimeType, extension, folder string) (*ports.PresignedUpload, error) {
	if folder == "" {
		folder = "uploads"
	}
	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}

	key := fmt.Sprintf("%s/%s_%s%s",
		folder,
		time.Now().UTC().Format("20060102_150405"),
		uuid.New().String()[:8],
		extension,
	)

	req, err := f.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(f.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(mimeType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = presignDuration
	})
	if err != nil {
		return nil, apperrors.NewExternalError("s3", err)
	}

	f.logger.Info("Presigned upload issued", zap.String("key", key))

	return &ports.PresignedUpload{
		UploadURL: req.URL,
		FileKey:   key,
		FileURL:   fmt.Sprintf("https://%s.s3.amazonaws.com/%s", f.bucket, key),
		ExpiresIn: int(presignDuration.Seconds()),
		ExpiresAt: time.Now().Add(presignDuration).UTC().Format(time.RFC3339),
	}, nil
}
