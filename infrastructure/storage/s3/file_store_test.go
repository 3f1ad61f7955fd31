package s3

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeS3 struct {
	lastInput *s3.DeleteObjectsInput
	failKeys  map[string]bool
	err       error
}

func (f *fakeS3) DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}

	out := &s3.DeleteObjectsOutput{}
	for _, obj := range params.Delete.Objects {
		key := aws.ToString(obj.Key)
		if f.failKeys[key] {
			out.Errors = append(out.Errors, types.Error{
				Key:     obj.Key,
				Message: aws.String("access denied"),
			})
		} else {
			out.Deleted = append(out.Deleted, types.DeletedObject{Key: obj.Key})
		}
	}
	return out, nil
}

type fakePresigner struct {
	lastInput *s3.PutObjectInput
	err       error
}

func (f *fakePresigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{
		URL:    fmt.Sprintf("https://example.amazonaws.com/%s?signed", aws.ToString(params.Key)),
		Method: "PUT",
	}, nil
}

func newTestStore(client *fakeS3, presigner *fakePresigner) *FileStore {
	return NewFileStore(client, presigner, "media-bucket", zap.NewNop())
}

func TestExtractKey(t *testing.T) {
	store := newTestStore(&fakeS3{}, &fakePresigner{})

	t.Run("virtual-hosted style URL", func(t *testing.T) {
		key := store.ExtractKey("https://media-bucket.s3.amazonaws.com/news/20260301_120000_ab12cd34.jpg")
		assert.Equal(t, "news/20260301_120000_ab12cd34.jpg", key)
	})

	t.Run("path style URL", func(t *testing.T) {
		key := store.ExtractKey("https://s3.amazonaws.com/media-bucket/gallery/photo.png")
		assert.Equal(t, "gallery/photo.png", key)
	})

	t.Run("foreign URL yields empty", func(t *testing.T) {
		assert.Empty(t, store.ExtractKey("https://other-bucket.s3.amazonaws.com/file.jpg"))
		assert.Empty(t, store.ExtractKey("https://cdn.example.com/file.jpg"))
		assert.Empty(t, store.ExtractKey(""))
	})
}

func TestDeleteMany(t *testing.T) {
	ctx := context.Background()

	t.Run("reports per-key outcomes", func(t *testing.T) {
		client := &fakeS3{failKeys: map[string]bool{"news/b.jpg": true}}
		store := newTestStore(client, &fakePresigner{})

		results := store.DeleteMany(ctx, []string{"news/a.jpg", "news/b.jpg"})

		assert.True(t, results["news/a.jpg"])
		assert.False(t, results["news/b.jpg"])
		assert.Equal(t, "media-bucket", aws.ToString(client.lastInput.Bucket))
	})

	t.Run("request failure marks every key failed", func(t *testing.T) {
		client := &fakeS3{err: fmt.Errorf("connection reset")}
		store := newTestStore(client, &fakePresigner{})

		results := store.DeleteMany(ctx, []string{"a", "b"})

		assert.False(t, results["a"])
		assert.False(t, results["b"])
	})

	t.Run("empty input makes no request", func(t *testing.T) {
		client := &fakeS3{}
		store := newTestStore(client, &fakePresigner{})

		results := store.DeleteMany(ctx, nil)

		assert.Empty(t, results)
		assert.Nil(t, client.lastInput)
	})
}

func TestPresignUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("issues key under the content folder", func(t *testing.T) {
		presigner := &fakePresigner{}
		store := newTestStore(&fakeS3{}, presigner)

		upload, err := store.PresignUpload(ctx, "image/jpeg", ".jpg", "news")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(upload.FileKey, "news/"))
		assert.True(t, strings.HasSuffix(upload.FileKey, ".jpg"))
		assert.Contains(t, upload.UploadURL, "signed")
		assert.Equal(t, "https://media-bucket.s3.amazonaws.com/"+upload.FileKey, upload.FileURL)
		assert.Equal(t, 900, upload.ExpiresIn)
		assert.Equal(t, "image/jpeg", aws.ToString(presigner.lastInput.ContentType))
	})

	t.Run("normalizes a bare extension", func(t *testing.T) {
		store := newTestStore(&fakeS3{}, &fakePresigner{})

		upload, err := store.PresignUpload(ctx, "image/png", "png", "gallery")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(upload.FileKey, ".png"))
	})

	t.Run("generated keys do not collide", func(t *testing.T) {
		store := newTestStore(&fakeS3{}, &fakePresigner{})

		first, err := store.PresignUpload(ctx, "image/png", ".png", "news")
		require.NoError(t, err)
		second, err := store.PresignUpload(ctx, "image/png", ".png", "news")
		require.NoError(t, err)

		assert.NotEqual(t, first.FileKey, second.FileKey)
	})

	t.Run("upstream failure surfaces as error", func(t *testing.T) {
		store := newTestStore(&fakeS3{}, &fakePresigner{err: fmt.Errorf("denied")})

		_, err := store.PresignUpload(ctx, "image/png", ".png", "news")
		assert.Error(t, err)
	})
}
