package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/retail/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *mockS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func (m *mockS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadBucketOutput), args.Error(1)
}

func (m *mockS3) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.CreateBucketOutput), args.Error(1)
}

func TestNewS3ImageStorage_Validation(t *testing.T) {
	_, err := NewS3ImageStorage(config.StorageConfig{Driver: "s3"}, zap.NewNop())
	assert.ErrorContains(t, err, "bucket is required")

	_, err = NewS3ImageStorage(config.StorageConfig{S3: config.S3Config{Bucket: "media"}}, zap.NewNop())
	assert.ErrorContains(t, err, "credentials are required")

	s, err := NewS3ImageStorage(config.StorageConfig{S3: config.S3Config{
		Bucket: "media", AccessKeyID: "key", SecretAccessKey: "secret",
		Endpoint: "http://localhost:9000", UsePathStyle: true,
	}}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/media", s.baseURL)
}

func TestDefaultPublicURL(t *testing.T) {
	assert.Equal(t, "https://media.s3.sa-east-1.amazonaws.com",
		defaultPublicURL(config.S3Config{Bucket: "media"}, "sa-east-1"))
}

func TestS3ImageStorage_Put(t *testing.T) {
	client := new(mockS3)
	s := newS3ImageStorage(client, "media", "https://cdn.test/", zap.NewNop())

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Bucket) == "media" &&
			aws.ToString(in.Key) == "products/a.jpg" &&
			aws.ToString(in.ContentType) == "image/jpeg" &&
			string(body) == "data"
	})).Return(&s3.PutObjectOutput{}, nil)

	url, err := s.Put(context.Background(), "products/a.jpg", []byte("data"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/products/a.jpg", url)
	client.AssertExpectations(t)

	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("denied")).Once()
	_, err = s.Put(context.Background(), "products/b.jpg", []byte("data"), "image/jpeg")
	assert.Error(t, err)
}

func TestS3ImageStorage_Delete(t *testing.T) {
	client := new(mockS3)
	s := newS3ImageStorage(client, "media", "https://cdn.test", zap.NewNop())

	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Key) == "categories/c.jpg"
	})).Return(&s3.DeleteObjectOutput{}, nil)

	require.NoError(t, s.Delete(context.Background(), "https://cdn.test/categories/c.jpg"))
	require.NoError(t, s.Delete(context.Background(), "https://elsewhere.test/c.jpg"))
	client.AssertNumberOfCalls(t, "DeleteObject", 1)
}

func TestS3ImageStorage_EnsureBucket(t *testing.T) {
	t.Run("existing bucket", func(t *testing.T) {
		client := new(mockS3)
		client.On("HeadBucket", mock.Anything, mock.Anything).Return(&s3.HeadBucketOutput{}, nil)
		s := newS3ImageStorage(client, "media", "https://cdn.test", nil)

		require.NoError(t, s.EnsureBucket(context.Background()))
		client.AssertNotCalled(t, "CreateBucket", mock.Anything, mock.Anything)
	})

	t.Run("missing bucket is created", func(t *testing.T) {
		client := new(mockS3)
		client.On("HeadBucket", mock.Anything, mock.Anything).Return(nil, &types.NotFound{})
		client.On("CreateBucket", mock.Anything, mock.Anything).Return(&s3.CreateBucketOutput{}, nil)
		s := newS3ImageStorage(client, "media", "https://cdn.test", nil)

		require.NoError(t, s.EnsureBucket(context.Background()))
		client.AssertExpectations(t)
	})

	t.Run("other head errors surface", func(t *testing.T) {
		client := new(mockS3)
		client.On("HeadBucket", mock.Anything, mock.Anything).Return(nil, errors.New("forbidden"))
		s := newS3ImageStorage(client, "media", "https://cdn.test", nil)

		assert.ErrorContains(t, s.EnsureBucket(context.Background()), "forbidden")
	})
}
