// utils/blobstore.go
package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"task-reward-system/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlobStore is the opaque versioned store profile snapshots are persisted
// to. The blob's contents are the core's business, not the store's.
// Retrieve returns (nil, 0, nil) when the key has never been written.
type BlobStore interface {
	Store(ctx context.Context, key string, blob []byte, version int64) error
	Retrieve(ctx context.Context, key string) ([]byte, int64, error)
}

// GormBlobStore is the default store: one upserted row per key.
type GormBlobStore struct {
	DB *gorm.DB
}

func NewGormBlobStore(db *gorm.DB) *GormBlobStore {
	return &GormBlobStore{DB: db}
}

func (s *GormBlobStore) Store(ctx context.Context, key string, blob []byte, version int64) error {
	rec := models.SnapshotRecord{Key: key, Version: version, Blob: blob}
	return s.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"version", "blob", "updated_at"}),
		},
	).Create(&rec).Error
}

func (s *GormBlobStore) Retrieve(ctx context.Context, key string) ([]byte, int64, error) {
	var rec models.SnapshotRecord
	if err := s.DB.WithContext(ctx).Where("key = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	return rec.Blob, rec.Version, nil
}

// S3BlobStore keeps snapshots in an R2/S3 bucket, one object per key, with
// the version carried in object metadata.
type S3BlobStore struct {
	client *s3.Client
	bucket string
}

// NewS3BlobStore builds the client from the R2 environment, same wiring as
// the upload path: CLOUDFLARE_ACCOUNT_ID, R2_ACCESS_KEY_ID,
// R2_ACCESS_KEY_SECRET, R2_BUCKET_NAME.
func NewS3BlobStore(ctx context.Context) (*S3BlobStore, error) {
	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")
	bucket := os.Getenv("R2_BUCKET_NAME")
	if accountID == "" || accessKeyID == "" || accessKeySecret == "" || bucket == "" {
		return nil, fmt.Errorf("R2 blob store requires CLOUDFLARE_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_ACCESS_KEY_SECRET and R2_BUCKET_NAME")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	return &S3BlobStore{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

func (s *S3BlobStore) Store(ctx context.Context, key string, blob []byte, version int64) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(blob),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"version": strconv.FormatInt(version, 10),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to store blob %s: %w", key, err)
	}
	return nil
}

func (s *S3BlobStore) Retrieve(ctx context.Context, key string) ([]byte, int64, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to retrieve blob %s: %w", key, err)
	}
	defer out.Body.Close()

	blob, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read blob %s: %w", key, err)
	}

	var version int64
	if v, ok := out.Metadata["version"]; ok {
		version, _ = strconv.ParseInt(v, 10, 64)
	}
	return blob, version, nil
}
