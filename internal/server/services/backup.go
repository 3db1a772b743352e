package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/finsync/internal/logging"
	sc "github.com/dmitrijs2005/finsync/internal/server/config"
	"github.com/dmitrijs2005/finsync/internal/server/models"
	"github.com/dmitrijs2005/finsync/internal/server/repositories/documents"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// ObjectUploader is the part of *s3.Client used for backups.
type ObjectUploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds an S3 client for an S3-compatible endpoint (MinIO
// included) with static credentials and path-style addressing.
func NewS3Client(ctx context.Context, cfg *sc.Config) (*s3.Client, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	}), nil
}

// Backup is the exported JSON document.
type Backup struct {
	UserID      string                     `json:"userId"`
	ExportedAt  int64                      `json:"exportedAt"`
	Collections map[string][]models.Record `json:"collections"`
}

// BackupService exports a user's collections to object storage.
type BackupService struct {
	store    documents.Store
	uploader ObjectUploader
	bucket   string
	now      func() time.Time
	logger   logging.Logger
}

func NewBackupService(store documents.Store, uploader ObjectUploader, bucket string, logger logging.Logger) *BackupService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &BackupService{store: store, uploader: uploader, bucket: bucket, now: time.Now, logger: logger}
}

// BackupKey returns a fresh object key under the user's backup prefix.
func BackupKey(userID string, t time.Time) string {
	return fmt.Sprintf("users/%s/backups/%04d/%02d/%02d/%s.json",
		userID, t.Year(), int(t.Month()), t.Day(), uuid.New())
}

// Export reads every collection of the user and uploads them as one JSON
// object. It is read-only towards the store: no timestamps are backfilled.
func (s *BackupService) Export(ctx context.Context, userID string) (string, error) {
	now := s.now().UTC()
	backup := Backup{
		UserID:      userID,
		ExportedAt:  now.UnixMilli(),
		Collections: make(map[string][]models.Record, len(models.Collections())),
	}

	for _, c := range models.Collections() {
		docs, err := s.store.ListAll(ctx, userID, c.String())
		if err != nil {
			return "", fmt.Errorf("export %s: %w", c, err)
		}
		recs := make([]models.Record, 0, len(docs))
		for _, d := range docs {
			recs = append(recs, models.RecordFromDocument(d.ID, d.Data))
		}
		backup.Collections[c.String()] = recs
	}

	body, err := json.Marshal(backup)
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}

	key := BackupKey(userID, now)
	_, err = s.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload backup: %w", err)
	}

	s.logger.Info(ctx, "backup exported", "key", key, "bytes", len(body))
	return key, nil
}
