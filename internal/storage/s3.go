package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"nirvana/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type S3Storage struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3Storage(bucket, region string) (*S3Storage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Storage{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

func (s3s *S3Storage) Store(ctx context.Context, programID uuid.UUID, filename string, contentType string, content io.Reader) (model.ProgramPhoto, error) {
	safeName := sanitizeFilename(filename)
	key := fmt.Sprintf("programs/%s_%s", programID.String(), safeName)

	_, err := s3s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s3s.bucket),
		Key:         aws.String(key),
		Body:        content,
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"program-id":        programID.String(),
			"original-filename": filename,
			"upload-time":       time.Now().Format(time.RFC3339),
		},
	})
	if err != nil {
		return model.ProgramPhoto{}, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return model.ProgramPhoto{
		Key:      key,
		Filename: safeName,
		MimeType: contentType,
	}, nil
}

func (s3s *S3Storage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	result, err := s3s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s3s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if strings.Contains(err.Error(), "NoSuchKey") || strings.Contains(err.Error(), "404") {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to retrieve from S3: %w", err)
	}

	return result.Body, nil
}

func (s3s *S3Storage) Remove(ctx context.Context, key string) error {
	_, err := s3s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s3s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}
