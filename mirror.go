package main

import (
	"context"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// mirrorStore keeps a best-effort off-site copy of every stored asset in an
// S3-compatible bucket. Failures are logged and never surfaced to clients;
// local disk remains the source of truth.
type mirrorStore struct {
	client *s3.Client
	bucket string
}

// newMirrorStore returns nil when no mirror bucket is configured.
func newMirrorStore(cfg *Config) *mirrorStore {
	if cfg.MirrorBucket == "" {
		return nil
	}

	log.Printf("[mirror] initializing client, endpoint: %s, bucket: %s", cfg.MirrorEndpoint, cfg.MirrorBucket)

	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(cfg.MirrorEndpoint),
		Region:       "auto",
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.MirrorAccessKey, cfg.MirrorSecretKey, ""),
	})

	return &mirrorStore{client: client, bucket: cfg.MirrorBucket}
}

// put copies one stored file into the bucket under its stored name.
func (m *mirrorStore) put(ctx context.Context, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s for mirroring: %w", path, err)
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(name),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("mirror upload failed: %w", err)
	}

	log.Printf("[mirror] copied %s", name)
	return nil
}

// remove deletes the mirrored copy of a stored name.
func (m *mirrorStore) remove(ctx context.Context, name string) error {
	_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("mirror delete failed: %w", err)
	}

	log.Printf("[mirror] removed %s", name)
	return nil
}
