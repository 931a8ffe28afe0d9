package s3_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"resume-matcher/internal/s3"
)

func setUpS3(t *testing.T) (*s3.FileStore, string) {
	t.Helper()

	endpoint := os.Getenv("MINIO_ENDPOINT")
	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	bucket := os.Getenv("MINIO_BUCKET")

	if endpoint == "" || accessKey == "" || secretKey == "" {
		t.Skip("MinIO configuration not set (MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY), skipping integration test")
	}

	if bucket == "" {
		bucket = "resume-bucket"
	}

	ctx := context.Background()

	s3Config := s3.S3Config{
		EndpointURL: endpoint,
		Region:      "us-east-1",
		AccessKey:   accessKey,
		SecretKey:   secretKey,
	}

	s3Store, err := s3.NewFileStore(ctx, s3Config)
	if err != nil {
		t.Fatalf("failed creating FileStore: %v", err)
	}

	return s3Store, bucket
}

// TestUploadDownloadRoundTrip verifies an uploaded resume can be read back.
func TestUploadDownloadRoundTrip(t *testing.T) {
	s3Store, bucket := setUpS3(t)
	ctx := context.Background()

	content := []byte("%PDF-1.4\n%Mock resume content for testing\n%%EOF")
	key := "test-resumes/" + uuid.New().String() + ".pdf"

	location, err := s3Store.Upload(ctx, bytes.NewReader(content), bucket, key, "application/pdf")
	if err != nil {
		t.Fatalf("failed to upload file: %v", err)
	}

	if location == "" {
		t.Fatal("expected a non-empty upload location")
	}

	got, err := s3Store.Download(ctx, bucket, key)
	if err != nil {
		t.Fatalf("failed to download file: %v", err)
	}

	if !bytes.Equal(got, content) {
		t.Fatalf("downloaded content does not match uploaded content")
	}
}

// TestUploadInvalidBucket tests upload to a non-existent bucket.
func TestUploadInvalidBucket(t *testing.T) {
	s3Store, _ := setUpS3(t)
	ctx := context.Background()

	content := []byte("%PDF-1.4\nTest content\n%%EOF")

	invalidBucket := "non-existent-bucket-" + uuid.New().String()

	_, err := s3Store.Upload(ctx, bytes.NewReader(content), invalidBucket, "test-file.pdf", "application/pdf")
	if err == nil {
		t.Error("expected error when uploading to non-existent bucket, got nil")
	}
}

// TestDownloadMissingKey tests download of a key that was never uploaded.
func TestDownloadMissingKey(t *testing.T) {
	s3Store, bucket := setUpS3(t)
	ctx := context.Background()

	_, err := s3Store.Download(ctx, bucket, "test-resumes/missing-"+uuid.New().String()+".pdf")
	if err == nil {
		t.Error("expected error when downloading a missing key, got nil")
	}
}
