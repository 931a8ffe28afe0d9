package valkeydb_test

import (
	"context"
	"os"
	"testing"
	"time"

	"resume-matcher/internal/valkeydb"
)

func setUpTestDB(t *testing.T) *valkeydb.ValkeyClient {

	t.Helper()

	url := os.Getenv("VALKEY_TEST_URL")
	if url == "" {
		t.Skip("VALKEY_TEST_URL not set, skipping integration test")
	}

	ctx := context.Background()

	db, err := valkeydb.New(ctx, url, os.Getenv("VALKEY_TEST_PASSWORD"))

	if err != nil {
		t.Fatalf("failed to connect to test valkey: %v", err)
	}

	t.Cleanup(db.Close)

	return db
}

func TestEnqueueDequeue(t *testing.T) {
	db := setUpTestDB(t)
	ctx := context.Background()

	analysisID := "test_analysis_id"

	if err := db.Enqueue(ctx, analysisID); err != nil {
		t.Fatalf("failed to enqueue analysis: %v", err)
	}

	got, err := db.Dequeue(ctx)
	if err != nil {
		t.Fatalf("failed to dequeue analysis: %v", err)
	}

	if got != analysisID {
		t.Fatalf("expected analysis ID %s, got %s", analysisID, got)
	}
}

func TestCacheResultRoundTrip(t *testing.T) {
	db := setUpTestDB(t)
	ctx := context.Background()

	key := "score:test-cache-key"
	payload := []byte(`{"total_score":55.5}`)

	if err := db.CacheResult(ctx, key, payload, time.Minute); err != nil {
		t.Fatalf("failed to cache result: %v", err)
	}

	got, err := db.CachedResult(ctx, key)
	if err != nil {
		t.Fatalf("failed to read cached result: %v", err)
	}

	if string(got) != string(payload) {
		t.Fatalf("expected payload %s, got %s", payload, got)
	}
}

func TestCachedResultMiss(t *testing.T) {
	db := setUpTestDB(t)
	ctx := context.Background()

	got, err := db.CachedResult(ctx, "score:never-written")
	if err != nil {
		t.Fatalf("cache miss should not be an error, got: %v", err)
	}

	if got != nil {
		t.Fatalf("expected nil payload on cache miss, got %s", got)
	}
}
