package valkeydb

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

const queueKey = "analysis-queue"

type ValkeyClient struct {
	Client valkey.Client
}

func New(ctx context.Context, address string, password string) (*ValkeyClient, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{address},
		Password:    password,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create Valkey client: %w", err)
	}

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to ping Valkey: %w", err)
	}

	return &ValkeyClient{Client: client}, nil
}

func (v *ValkeyClient) Close() {
	v.Client.Close()
}

// Enqueue pushes an analysis ID onto the work queue for the worker to pick up.
func (v *ValkeyClient) Enqueue(ctx context.Context, analysisID string) error {

	cmd := v.Client.B().Lpush().
		Key(queueKey).
		Element(analysisID).
		Build()

	if _, err := v.Client.Do(ctx, cmd).AsInt64(); err != nil {
		return fmt.Errorf("unable to add analysis (%s) to the queue: %w", analysisID, err)
	}

	return nil
}

// Dequeue blocks until an analysis ID is available.
func (v *ValkeyClient) Dequeue(ctx context.Context) (string, error) {

	cmd := v.Client.B().Brpop().
		Key(queueKey).
		Timeout(0).
		Build()

	res := v.Client.Do(ctx, cmd)

	arr, err := res.AsStrSlice()

	if err != nil {
		return "", fmt.Errorf("failed to parse blocking right pop response: %w", err)
	}

	if len(arr) < 2 {
		return "", fmt.Errorf("unexpected BRPOP response of length %d", len(arr))
	}

	return arr[1], nil
}

// CacheResult stores a computed score payload under the given key with a TTL.
func (v *ValkeyClient) CacheResult(ctx context.Context, key string, payload []byte, ttl time.Duration) error {

	cmd := v.Client.B().Set().
		Key(key).
		Value(string(payload)).
		ExSeconds(int64(ttl.Seconds())).
		Build()

	if err := v.Client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("unable to cache score result under %s: %w", key, err)
	}

	return nil
}

// CachedResult returns the cached payload for key, or nil on a cache miss.
func (v *ValkeyClient) CachedResult(ctx context.Context, key string) ([]byte, error) {

	cmd := v.Client.B().Get().Key(key).Build()

	res := v.Client.Do(ctx, cmd)
	if err := res.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to read cached score under %s: %w", key, err)
	}

	payload, err := res.AsBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to parse cached score under %s: %w", key, err)
	}

	return payload, nil
}
