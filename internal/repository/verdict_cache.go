package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/skillchain/originality-service/internal/models"
)

// VerdictCache is a short-TTL idempotency cache for verdicts, keyed by
// assignment and content fingerprint. It is a cache, not a system of record:
// verdict persistence stays with the calling pipeline.
type VerdictCache interface {
	Get(ctx context.Context, assignmentID, fingerprint string) (*models.Verdict, error)
	Set(ctx context.Context, assignmentID, fingerprint string, verdict *models.Verdict) error
}

type verdictCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewVerdictCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) VerdictCache {
	return &verdictCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *verdictCache) key(assignmentID, fingerprint string) string {
	return fmt.Sprintf("verdict:%s:%s", assignmentID, fingerprint)
}

func (c *verdictCache) Get(ctx context.Context, assignmentID, fingerprint string) (*models.Verdict, error) {
	data, err := c.client.Get(ctx, c.key(assignmentID, fingerprint)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var verdict models.Verdict
	if err := json.Unmarshal([]byte(data), &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

func (c *verdictCache) Set(ctx context.Context, assignmentID, fingerprint string, verdict *models.Verdict) error {
	data, err := json.Marshal(verdict)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(assignmentID, fingerprint), data, c.ttl).Err()
}
