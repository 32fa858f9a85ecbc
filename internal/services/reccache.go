package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/envutil"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

// RecommendationCache keeps recent recommendation results in redis. Entries
// are keyed under a generation counter that Invalidate bumps after a
// successful rebuild, so stale graphs never serve from cache without any key
// scanning. A nil client disables caching entirely.
type RecommendationCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

const recCacheVersionKey = "learnpath:rec:ver"

// NewRecommendationCacheFromEnv returns a disabled cache when REDIS_ADDR is
// unset, mirroring how the graph client treats its own backend as optional.
func NewRecommendationCacheFromEnv(baseLog *logger.Logger) *RecommendationCache {
	log := baseLog.With("service", "RecommendationCache")

	addr := envutil.String("REDIS_ADDR", "")
	if addr == "" {
		log.Info("REDIS_ADDR unset, recommendation caching disabled")
		return &RecommendationCache{log: log}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, recommendation caching disabled", "error", err)
		_ = rdb.Close()
		return &RecommendationCache{log: log}
	}

	return &RecommendationCache{
		log: log,
		rdb: rdb,
		ttl: envutil.Duration("REC_CACHE_TTL", 5*time.Minute),
	}
}

func (c *RecommendationCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

func (c *RecommendationCache) key(ctx context.Context, userID uuid.UUID, limit int) (string, error) {
	ver, err := c.rdb.Get(ctx, recCacheVersionKey).Int64()
	if err == goredis.Nil {
		ver = 0
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("learnpath:rec:%d:%s:%d", ver, userID, limit), nil
}

func (c *RecommendationCache) Get(ctx context.Context, userID uuid.UUID, limit int) ([]types.Recommendation, bool) {
	if !c.Enabled() {
		return nil, false
	}
	key, err := c.key(ctx, userID, limit)
	if err != nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var recs []types.Recommendation
	if err := json.Unmarshal(raw, &recs); err != nil {
		c.log.Warn("dropping undecodable cache entry", "key", key, "error", err)
		_ = c.rdb.Del(ctx, key).Err()
		return nil, false
	}
	return recs, true
}

func (c *RecommendationCache) Set(ctx context.Context, userID uuid.UUID, limit int, recs []types.Recommendation) {
	if !c.Enabled() {
		return
	}
	key, err := c.key(ctx, userID, limit)
	if err != nil {
		return
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", "key", key, "error", err)
	}
}

// Invalidate bumps the generation; old-generation entries expire via TTL.
func (c *RecommendationCache) Invalidate(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	if err := c.rdb.Incr(ctx, recCacheVersionKey).Err(); err != nil {
		c.log.Warn("cache invalidation failed", "error", err)
	}
}

func (c *RecommendationCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}
