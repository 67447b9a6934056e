package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	models "shop-backend/model"
)

const topRatedKey = "shop:products:top-rated"

// TopRated caches top-rated listings in a single Redis hash, one field per
// requested limit, so that one DEL drops every cached listing. Entries
// expire after ttl, which also bounds how stale a listing written
// concurrently with an invalidation can get.
type TopRated struct {
	rdb redis.Cmdable
	ttl time.Duration
	log zerolog.Logger
}

func NewTopRated(rdb redis.Cmdable, ttl time.Duration, log zerolog.Logger) *TopRated {
	return &TopRated{rdb: rdb, ttl: ttl, log: log}
}

func (c *TopRated) Get(ctx context.Context, limit int) ([]models.Product, bool, error) {
	raw, err := c.rdb.HGet(ctx, topRatedKey, strconv.Itoa(limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read top-rated cache: %w", err)
	}
	var ps []models.Product
	if err := json.Unmarshal(raw, &ps); err != nil {
		c.log.Warn().Err(err).Int("limit", limit).Msg("dropping undecodable top-rated entry")
		return nil, false, nil
	}
	return ps, true, nil
}

func (c *TopRated) Set(ctx context.Context, limit int, ps []models.Product) error {
	b, err := json.Marshal(ps)
	if err != nil {
		return fmt.Errorf("marshal top-rated: %w", err)
	}
	_, err = c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, topRatedKey, strconv.Itoa(limit), b)
		if c.ttl > 0 {
			p.Expire(ctx, topRatedKey, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write top-rated cache: %w", err)
	}
	return nil
}

func (c *TopRated) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, topRatedKey).Err(); err != nil {
		return fmt.Errorf("invalidate top-rated cache: %w", err)
	}
	return nil
}
