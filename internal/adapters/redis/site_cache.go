package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/annotator-store/internal/domain/model"
)

// DefaultSitePrefix namespaces cached site keys.
const DefaultSitePrefix = "site:"

// SiteCache stores Site records as JSON under "site:<id>".
type SiteCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewSiteCache creates a site cache whose entries expire after ttl. A zero
// ttl keeps entries until they are overwritten or deleted.
func NewSiteCache(client redis.UniversalClient, ttl time.Duration) *SiteCache {
	return &SiteCache{client: client, prefix: DefaultSitePrefix, ttl: ttl}
}

func (c *SiteCache) key(id int64) string {
	return c.prefix + strconv.FormatInt(id, 10)
}

// Get returns (nil, nil) on a miss.
func (c *SiteCache) Get(ctx context.Context, id int64) (*model.Site, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var site model.Site
	if err := json.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("unmarshal site: %w", err)
	}
	return &site, nil
}

// Set overwrites the cached copy of site.
func (c *SiteCache) Set(ctx context.Context, site model.Site) error {
	data, err := json.Marshal(site)
	if err != nil {
		return fmt.Errorf("marshal site: %w", err)
	}
	if err := c.client.Set(ctx, c.key(site.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete evicts the site.
func (c *SiteCache) Delete(ctx context.Context, id int64) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
