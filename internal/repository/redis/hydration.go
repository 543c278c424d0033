package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/snapnutrient/snapnutrient/domain"
	"github.com/snapnutrient/snapnutrient/internal/repository/cache"
)

const (
	KeySignedURL   = "media:url:%s"
	KeyUserProfile = "user:profile:%s"

	// Signed URLs are valid for 24h; caching them a bit shorter keeps a
	// cache hit from ever returning a lapsed signature.
	signedURLTTL = 23 * time.Hour
	profileTTL   = 30 * time.Minute
)

type hydrationCache struct {
	client *redis.Client
}

var _ domain.SignedURLCache = (*hydrationCache)(nil)
var _ domain.ProfileCache = (*hydrationCache)(nil)

// NewHydrationCache creates the cache layer backing feed hydration.
func NewHydrationCache(client *redis.Client) *hydrationCache {
	return &hydrationCache{
		client,
	}
}

func (c *hydrationCache) GetURLs(ctx context.Context, keys []string) (map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cacheKeys := make([]string, len(keys))
	for i, key := range keys {
		cacheKeys[i] = fmt.Sprintf(KeySignedURL, key)
	}

	jsonList, err := c.client.MGet(ctx, cacheKeys...).Result()
	if err != nil {
		return nil, err
	}

	urls := make(map[string]string, len(keys))
	for i, val := range jsonList {
		if val == nil {
			continue
		}
		str, ok := val.(string)
		if !ok {
			continue
		}

		var entry cache.SignedURL
		if err := json.Unmarshal([]byte(str), &entry); err != nil {
			logrus.Warnf("failed to unmarshal cached url, key: %s, err: %v", keys[i], err)
			continue
		}
		if entry.IsExpired() {
			continue
		}
		urls[keys[i]] = entry.URL
	}
	return urls, nil
}

func (c *hydrationCache) SetURLs(ctx context.Context, urls map[string]string) error {
	var errSet error
	for key, url := range urls {
		data, err := json.Marshal(cache.NewSignedURL(url, signedURLTTL))
		if err != nil {
			logrus.Warnf("failed to marshal url for cache, key: %s, err: %v", key, err)
			errSet = err
			continue
		}
		if err := c.client.Set(ctx, fmt.Sprintf(KeySignedURL, key), string(data), signedURLTTL).Err(); err != nil {
			errSet = err
		}
	}
	return errSet
}

func (c *hydrationCache) GetProfile(ctx context.Context, email string) (res domain.UserProfile, err error) {
	data, err := c.client.Get(ctx, fmt.Sprintf(KeyUserProfile, email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return res, domain.ErrCacheMiss
	} else if err != nil {
		return res, err
	}
	if err = json.Unmarshal(data, &res); err != nil {
		return res, err
	}
	return
}

func (c *hydrationCache) SetProfile(ctx context.Context, p domain.UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, fmt.Sprintf(KeyUserProfile, p.Email), data, profileTTL).Err()
}
