package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/storefront/internal/domain/cart"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// CartCache 购物车读缓存（Cache-Aside）
// Key：cart:{user_id}存购物车JSON，cart:{user_id}:ver存版本号。
// 写路径删除缓存并换版本号，读路径按版本号条件回填。
type CartCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartCache 创建购物车缓存
func NewCartCache(client *redis.Client, ttl time.Duration) *CartCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CartCache{client: client, ttl: ttl}
}

var _ cart.Cache = (*CartCache)(nil)

func cartKey(userID uint) string {
	return fmt.Sprintf("cart:%d", userID)
}

func cartVersionKey(userID uint) string {
	return fmt.Sprintf("cart:%d:ver", userID)
}

// setIfVersion KEYS[1]=cart KEYS[2]=ver ARGV[1]=期望版本 ARGV[2]=JSON ARGV[3]=TTL毫秒
var setIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or ''
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// Get 未命中返回cart.ErrCacheMiss
func (c *CartCache) Get(ctx context.Context, userID uint) (*cart.Cart, error) {
	data, err := c.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cart.ErrCacheMiss
		}
		return nil, apperrors.ErrRedisError.WithErr(err)
	}

	var result cart.Cart
	if err := json.Unmarshal(data, &result); err != nil {
		// 脏数据直接删掉，按未命中处理
		_ = c.client.Del(ctx, cartKey(userID)).Err()
		return nil, cart.ErrCacheMiss
	}
	if result.Items == nil {
		result.Items = []cart.Line{}
	}
	return &result, nil
}

func (c *CartCache) Version(ctx context.Context, userID uint) (string, error) {
	v, err := c.client.Get(ctx, cartVersionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.ErrRedisError.WithErr(err)
	}
	return v, nil
}

// SetIfVersion 比较版本号和写入在同一个Lua脚本里完成，TTL加随机抖动避免同时过期
func (c *CartCache) SetIfVersion(ctx context.Context, value *cart.Cart, version string) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, apperrors.Wrap(err, "序列化购物车失败")
	}

	keys := []string{cartKey(value.UserID), cartVersionKey(value.UserID)}
	n, err := setIfVersion.Run(ctx, c.client, keys, version, data, c.jitteredTTL().Milliseconds()).Int64()
	if err != nil {
		return false, apperrors.ErrRedisError.WithErr(err)
	}
	return n == 1, nil
}

// Invalidate 删除缓存并写入新的版本号
// 版本号用uuid而不是自增，版本key过期重建后也不会与旧值重复
func (c *CartCache) Invalidate(ctx context.Context, userID uint) error {
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, cartVersionKey(userID), uuid.NewString(), 2*c.ttl)
	pipe.Del(ctx, cartKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.ErrRedisError.WithErr(err)
	}
	return nil
}

func (c *CartCache) jitteredTTL() time.Duration {
	jitter := c.ttl / 10
	if jitter <= 0 {
		return c.ttl
	}
	return c.ttl + time.Duration(rand.Int64N(int64(jitter)))
}
