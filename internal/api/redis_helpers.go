package api

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// LoginLimiter 是登录限流用到的 Redis 命令子集，*redis.Client 直接满足。
type LoginLimiter interface {
	redisRateCounter
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

func incrWithTTL(ctx context.Context, client redisRateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 && ttl > 0 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}

func loginRateKey(ip, email string, now time.Time) string {
	return "rate:login:" + ip + ":" + email + ":" + now.UTC().Format("2006010215")
}

func loginLockKey(email string) string { return "lock:login:" + email }

func loginFailKey(email string) string { return "lock:login:fail:" + email }
