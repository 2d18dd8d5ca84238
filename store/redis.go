package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/slatekit/core"
)

// RedisStore 是 Redis 实现的 KeyValueStore。
// 生产环境使用，支持 TTL、ZSet（热度计数/时间线）与 Hash（策略表）。
type RedisStore struct {
	client *redis.Client
	name   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

func NewRedisStore(cfg *RedisConfig) *RedisStore {
	if cfg == nil {
		cfg = &RedisConfig{Addr: "localhost:6379"}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	return &RedisStore{client: client, name: "redis"}
}

// NewRedisStoreWithClient 复用外部已建立的连接（连接池共享场景）。
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, name: "redis"}
}

func (r *RedisStore) Name() string { return r.name }

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrStoreNotFound
		}
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, err.Error())
	}
	return val, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	var expire time.Duration
	if len(ttl) > 0 && ttl[0] > 0 {
		expire = time.Duration(ttl[0]) * time.Second
	}
	if err := r.client.Set(ctx, key, value, expire).Err(); err != nil {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, err.Error())
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, err.Error())
	}
	return nil
}

func (r *RedisStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	if len(keys) == 0 {
		return map[string][]byte{}, nil
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, err.Error())
	}
	result := make(map[string][]byte, len(keys))
	for i, v := range vals {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			result[keys[i]] = []byte(s)
		}
	}
	return result, nil
}

func (r *RedisStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	if len(kvs) == 0 {
		return nil
	}
	var expire time.Duration
	if len(ttl) > 0 && ttl[0] > 0 {
		expire = time.Duration(ttl[0]) * time.Second
	}
	pipe := r.client.Pipeline()
	for k, v := range kvs {
		pipe.Set(ctx, k, v, expire)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, err.Error())
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ core.KeyValueStore = (*RedisStore)(nil)

func (r *RedisStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	err := r.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
	if err != nil {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, err.Error())
	}
	return nil
}

func (r *RedisStore) ZIncrBy(ctx context.Context, key string, increment float64, member string) (float64, error) {
	val, err := r.client.ZIncrBy(ctx, key, increment, member).Result()
	if err != nil {
		return 0, core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, err.Error())
	}
	return val, nil
}

func (r *RedisStore) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	vals, err := r.client.ZRevRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, err.Error())
	}
	return vals, nil
}

func (r *RedisStore) ZScore(ctx context.Context, key string, member string) (float64, error) {
	score, err := r.client.ZScore(ctx, key, member).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, core.ErrStoreNotFound
		}
		return 0, core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, err.Error())
	}
	return score, nil
}

func (r *RedisStore) HGet(ctx context.Context, key, field string) ([]byte, error) {
	val, err := r.client.HGet(ctx, key, field).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrStoreNotFound
		}
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, err.Error())
	}
	return val, nil
}

func (r *RedisStore) HSet(ctx context.Context, key, field string, value []byte) error {
	if err := r.client.HSet(ctx, key, field, value).Err(); err != nil {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, err.Error())
	}
	return nil
}

func (r *RedisStore) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	vals, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, err.Error())
	}
	result := make(map[string][]byte, len(vals))
	for k, v := range vals {
		result[k] = []byte(v)
	}
	return result, nil
}
