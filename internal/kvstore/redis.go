package kvstore

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"
)

const DefaultRedisPrefix = "tenanto:"

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Redis stores each entry as a plain string key under a shared prefix so
// several deployments can share one database.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedisClient(options RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     options.Addr,
		Password: options.Password,
		DB:       options.DB,
	})
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (store *Redis) Ping(ctx context.Context) error {
	return store.client.Ping(ctx).Err()
}

func (store *Redis) Close() error {
	return store.client.Close()
}

func (store *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := store.client.Get(ctx, store.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (store *Redis) Set(ctx context.Context, key string, value string) error {
	return store.client.Set(ctx, store.prefix+key, value, 0).Err()
}

func (store *Redis) Delete(ctx context.Context, key string) error {
	return store.client.Del(ctx, store.prefix+key).Err()
}

func (store *Redis) Keys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)
	var cursor uint64
	for {
		batch, next, err := store.client.Scan(ctx, cursor, store.prefix+"*", 200).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range batch {
			keys = append(keys, strings.TrimPrefix(key, store.prefix))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	sort.Strings(keys)
	return keys, nil
}
