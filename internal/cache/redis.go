package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// redisClient narrows what NewRedisClient needs so tests can replace the
// constructor.
type redisClient interface {
	Cache
	Ping(ctx context.Context) *redis.StatusCmd
}

var redisNewClient = func(opt *redis.Options) redisClient {
	return redis.NewClient(opt)
}

// NewRedisClient connects and pings; *redis.Client satisfies Cache directly.
func NewRedisClient(addr string, password string, db int) (Cache, error) {
	client := redisNewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
