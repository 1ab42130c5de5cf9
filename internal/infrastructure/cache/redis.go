// Package cache connects to the Redis instance that holds browser sessions, login tokens and
// flash messages.
package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"clinic-booking/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const connectTimeout = 5 * time.Second

// NewRedisClient dials Redis and returns an error when the first ping fails.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  connectTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	logrus.WithFields(logrus.Fields{"addr": addr, "db": cfg.DB}).Info("Connected to Redis")
	return client, nil
}
