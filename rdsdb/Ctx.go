package rdsdb

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

var ErrNoRedis = errors.New("redis client not configured")

// Ctx binds a redis key to typed fields and values
type Ctx[k comparable, v any] struct {
	Rds *redis.Client
	Key string
}

func (ctx *Ctx[k, v]) valid() error {
	if ctx == nil || ctx.Rds == nil {
		return ErrNoRedis
	}
	return nil
}
