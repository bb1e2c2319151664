package rdsdb

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// CtxString stores one value per field under the key "<Key>:<field>", so every
// field carries its own ttl.
type CtxString[k comparable, v any] struct {
	Ctx[k, v]
}

// StringKey returns typed string keys prefixed by key. rc may be nil, every
// call then returns ErrNoRedis.
func StringKey[k comparable, v any](rc *redis.Client, key string) *CtxString[k, v] {
	return &CtxString[k, v]{Ctx[k, v]{Rds: rc, Key: key}}
}

func (ctx *CtxString[k, v]) keyOf(field k) (string, error) {
	fieldStr, err := ctx.toKeyStr(field)
	if err != nil {
		return "", err
	}
	return ConcatedKeys(ctx.Key, fieldStr), nil
}

// Get returns redis.Nil when the field is missing
func (ctx *CtxString[k, v]) Get(c context.Context, field k) (value v, err error) {
	if err = ctx.valid(); err != nil {
		return value, err
	}
	key, err := ctx.keyOf(field)
	if err != nil {
		return value, err
	}
	data, err := ctx.Rds.Get(c, key).Bytes()
	if err != nil {
		return value, err
	}
	return ctx.toValue(data)
}

// Set stores value, a zero expiration keeps it forever
func (ctx *CtxString[k, v]) Set(c context.Context, field k, value v, expiration time.Duration) error {
	if err := ctx.valid(); err != nil {
		return err
	}
	key, err := ctx.keyOf(field)
	if err != nil {
		return err
	}
	valueStr, err := ctx.toValueStr(value)
	if err != nil {
		return err
	}
	return ctx.Rds.Set(c, key, valueStr, expiration).Err()
}

// Incr adds one to an integer field and returns the new value
func (ctx *CtxString[k, v]) Incr(c context.Context, field k) (int64, error) {
	if err := ctx.valid(); err != nil {
		return 0, err
	}
	key, err := ctx.keyOf(field)
	if err != nil {
		return 0, err
	}
	return ctx.Rds.Incr(c, key).Result()
}
