package rdsdb

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type CtxHash[k comparable, v any] struct {
	Ctx[k, v]
}

// HashKey returns a typed hash stored at key. rc may be nil, every call then
// returns ErrNoRedis.
func HashKey[k comparable, v any](rc *redis.Client, key string) *CtxHash[k, v] {
	return &CtxHash[k, v]{Ctx[k, v]{Rds: rc, Key: key}}
}

func (ctx *CtxHash[k, v]) HSet(c context.Context, field k, value v) error {
	if err := ctx.valid(); err != nil {
		return err
	}
	fieldStr, err := ctx.toKeyStr(field)
	if err != nil {
		return err
	}
	valueStr, err := ctx.toValueStr(value)
	if err != nil {
		return err
	}
	return ctx.Rds.HSet(c, ctx.Key, fieldStr, valueStr).Err()
}

func (ctx *CtxHash[k, v]) HDel(c context.Context, fields ...k) error {
	if err := ctx.valid(); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	fieldStrs, err := ctx.toKeyStrs(fields...)
	if err != nil {
		return err
	}
	return ctx.Rds.HDel(c, ctx.Key, fieldStrs...).Err()
}

func (ctx *CtxHash[k, v]) HKeys(c context.Context) (fields []k, err error) {
	if err = ctx.valid(); err != nil {
		return nil, err
	}
	keyStrs, err := ctx.Rds.HKeys(c, ctx.Key).Result()
	if err != nil {
		return nil, err
	}
	return ctx.toKeys(keyStrs)
}

// IsMissing reports whether err means the field does not exist
func IsMissing(err error) bool {
	return errors.Is(err, redis.Nil)
}
