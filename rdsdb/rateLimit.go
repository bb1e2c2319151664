package rdsdb

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a sliding window limiter. Each hit is a member of a sorted set
// scored by its unix milli time, members older than the window are removed.
type RateLimiter struct {
	Rds    *redis.Client
	Prefix string
	Limit  int64
	Window time.Duration
	now    func() time.Time
}

func NewRateLimiter(rc *redis.Client, prefix string, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{Rds: rc, Prefix: prefix, Limit: limit, Window: window, now: time.Now}
}

// Allow records a hit of who and reports whether it is within the limit.
// A limiter without redis or with Limit <= 0 allows everything.
func (l *RateLimiter) Allow(c context.Context, who string) (ok bool, err error) {
	if l == nil || l.Rds == nil || l.Limit <= 0 {
		return true, nil
	}
	var (
		now    = l.now().UnixMilli()
		key    = ConcatedKeys(l.Prefix, who)
		member = strconv.FormatInt(now, 10) + ":" + uuid.NewString()
		card   *redis.IntCmd
	)
	_, err = l.Rds.TxPipelined(c, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(c, key, "0", strconv.FormatInt(now-l.Window.Milliseconds(), 10))
		pipe.ZAdd(c, key, redis.Z{Score: float64(now), Member: member})
		card = pipe.ZCard(c, key)
		pipe.PExpire(c, key, l.Window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return card.Val() <= l.Limit, nil
}
