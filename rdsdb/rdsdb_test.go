package rdsdb

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counts struct {
	AttendingCount int64 `msgpack:"attendingCount"`
	TotalGuests    int64 `msgpack:"totalGuests"`
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestStringStructValues(t *testing.T) {
	ctx := context.Background()
	mr, rc := newRedis(t)
	s := StringKey[string, *counts](rc, "rsvpcount")

	_, err := s.Get(ctx, "opening")
	assert.True(t, IsMissing(err))

	require.NoError(t, s.Set(ctx, "opening", &counts{AttendingCount: 2, TotalGuests: 5}, time.Minute))
	got, err := s.Get(ctx, "opening")
	require.NoError(t, err)
	assert.Equal(t, &counts{AttendingCount: 2, TotalGuests: 5}, got)
	assert.Equal(t, time.Minute, mr.TTL("rsvpcount:opening"))

	// fields expire independently
	require.NoError(t, s.Set(ctx, "gala", &counts{}, 0))
	assert.Zero(t, mr.TTL("rsvpcount:gala"))
	assert.Equal(t, time.Minute, mr.TTL("rsvpcount:opening"))
}

func TestStringIncrReadable(t *testing.T) {
	ctx := context.Background()
	mr, rc := newRedis(t)
	s := StringKey[int, int64](rc, "views")

	n, err := s.Incr(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = s.Incr(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	v, err := mr.Get("views:5")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
	got, err := s.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)
}

func TestHashSetDel(t *testing.T) {
	ctx := context.Background()
	mr, rc := newRedis(t)
	h := HashKey[string, int64](rc, "switches")

	require.NoError(t, h.HSet(ctx, "a", 42))
	assert.Equal(t, "42", mr.HGet("switches", "a"))
	require.NoError(t, h.HDel(ctx, "a"))
	require.NoError(t, h.HDel(ctx))
	assert.False(t, mr.Exists("switches"))
}

func TestNilRedis(t *testing.T) {
	ctx := context.Background()
	h := HashKey[string, string](nil, "k")
	assert.ErrorIs(t, h.HSet(ctx, "a", "b"), ErrNoRedis)
	assert.ErrorIs(t, h.HDel(ctx, "a"), ErrNoRedis)

	s := StringKey[string, string](nil, "k")
	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNoRedis)
	assert.ErrorIs(t, s.Set(ctx, "a", "b", 0), ErrNoRedis)
	_, err = s.Incr(ctx, "a")
	assert.ErrorIs(t, err, ErrNoRedis)
}

func TestConcatedKeys(t *testing.T) {
	assert.Equal(t, "ratelimit:1.2.3.4", ConcatedKeys("ratelimit", "1.2.3.4"))
	assert.Equal(t, "a:3:2.5", ConcatedKeys("a", float64(3), 2.5))
}

func TestRateLimiter(t *testing.T) {
	ctx := context.Background()
	_, rc := newRedis(t)
	l := NewRateLimiter(rc, "ratelimit:form", 2, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok, "third hit within the window")

	ok, err = l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok, "other ips have their own window")

	now = now.Add(2 * time.Minute)
	ok, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok, "window slid past old hits")
}

func TestRateLimiterDisabled(t *testing.T) {
	ok, err := NewRateLimiter(nil, "x", 1, time.Minute).Allow(context.Background(), "ip")
	require.NoError(t, err)
	assert.True(t, ok)

	var nilLimiter *RateLimiter
	ok, err = nilLimiter.Allow(context.Background(), "ip")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashKeys(t *testing.T) {
	ctx := context.Background()
	_, rc := newRedis(t)
	h := HashKey[int, string](rc, "numbered")
	require.NoError(t, h.HSet(ctx, 3, "three"))
	require.NoError(t, h.HSet(ctx, 7, "seven"))

	keys, err := h.HKeys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{3, 7}, keys)

	_, err = HashKey[string, string](nil, "x").HKeys(ctx)
	assert.ErrorIs(t, err, ErrNoRedis)
}
