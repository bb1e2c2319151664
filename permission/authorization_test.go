package permission

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopes(t *testing.T) {
	assert.Equal(t, []string{"contact:list", "rsvp:list"}, Scopes(jwt.MapClaims{"scope": "contact:list  rsvp:list"}))
	assert.Equal(t, []string{"*"}, Scopes(jwt.MapClaims{"scope": []interface{}{"*", 3}}))
	assert.Empty(t, Scopes(jwt.MapClaims{}))
}

func TestIsPermitted(t *testing.T) {
	assert.True(t, IsPermitted(jwt.MapClaims{"scope": "contact:list"}, "contact:list"))
	assert.False(t, IsPermitted(jwt.MapClaims{"scope": "contact:list"}, "rsvp:list"))
	assert.True(t, IsPermitted(jwt.MapClaims{"scope": "*"}, "rsvp:list"))
	assert.False(t, IsPermitted(nil, "rsvp:list"))
}

func TestSwitchOff(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { permitmap.Load().Clear() })

	admin := jwt.MapClaims{"scope": "*"}
	require.NoError(t, SwitchOff(ctx, rc, "contact:update"))
	assert.False(t, IsPermitted(admin, "contact:update"))
	assert.True(t, mr.Exists(PermissionKey))

	// switches removed in redis are lifted on the next load
	mr.HDel(PermissionKey, "contact:update::off")
	require.NoError(t, LoadPermissionTable(ctx, rc))
	assert.True(t, IsPermitted(admin, "contact:update"))

	mr.HSet(PermissionKey, "rsvp:list::off", "2025-01-01 00:00:00")
	require.NoError(t, LoadPermissionTable(ctx, rc))
	assert.False(t, IsPermitted(admin, "rsvp:list"))
}

func TestSwitchOn(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { permitmap.Load().Clear() })

	admin := jwt.MapClaims{"scope": "*"}
	require.NoError(t, SwitchOff(ctx, rc, "rsvp:list"))
	require.NoError(t, SwitchOn(ctx, rc, "rsvp:list"))
	assert.True(t, IsPermitted(admin, "rsvp:list"))
	require.NoError(t, LoadPermissionTable(ctx, rc))
	assert.True(t, IsPermitted(admin, "rsvp:list"))
}

func TestReloadWhileChecking(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { permitmap.Load().Clear() })
	mr.HSet(PermissionKey, "contact:list::off", "2025-01-01 00:00:00")

	admin := jwt.MapClaims{"scope": "*"}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			assert.NoError(t, LoadPermissionTable(ctx, rc))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			IsPermitted(admin, "contact:list")
		}
	}()
	wg.Wait()
	assert.False(t, IsPermitted(admin, "contact:list"))
	assert.True(t, IsPermitted(admin, "rsvp:list"))
}
