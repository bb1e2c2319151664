package permission

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aandrx/portfolio/dlog"
	"github.com/aandrx/portfolio/rdsdb"
	"github.com/golang-jwt/jwt/v5"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/redis/go-redis/v9"
)

// PermissionKey is the redis hash holding "<operation>::off" switches
const PermissionKey = "_permissions"

type table = cmap.ConcurrentMap[string, bool]

// permitmap is replaced whole on every load, readers never see a half filled table
var permitmap atomic.Pointer[table]

func init() {
	t := cmap.New[bool]()
	permitmap.Store(&t)
}

// IsPermitted reports whether claims grant operation. The "scope" claim lists
// operations, "*" grants all. An operation switched off in redis is denied to
// every token.
func IsPermitted(claims jwt.MapClaims, operation string) (ok bool) {
	//blacklist first
	if _, off := permitmap.Load().Get(operation + "::off"); off {
		return false
	}
	for _, scope := range Scopes(claims) {
		if scope == "*" || scope == operation {
			return true
		}
	}
	return false
}

// Scopes reads the "scope" claim, either a space separated string or a list.
func Scopes(claims jwt.MapClaims) (scopes []string) {
	switch v := claims["scope"].(type) {
	case string:
		return strings.Fields(v)
	case []string:
		return v
	case []interface{}:
		for _, s := range v {
			if str, ok := s.(string); ok {
				scopes = append(scopes, str)
			}
		}
	}
	return scopes
}

// SwitchOff denies operation to all tokens until SwitchOn lifts it.
func SwitchOff(ctx context.Context, rc *redis.Client, operation string) error {
	key := operation + "::off"
	permitmap.Load().Set(key, true)
	return rdsdb.HashKey[string, string](rc, PermissionKey).HSet(ctx, key, time.Now().Format("2006-01-02 15:04:05"))
}

// SwitchOn lifts a SwitchOff. Other instances follow on their next load.
func SwitchOn(ctx context.Context, rc *redis.Client, operation string) error {
	key := operation + "::off"
	permitmap.Load().Remove(key)
	return rdsdb.HashKey[string, string](rc, PermissionKey).HDel(ctx, key)
}

var configurationLoaded atomic.Bool

// LoadPermissionTable replaces the switch table with the fields found in redis.
func LoadPermissionTable(ctx context.Context, rc *redis.Client) error {
	_permitmap := cmap.New[bool]()
	keys, err := rdsdb.HashKey[string, string](rc, PermissionKey).HKeys(ctx)
	// show log if it is the first time to load
	if configurationLoaded.CompareAndSwap(false, true) {
		if err != nil {
			dlog.Warn().AnErr("permission loading from redis failed", err).Send()
		} else {
			dlog.Info().Int("switches", len(keys)).Msg("permission loaded from redis")
		}
	}
	if err != nil {
		return err
	}
	for _, key := range keys {
		_permitmap.Set(key, true)
	}
	permitmap.Store(&_permitmap)
	return nil
}

// KeepLoading reloads the table every interval until ctx is done.
func KeepLoading(ctx context.Context, rc *redis.Client, interval time.Duration) {
	if rc == nil {
		return
	}
	LoadPermissionTable(ctx, rc)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				LoadPermissionTable(ctx, rc)
			}
		}
	}()
}
