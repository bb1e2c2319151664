package httpserve

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	cmap "github.com/orcaman/concurrent-map/v2"
)

func Jwt2Claim(jwtStr string, secret string) (mpclaims jwt.MapClaims, err error) {
	if secret == "" {
		return nil, ErrNoJwtSecret
	}
	keyFunction := func(token *jwt.Token) (value interface{}, err error) {
		return []byte(secret), nil
	}
	var jwtToken *jwt.Token
	jwtToken, err = jwt.ParseWithClaims(jwtStr, jwt.MapClaims{}, keyFunction, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	var ok bool
	if mpclaims, ok = jwtToken.Claims.(jwt.MapClaims); !ok {
		return nil, errors.New("invalid JWT token")
	}
	for k, v := range mpclaims {
		if f64, ok := v.(float64); ok && f64 == float64(int64(f64)) {
			mpclaims[k] = int64(f64)
		}
	}
	//ensure there's exp field in jwt token
	if _, ok := mpclaims["exp"]; !ok {
		mpclaims["exp"] = int64(math.MaxInt64)
	}
	return mpclaims, nil
}

// expiry is the exp claim in unix seconds, fractions kept
func expiry(claims jwt.MapClaims) (float64, bool) {
	switch exp := claims["exp"].(type) {
	case int64:
		return float64(exp), true
	case float64:
		return exp, true
	}
	return 0, false
}

// claimCache maps a secret and raw token to the verified claims, so rotating
// the secret drops every cached token
type claimCache struct {
	cmap.ConcurrentMap[string, jwt.MapClaims]
	now func() time.Time
}

func newClaimCache() *claimCache {
	return &claimCache{ConcurrentMap: cmap.New[jwt.MapClaims](), now: time.Now}
}

// ParseJwtClaim verifies the bearer token of r, verified tokens are cached until
// they expire.
func (c *claimCache) ParseJwtClaim(r *http.Request, secret string) (claims jwt.MapClaims, err error) {
	var ok bool
	jwtStr := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if len(jwtStr) == 0 {
		return nil, ErrNoJwt
	}
	key := secret + "\x00" + jwtStr
	if claims, ok = c.Get(key); ok {
		if exp, ok := expiry(claims); !ok || exp < float64(c.now().UnixNano())/1e9 {
			c.Remove(key)
			return nil, ErrJwtExpired
		}
		return claims, nil
	}
	if claims, err = Jwt2Claim(jwtStr, secret); err != nil {
		return nil, fmt.Errorf("invalid JWT token: %w", err)
	}
	c.Set(key, claims)
	return claims, nil
}

func ConvertMapToJwtString(param map[string]interface{}, secret string) (jwtString string, err error) {
	if secret == "" {
		return "", ErrNoJwtSecret
	}
	claims := jwt.MapClaims{}
	for k, v := range param {
		claims[k] = v
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
