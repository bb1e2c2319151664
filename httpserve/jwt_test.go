package httpserve

import (
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJwt2Claim(t *testing.T) {
	tok, err := ConvertMapToJwtString(map[string]interface{}{"sub": "admin", "scope": "*"}, testSecret)
	require.NoError(t, err)

	claims, err := Jwt2Claim(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims["sub"])
	assert.Equal(t, int64(math.MaxInt64), claims["exp"])

	_, err = Jwt2Claim(tok, "other-secret")
	assert.Error(t, err)
	_, err = Jwt2Claim(tok, "")
	assert.ErrorIs(t, err, ErrNoJwtSecret)

	expired, err := ConvertMapToJwtString(map[string]interface{}{"exp": time.Now().Add(-time.Minute).Unix()}, testSecret)
	require.NoError(t, err)
	_, err = Jwt2Claim(expired, testSecret)
	assert.Error(t, err)

	_, err = ConvertMapToJwtString(map[string]interface{}{}, "")
	assert.ErrorIs(t, err, ErrNoJwtSecret)
}

func TestClaimCache(t *testing.T) {
	c := newClaimCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	exp := now.Add(time.Minute).Unix()
	tok, err := ConvertMapToJwtString(map[string]interface{}{"sub": "admin", "exp": exp}, testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/contact", nil)
	_, err = c.ParseJwtClaim(req, testSecret)
	assert.ErrorIs(t, err, ErrNoJwt)

	req.Header.Set("Authorization", "Bearer "+tok)
	claims, err := c.ParseJwtClaim(req, testSecret)
	require.NoError(t, err)
	assert.Equal(t, exp, claims["exp"])
	assert.Equal(t, 1, c.Count())

	// a rotated secret does not reuse the cached claims
	_, err = c.ParseJwtClaim(req, "rotated-secret")
	assert.Error(t, err)

	// cached tokens still expire
	now = now.Add(2 * time.Minute)
	_, err = c.ParseJwtClaim(req, testSecret)
	assert.ErrorIs(t, err, ErrJwtExpired)
	assert.Equal(t, 0, c.Count())
}

func TestClaimCacheFractionalExp(t *testing.T) {
	c := newClaimCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	tok, err := ConvertMapToJwtString(map[string]interface{}{"sub": "admin", "exp": float64(now.Unix()) + 60.5}, testSecret)
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/api/contact", nil)
	req.Header.Set("Authorization", "Bearer "+tok)

	claims, err := c.ParseJwtClaim(req, testSecret)
	require.NoError(t, err)
	assert.Equal(t, float64(now.Unix())+60.5, claims["exp"])

	now = now.Add(2 * time.Minute)
	_, err = c.ParseJwtClaim(req, testSecret)
	assert.ErrorIs(t, err, ErrJwtExpired)
}

func TestMergeJwtParam(t *testing.T) {
	svc := &ReqCtx{Claims: map[string]interface{}{"sub": "admin", "scope": "*"}}

	params := map[string]interface{}{"JwtSub": "spoofed", "email": "a@b.co"}
	svc.MergeJwtParam(params, "*")
	assert.Equal(t, "admin", params["JwtSub"])
	assert.Equal(t, "*", params["JwtScope"])

	params = map[string]interface{}{"JwtSub": "spoofed"}
	svc.MergeJwtParam(params, "sub")
	assert.Equal(t, "admin", params["JwtSub"])
	assert.NotContains(t, params, "JwtScope")

	params = map[string]interface{}{"JwtSub": "spoofed"}
	svc.MergeJwtParam(params, "")
	assert.Empty(t, params)
}
