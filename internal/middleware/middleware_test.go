package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-management/internal/config"
	"github.com/iliyamo/hotel-management/internal/utils"
)

const testSecret = "test-secret"

func do(e *echo.Echo, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func bearer(t *testing.T, c utils.Claims) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, c, time.Hour, time.Now())
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func identityEcho() *echo.Echo {
	e := echo.New()
	e.Use(JWTAuth(testSecret), Tenant(zap.NewNop()))
	e.GET("/whoami", func(c echo.Context) error {
		uid, _ := UserID(c)
		return c.JSON(http.StatusOK, echo.Map{"user": uid, "role": Role(c), "tenant": TenantFrom(c).String()})
	})
	g := e.Group("/staff", RequireRole("staff", "admin"))
	g.GET("", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	return e
}

func TestJWTAuthOptional(t *testing.T) {
	e := identityEcho()

	rec := do(e, http.MethodGet, "/whoami", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":0,"role":"","tenant":""}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/whoami", map[string]string{
		echo.HeaderAuthorization: bearer(t, utils.Claims{UserID: 7, Role: "staff", HotelID: "1"}),
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":7,"role":"staff","tenant":"1"}`, rec.Body.String())
}

func TestJWTAuthRejectsBadTokens(t *testing.T) {
	e := identityEcho()

	for _, h := range []string{"Bearer not-a-token", "Basic dXNlcjpwYXNz"} {
		rec := do(e, http.MethodGet, "/whoami", map[string]string{echo.HeaderAuthorization: h})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, h)
		assert.Contains(t, rec.Body.String(), `"code":"Unauthorized"`)
	}

	other, err := utils.NewAccessToken("other-secret", utils.Claims{UserID: 1}, time.Hour, time.Now())
	require.NoError(t, err)
	rec := do(e, http.MethodGet, "/whoami", map[string]string{echo.HeaderAuthorization: "Bearer " + other.Token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTenantResolution(t *testing.T) {
	e := identityEcho()

	rec := do(e, http.MethodGet, "/whoami", map[string]string{"X-Hotel-Id": " 3 "})
	assert.JSONEq(t, `{"user":0,"role":"","tenant":"3"}`, rec.Body.String())

	auth := bearer(t, utils.Claims{UserID: 7, Role: "staff", HotelID: "1"})
	rec = do(e, http.MethodGet, "/whoami", map[string]string{echo.HeaderAuthorization: auth, "X-Hotel-Id": "1"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/whoami", map[string]string{echo.HeaderAuthorization: auth, "X-Hotel-Id": "2"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"Forbidden"`)

	// a token without hotel leaves the header in charge
	auth = bearer(t, utils.Claims{UserID: 1, Role: "admin"})
	rec = do(e, http.MethodGet, "/whoami", map[string]string{echo.HeaderAuthorization: auth, "X-Hotel-Id": "2"})
	assert.JSONEq(t, `{"user":1,"role":"admin","tenant":"2"}`, rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	e := identityEcho()

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/staff", nil).Code)

	guest := bearer(t, utils.Claims{UserID: 2, Role: "guest"})
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodGet, "/staff", map[string]string{echo.HeaderAuthorization: guest}).Code)

	staff := bearer(t, utils.Claims{UserID: 3, Role: "staff"})
	assert.Equal(t, http.StatusNoContent, do(e, http.MethodGet, "/staff", map[string]string{echo.HeaderAuthorization: staff}).Code)
}

func cacheEcho(rdb *redis.Client) (*echo.Echo, *int) {
	cfg := config.CacheConfig{Enabled: true, Methods: []string{"GET"}, TTL: time.Minute, Prefix: "cache", KeyStrategy: "route_query"}
	calls := 0
	e := echo.New()
	e.Use(JWTAuth(testSecret), Tenant(zap.NewNop()), NewRedisCache(cfg, rdb, zap.NewNop()))
	e.GET("/:collection", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"collection": c.Param("collection"), "calls": calls})
	})
	e.POST("/bookings/create", func(c echo.Context) error {
		return c.JSON(http.StatusCreated, echo.Map{"success": true})
	})
	e.POST("/fail", func(c echo.Context) error {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nope"})
	})
	return e, &calls
}

func TestRedisCacheHitAndMiss(t *testing.T) {
	e, calls := cacheEcho(newRedis(t))

	first := do(e, http.MethodGet, "/rooms", nil)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := do(e, http.MethodGet, "/rooms", nil)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, *calls)

	// the concrete path is part of the key
	users := do(e, http.MethodGet, "/users", nil)
	assert.Equal(t, "MISS", users.Header().Get("X-Cache"))
	assert.Contains(t, users.Body.String(), `"collection":"users"`)

	// so is the tenant
	scoped := do(e, http.MethodGet, "/rooms", map[string]string{"X-Hotel-Id": "2"})
	assert.Equal(t, "MISS", scoped.Header().Get("X-Cache"))
	assert.Equal(t, 3, *calls)
}

func TestRedisCacheInvalidatedByWrites(t *testing.T) {
	e, calls := cacheEcho(newRedis(t))

	do(e, http.MethodGet, "/rooms", nil)
	do(e, http.MethodPost, "/fail", nil)
	assert.Equal(t, "HIT", do(e, http.MethodGet, "/rooms", nil).Header().Get("X-Cache"))

	assert.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/bookings/create", nil).Code)
	rec := do(e, http.MethodGet, "/rooms", nil)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, *calls)
}

func TestRedisCacheDisabledWithoutClient(t *testing.T) {
	e, calls := cacheEcho(nil)
	do(e, http.MethodGet, "/rooms", nil)
	rec := do(e, http.MethodGet, "/rooms", nil)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, *calls)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{0, 1})
	assert.False(t, ok)

	bs, err := encodePayload(http.StatusOK, http.Header{"Content-Type": {"application/json"}}, []byte(`[]`))
	require.NoError(t, err)
	status, hdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", hdr.Get("Content-Type"))
	assert.Equal(t, `[]`, string(body))
}

func TestTokenBucket(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            2 * time.Hour,
		KeyStrategy:    "ip",
		Prefix:         "rl",
	}
	e := echo.New()
	e.Use(NewTokenBucket(cfg, newRedis(t), zap.NewNop()))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rec := do(e, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/healthz", nil).Code)

	rec = do(e, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "TooManyRequests")
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/:collection")
	c.Set(ctxUserID, int64(9))

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user"}
	assert.Equal(t, "rl:ip:10.0.0.1:user:9", buildRateKey(cfg, c))
	cfg.KeyStrategy = ""
	assert.Equal(t, "rl:ip:10.0.0.1:user:9:route:GET /:collection", buildRateKey(cfg, c))
}
