package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phPortfolio/internal/api/middleware"
	"phPortfolio/internal/config"
)

// memoryLimiter 是内存版的 Redis 计数器，仅实现登录限流用到的命令。
type memoryLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
	ttls   map[string]time.Duration
	values map[string]string
}

func newMemoryLimiter() *memoryLimiter {
	return &memoryLimiter{
		counts: map[string]int64{},
		ttls:   map[string]time.Duration{},
		values: map[string]string{},
	}
}

func (m *memoryLimiter) Incr(_ context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return redis.NewIntResult(m.counts[key], nil)
}

func (m *memoryLimiter) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (m *memoryLimiter) TTL(_ context.Context, key string) *redis.DurationCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ttl, ok := m.ttls[key]; ok {
		if _, exists := m.values[key]; exists {
			return redis.NewDurationResult(ttl, nil)
		}
	}
	return redis.NewDurationResult(-2, nil)
}

func (m *memoryLimiter) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value.(string)
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryLimiter) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.counts, key)
		delete(m.values, key)
		delete(m.ttls, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func signInBody(password string) string {
	return `{"email":"` + testAdminEmail + `","password":"` + password + `"}`
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSignInSessionSignOut(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.adminToken(t)

	w := srv.request(http.MethodPost, "/api/auth/sign-in/email", "", signInBody(testAdminPassword))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeJSON(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "Owner", resp.User.Name)
	assert.Equal(t, testAdminEmail, resp.User.Email)

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, resp.Token, cookie.Value)

	// cookie 与 Bearer 都可以识别会话
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(cookie)
	w = srv.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), testAdminEmail)

	w = srv.request(http.MethodGet, "/api/auth/session", resp.Token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.request(http.MethodPost, "/api/auth/sign-out", resp.Token, "")
	require.Equal(t, http.StatusOK, w.Code)
	cleared := sessionCookie(w)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	w = srv.request(http.MethodGet, "/api/auth/session", resp.Token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = srv.request(http.MethodGet, "/api/admin/hero", resp.Token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignInRejectsBadInput(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.adminToken(t)

	w := srv.request(http.MethodPost, "/api/auth/sign-in/email", "", signInBody("wrong-password"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, sessionCookie(w))

	w = srv.request(http.MethodPost, "/api/auth/sign-in/email", "", `{"email":"not-an-email","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignInLocksAfterRepeatedFailures(t *testing.T) {
	limiter := newMemoryLimiter()
	srv := newTestServer(t, limiter)
	srv.adminToken(t)

	for i := 0; i < srv.cfg.Auth.LoginLockThreshold; i++ {
		w := srv.request(http.MethodPost, "/api/auth/sign-in/email", "", signInBody("wrong-password"))
		require.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d", i)
	}

	w := srv.request(http.MethodPost, "/api/auth/sign-in/email", "", signInBody(testAdminPassword))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many login attempts"}`, w.Body.String())

	limiter.Del(context.Background(), loginLockKey(testAdminEmail))
	w = srv.request(http.MethodPost, "/api/auth/sign-in/email", "", signInBody(testAdminPassword))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, failCounted := limiter.counts[loginFailKey(testAdminEmail)]
	assert.False(t, failCounted)
}

func TestSignInRateLimit(t *testing.T) {
	limiter := newMemoryLimiter()
	srv := newTestServerWith(t, limiter, func(cfg *config.Config) {
		cfg.Auth.LoginRateLimit = 2
	})
	srv.adminToken(t)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := srv.request(http.MethodPost, "/api/auth/sign-in/email", "", signInBody(testAdminPassword))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	found := false
	for key := range limiter.counts {
		if strings.HasPrefix(key, "rate:login:") {
			found = true
			assert.Equal(t, time.Hour, limiter.ttls[key])
		}
	}
	assert.True(t, found)
}
