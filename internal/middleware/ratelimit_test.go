package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/boardman/internal/model"
)

func tightConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(1.0 / 60.0),
		GeneralBurst:    2,
		BoardRegRate:    rate.Limit(1.0 / 60.0),
		BoardRegBurst:   1,
		CleanupInterval: time.Minute,
	}
}

func limiterRequest(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
	ctx := ContextWithActor(req.Context(), model.Actor{UserID: userID, OrgID: "org-1"})
	return req.WithContext(ctx)
}

// TestRateLimiter_General はバースト超過後に429とRetry-Afterが返ることを検証する。
func TestRateLimiter_General(t *testing.T) {
	rl := NewRateLimiter(tightConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, limiterRequest("user-1"))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, limiterRequest("user-1"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header expected")
	}
}

// TestRateLimiter_PerUser はユーザーごとに独立したリミッターになることを検証する。
func TestRateLimiter_PerUser(t *testing.T) {
	rl := NewRateLimiter(tightConfig())
	defer rl.Stop()

	handler := rl.BoardRegistrationMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, limiterRequest("user-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("user-1 first request: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, limiterRequest("user-1"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("user-1 second request: status = %d, want 429", rec.Code)
	}

	// 別ユーザーは影響を受けない
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, limiterRequest("user-2"))
	if rec.Code != http.StatusOK {
		t.Fatalf("user-2 first request: status = %d, want 200", rec.Code)
	}

	if rl.BoardRegLimiterCount() != 2 {
		t.Errorf("BoardRegLimiterCount() = %d, want 2", rl.BoardRegLimiterCount())
	}
}

// TestRateLimiter_NoActor は操作主体なしのリクエストが401になることを検証する。
func TestRateLimiter_NoActor(t *testing.T) {
	rl := NewRateLimiter(tightConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not be called without an actor")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/boards", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
