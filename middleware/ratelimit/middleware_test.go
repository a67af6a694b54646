package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/verifycode/testutils"
)

func serve(e *echo.Echo, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newLimitedEcho(cfg *Config) *echo.Echo {
	e := echo.New()
	e.POST("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, Middleware(cfg))
	return e
}

func TestMiddleware(t *testing.T) {
	t.Run("blocks after rate is spent", func(t *testing.T) {
		clock := testutils.NewClock()
		store := NewMemoryStore(WithClock(clock.Now))
		defer store.Close()
		e := newLimitedEcho(&Config{Store: store, Rate: 2, Period: time.Minute, Now: clock.Now})

		for i := 0; i < 2; i++ {
			if rec := serve(e, "10.0.0.1:1234"); rec.Code != http.StatusOK {
				t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
			}
		}

		rec := serve(e, "10.0.0.1:1234")
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}
		if got := rec.Header().Get("X-RateLimit-Remaining"); got != "0" {
			t.Errorf("expected remaining 0, got %q", got)
		}
		if got := rec.Header().Get("Retry-After"); got != "60" {
			t.Errorf("expected Retry-After 60, got %q", got)
		}
	})

	t.Run("window reset lets the caller back in", func(t *testing.T) {
		clock := testutils.NewClock()
		store := NewMemoryStore(WithClock(clock.Now))
		defer store.Close()
		e := newLimitedEcho(&Config{Store: store, Rate: 1, Period: time.Minute, Now: clock.Now})

		serve(e, "10.0.0.1:1234")
		if rec := serve(e, "10.0.0.1:1234"); rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}

		clock.Advance(time.Minute)
		if rec := serve(e, "10.0.0.1:1234"); rec.Code != http.StatusOK {
			t.Fatalf("expected 200 after reset, got %d", rec.Code)
		}
	})

	t.Run("clients are counted separately", func(t *testing.T) {
		e := newLimitedEcho(&Config{Rate: 1, Period: time.Minute})

		if rec := serve(e, "10.0.0.1:1234"); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec := serve(e, "10.0.0.2:1234"); rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for second client, got %d", rec.Code)
		}
	})

	t.Run("headers are set", func(t *testing.T) {
		clock := testutils.NewClock()
		e := newLimitedEcho(&Config{Store: NewMemoryStore(WithClock(clock.Now)), Rate: 5, Period: time.Minute, Now: clock.Now})

		rec := serve(e, "10.0.0.1:1234")

		if got := rec.Header().Get("X-RateLimit-Limit"); got != "5" {
			t.Errorf("expected limit 5, got %q", got)
		}
		if got := rec.Header().Get("X-RateLimit-Remaining"); got != "4" {
			t.Errorf("expected remaining 4, got %q", got)
		}
		want := strconv.FormatInt(clock.Now().Add(time.Minute).Unix(), 10)
		if got := rec.Header().Get("X-RateLimit-Reset"); got != want {
			t.Errorf("expected reset %s, got %q", want, got)
		}
	})

	t.Run("defaults are filled in", func(t *testing.T) {
		cfg := &Config{}
		Middleware(cfg)

		if cfg.Store == nil {
			t.Error("expected default store")
		}
		if cfg.Rate != 10 {
			t.Errorf("expected default rate 10, got %d", cfg.Rate)
		}
		if cfg.Period != time.Minute {
			t.Errorf("expected default period 1m, got %v", cfg.Period)
		}
		if cfg.Now == nil || cfg.KeyGenerator == nil || cfg.OnLimitReached == nil {
			t.Error("expected default funcs")
		}
	})

	t.Run("custom limit handler", func(t *testing.T) {
		e := newLimitedEcho(&Config{
			Rate: 1,
			OnLimitReached: func(c echo.Context) error {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "busy"})
			},
		})

		serve(e, "10.0.0.1:1234")
		if rec := serve(e, "10.0.0.1:1234"); rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestDefaultKeyGenerator(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "192.168.1.1")
	c := e.NewContext(req, httptest.NewRecorder())

	if got := DefaultKeyGenerator(c); got != "gateway:192.168.1.1" {
		t.Errorf("expected gateway:192.168.1.1, got %s", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ""
	c = e.NewContext(req, httptest.NewRecorder())

	if got := DefaultKeyGenerator(c); got != "gateway:fallback" {
		t.Errorf("expected gateway:fallback, got %s", got)
	}
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	if got := retryAfter(now.Add(30*time.Second), now); got != 30 {
		t.Errorf("expected 30, got %d", got)
	}
	if got := retryAfter(now, now); got != 1 {
		t.Errorf("expected floor of 1, got %d", got)
	}
}
