package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/devburger/pkg/auth"
	"github.com/shashiranjanraj/devburger/pkg/response"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestAuthGate(t *testing.T) {
	tokens := auth.NewTokenService("secret", time.Hour)
	valid, err := tokens.Issue("user-1", "Ana")
	require.NoError(t, err)
	foreign, err := auth.NewTokenService("other", time.Hour).Issue("user-1", "Ana")
	require.NoError(t, err)

	var got *auth.Identity
	h := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFromCtx(r.Context())
		assert.Equal(t, "user-1", UserIDFromCtx(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		code   int
		msg    string
	}{
		{"missing header", "", http.StatusUnauthorized, "Token not provided"},
		{"no second segment", "Bearer", http.StatusUnauthorized, "Token is invalid"},
		{"garbage", "Bearer abc", http.StatusUnauthorized, "Token is invalid"},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized, "Token is invalid"},
		{"scheme not checked", "Token " + valid, http.StatusNoContent, ""},
		{"valid", "Bearer " + valid, http.StatusNoContent, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.code, rec.Code)
			if tc.msg != "" {
				assert.Equal(t, tc.msg, decode(t, rec).Message)
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, "Ana", got.UserName)
		})
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(2, time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestLimiterEviction(t *testing.T) {
	store := newLimiterStore(1, 1, time.Minute)
	store.get("a")
	store.evict(time.Now().Add(2 * time.Minute))
	assert.Empty(t, store.visitors)
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decode(t, rec).Message)
}

func TestCORS(t *testing.T) {
	h := CORS(CORSFromList("https://shop.example.com"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PUT")

	req = httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSFromEmptyListAllowsAll(t *testing.T) {
	assert.Equal(t, []string{"*"}, CORSFromList(" ").AllowedOrigins)
}
