package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func signSession(t *testing.T, claims jwt.MapClaims, key []byte) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestSessionAuth(t *testing.T) {
	var captured Session
	protected := SessionAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("Valid Session", func(t *testing.T) {
		token := signSession(t, jwt.MapClaims{
			"sub":  "user-1",
			"role": "admin",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}, secret)

		req := httptest.NewRequest("GET", "/v1/payments", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, captured.IsAuthenticated)
		assert.Equal(t, "user-1", captured.UserID)
		assert.Equal(t, "admin", captured.Role)
	})

	t.Run("Missing Cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/payments", nil)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Wrong Signing Key", func(t *testing.T) {
		token := signSession(t, jwt.MapClaims{"sub": "user-1"}, []byte("other-secret"))

		req := httptest.NewRequest("GET", "/v1/payments", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Expired Session", func(t *testing.T) {
		token := signSession(t, jwt.MapClaims{
			"sub": "user-1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		}, secret)

		req := httptest.NewRequest("GET", "/v1/payments", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSessionFrom_Unauthenticated(t *testing.T) {
	session := SessionFrom(context.Background())
	assert.False(t, session.IsAuthenticated)
}
