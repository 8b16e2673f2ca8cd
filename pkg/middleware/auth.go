package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// Session is the descriptor the rest of the application trusts. It is derived
// once here and never re-checked downstream.
type Session struct {
	IsAuthenticated bool
	UserID          string
	Role            string
}

type contextKey string

const sessionContextKey contextKey = "session"

// SessionAuth verifies the session cookie's JWT (HS256) and injects a Session
// into the request context. Requests without a valid session get a 401.
func SessionAuth(secret []byte) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				http.Error(w, "Missing session", http.StatusUnauthorized)
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Invalid session", http.StatusUnauthorized)
				return
			}

			session := Session{IsAuthenticated: true}
			if sub, err := claims.GetSubject(); err == nil {
				session.UserID = sub
			}
			if role, ok := claims["role"].(string); ok {
				session.Role = role
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

// SessionFrom returns the session attached to the context, or a zero session
// when the request was not authenticated.
func SessionFrom(ctx context.Context) Session {
	if s, ok := ctx.Value(sessionContextKey).(Session); ok {
		return s
	}
	return Session{}
}
