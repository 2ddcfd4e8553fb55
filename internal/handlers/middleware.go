package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/RafcikJ/10x-memo/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDContextKey holds the authenticated user's UUID
	UserIDContextKey ContextKey = "userID"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	jwtSecret []byte
	limiter   *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(jwtSecret string, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		jwtSecret: []byte(jwtSecret),
		limiter:   limiter,
	}
}

// RequireAuth validates the bearer token issued by the auth subsystem and
// puts the user's UUID on the request context. Tokens are HS256; the
// subject claim carries the user ID.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.userIDFromRequest(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "unauthorized", "A valid bearer token is required")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		next(w, r.WithContext(ctx))
	}
}

func (m *Middleware) userIDFromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		return "", errors.New("missing bearer token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return m.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}

	// The auth subsystem issues UUID subjects; reject anything else
	userID, err := uuid.Parse(subject)
	if err != nil {
		return "", err
	}
	return userID.String(), nil
}

// RateLimit rejects bursts from a single client IP with 429.
// Used in front of the AI generation endpoint as a transport-level guard;
// the per-user daily quota is enforced separately in the service layer.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(security.ClientIP(r)) {
			respondError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many requests, slow down")
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests with a per-request ID
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r)

		log.Printf("[%s] %s %s %s", requestID, r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserIDFromContext retrieves the authenticated user's ID from the
// request context, empty if the request was not authenticated.
func GetUserIDFromContext(ctx context.Context) string {
	userID, ok := ctx.Value(UserIDContextKey).(string)
	if !ok {
		return ""
	}
	return userID
}
