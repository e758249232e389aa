package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type contextKey string

const (
	shopperIDKey contextKey = "shopper_id"
	requestIDKey contextKey = "request_id"
)

// ShopperMiddleware resolves the shopper identity. Real authentication
// lives outside the core; the X-Shopper-ID header stands in for the
// session cookie an auth layer would set.
func ShopperMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shopperID := r.Header.Get("X-Shopper-ID")
		if shopperID == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing shopper identity")
			return
		}

		ctx := context.WithValue(r.Context(), shopperIDKey, shopperID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func shopperIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(shopperIDKey).(string); ok {
		return id
	}
	return ""
}
