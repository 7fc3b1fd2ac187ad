// File: internal/middleware/request_id.go
package middleware

import (
    "context"
    "net/http"

    "github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags every request with an id, honoring one supplied
// by an upstream proxy, and echoes it back in the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        requestID := r.Header.Get(requestIDHeader)
        if requestID == "" {
            requestID = uuid.NewString()
        }

        w.Header().Set(requestIDHeader, requestID)
        ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
        next.ServeHTTP(w, r.WithContext(ctx))
    })
}
