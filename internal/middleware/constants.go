// File: internal/middleware/constants.go
package middleware

import "net/http"

// Context keys for middleware communication
type contextKey string

const (
    UserIDKey    contextKey = "user_id"
    RequestIDKey contextKey = "request_id"
)

// UserIDFromRequest returns the authenticated user id set by the JWT
// middleware, or false when the request never passed through it.
func UserIDFromRequest(r *http.Request) (uint, bool) {
    userID, ok := r.Context().Value(UserIDKey).(uint)
    return userID, ok
}

// RequestIDFromRequest returns the request id assigned by RequestIDMiddleware.
func RequestIDFromRequest(r *http.Request) string {
    id, _ := r.Context().Value(RequestIDKey).(string)
    return id
}
