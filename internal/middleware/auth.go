// File: internal/middleware/auth.go
package middleware

import (
    "context"
    "encoding/json"
    "log"
    "net/http"
    "strings"
)

// TokenValidator is the slice of the user service the auth middleware needs.
type TokenValidator interface {
    ValidateJWTToken(tokenString string) (uint, error)
}

// NewJWTMiddleware validates the Authorization bearer token and stores the
// authenticated user id on the request context. Requests without a valid
// token get a 401 JSON body; this is an API, not a browser flow, so there is
// no redirect.
func NewJWTMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            token := bearerToken(r)
            if token == "" {
                log.Printf("[AuthMiddleware] Missing bearer token for %s %s", r.Method, r.URL.Path)
                writeUnauthorized(w, "missing bearer token")
                return
            }

            userID, err := validator.ValidateJWTToken(token)
            if err != nil {
                log.Printf("[AuthMiddleware] Invalid token: %v", err)
                writeUnauthorized(w, "invalid or expired token")
                return
            }

            ctx := context.WithValue(r.Context(), UserIDKey, userID)
            next.ServeHTTP(w, r.WithContext(ctx))
        })
    }
}

func bearerToken(r *http.Request) string {
    header := r.Header.Get("Authorization")
    if header == "" {
        return ""
    }
    parts := strings.SplitN(header, " ", 2)
    if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
        return ""
    }
    return strings.TrimSpace(parts[1])
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusUnauthorized)
    json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
