// File: internal/services/user_services/types.go
package user_services

import "strings"

// Logger interface for all user services
type Logger interface {
    Info(msg string, keysAndValues ...interface{})
    Error(msg string, keysAndValues ...interface{})
    Debug(msg string, keysAndValues ...interface{})
    Warn(msg string, keysAndValues ...interface{})
}

// maskEmail keeps log lines useful without recording full addresses.
func maskEmail(email string) string {
    at := strings.Index(email, "@")
    if at <= 1 {
        return "****"
    }
    return email[:2] + "****" + email[at:]
}
