// File: internal/handlers/health_handler.go
package handlers

import (
    "net/http"

    "gorm.io/gorm"
)

// HealthHandler answers liveness probes. It pings the database so a wedged
// storage layer shows up as unhealthy instead of a silent 200.
type HealthHandler struct {
    DB *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
    return &HealthHandler{DB: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
    if h.DB != nil {
        sqlDB, err := h.DB.DB()
        if err == nil {
            err = sqlDB.PingContext(r.Context())
        }
        if err != nil {
            writeJSON(w, http.StatusServiceUnavailable, map[string]string{
                "status": "unhealthy",
                "reason": "database unreachable",
            })
            return
        }
    }
    writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
