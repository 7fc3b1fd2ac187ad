// File: internal/handlers/auth_handlers.go
package handlers

import (
    "encoding/json"
    "log"
    "net/http"

    "github.com/iyunix/go-todo-assistant/internal/dtos"
    "github.com/iyunix/go-todo-assistant/internal/services/user_services"
)

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
    UserService *user_services.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *user_services.UserService) *AuthHandler {
    return &AuthHandler{UserService: service}
}

// Signup handles new account registrations.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
    var req dtos.SignupRequestDTO
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeError(w, "Invalid request body", http.StatusBadRequest)
        return
    }

    user, token, err := h.UserService.Register(r.Context(), req.Email, req.Name, req.Password)
    if err != nil {
        log.Printf("[AuthHandler] Registration error: %v", err)
        writeServiceError(w, err)
        return
    }

    writeJSON(w, http.StatusCreated, dtos.AuthResponseDTO{
        User:  dtos.UserFromDomain(*user),
        Token: token,
    })
}

// Signin validates credentials and returns a bearer token.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
    var req dtos.LoginRequestDTO
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeError(w, "Invalid request body", http.StatusBadRequest)
        return
    }

    user, token, err := h.UserService.Login(r.Context(), req.Email, req.Password)
    if err != nil {
        log.Printf("[AuthHandler] Login error: %v", err)
        writeServiceError(w, err)
        return
    }

    writeJSON(w, http.StatusOK, dtos.AuthResponseDTO{
        User:  dtos.UserFromDomain(*user),
        Token: token,
    })
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
    userID, ok := authorizedUserID(w, r)
    if !ok {
        return
    }

    user, err := h.UserService.GetByID(r.Context(), userID)
    if err != nil {
        writeError(w, "Could not load profile", http.StatusInternalServerError)
        return
    }
    writeJSON(w, http.StatusOK, dtos.UserFromDomain(*user))
}
