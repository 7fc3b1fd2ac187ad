// File: internal/dtos/user.go
package dtos

import (
    "time"

    "github.com/iyunix/go-todo-assistant/internal/domain"
)

// UserResponseDTO defines what fields to expose in user API responses.
// The password hash never leaves the domain layer.
type UserResponseDTO struct {
    ID        uint   `json:"id"`
    Email     string `json:"email"`
    Name      string `json:"name"`
    CreatedAt string `json:"created_at"`
}

// SignupRequestDTO represents the expected payload to create a new account.
type SignupRequestDTO struct {
    Email    string `json:"email"`
    Name     string `json:"name"`
    Password string `json:"password"`
}

// LoginRequestDTO represents the login payload.
type LoginRequestDTO struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

// AuthResponseDTO represents a successful signup or login.
type AuthResponseDTO struct {
    User  UserResponseDTO `json:"user"`
    Token string          `json:"token"`
}

// UserFromDomain maps a domain.User to UserResponseDTO for API responses.
func UserFromDomain(user domain.User) UserResponseDTO {
    return UserResponseDTO{
        ID:        user.ID,
        Email:     user.Email,
        Name:      user.Name,
        CreatedAt: user.CreatedAt.Format(time.RFC3339),
    }
}
