// File: internal/services/user_services/user_service.go
package user_services

import (
    "context"
    "errors"
    "fmt"
    "strings"

    "github.com/iyunix/go-todo-assistant/internal/auth"
    "github.com/iyunix/go-todo-assistant/internal/domain"
    "github.com/iyunix/go-todo-assistant/internal/repository/user"
)

var (
    ErrInvalidCredentials = errors.New("invalid credentials")
    ErrEmailTaken         = errors.New("email already registered")
)

// UserService handles account lifecycle and token issuance. Passwords are
// hashed by the domain model; tokens are signed HS256 with the configured
// secret.
type UserService struct {
    userRepo     user.UserRepository
    jwtSecretKey []byte
    logger       Logger
}

func NewUserService(userRepo user.UserRepository, jwtSecretKey string, logger Logger) (*UserService, error) {
    if userRepo == nil {
        return nil, errors.New("user repository is required")
    }
    if jwtSecretKey == "" {
        return nil, errors.New("jwt secret key is required")
    }
    if logger == nil {
        return nil, errors.New("logger is required")
    }
    return &UserService{
        userRepo:     userRepo,
        jwtSecretKey: []byte(jwtSecretKey),
        logger:       logger,
    }, nil
}

// Register creates an account and returns it with a signed token, so signup
// doubles as the first login.
func (s *UserService) Register(ctx context.Context, email, name, password string) (*domain.User, string, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    name = strings.TrimSpace(name)

    newUser := &domain.User{Email: email, Name: name}
    if err := newUser.IsValid(); err != nil {
        s.logger.Warn("registration validation failed",
            "email", maskEmail(email), "error", err.Error())
        return nil, "", fmt.Errorf("validation failed: %w", err)
    }
    if err := newUser.HashPassword(password); err != nil {
        s.logger.Warn("registration password rejected",
            "email", maskEmail(email), "error", err.Error())
        return nil, "", fmt.Errorf("validation failed: %w", err)
    }

    created, err := s.userRepo.Create(ctx, newUser)
    if err != nil {
        if errors.Is(err, user.ErrEmailTaken) {
            s.logger.Warn("registration failed - email already exists",
                "email", maskEmail(email))
            return nil, "", ErrEmailTaken
        }
        s.logger.Error("user creation failed",
            "email", maskEmail(email), "error", err.Error())
        return nil, "", fmt.Errorf("failed to create user: %w", err)
    }

    token, err := auth.GenerateJWT(created.ID, s.jwtSecretKey)
    if err != nil {
        s.logger.Error("JWT token generation failed",
            "user_id", created.ID, "error", err.Error())
        return nil, "", fmt.Errorf("failed to generate token: %w", err)
    }

    s.logger.Info("user registered successfully",
        "email", maskEmail(email), "user_id", created.ID)
    return created, token, nil
}

// Login authenticates a user and returns a signed token. All failure modes
// collapse into ErrInvalidCredentials so responses never reveal whether an
// email is registered.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    if email == "" || password == "" {
        s.logger.Warn("login attempt with empty credentials",
            "has_email", email != "", "has_password", password != "")
        return nil, "", ErrInvalidCredentials
    }

    account, err := s.userRepo.FindByEmail(ctx, email)
    if err != nil {
        s.logger.Warn("login failed - user not found", "email", maskEmail(email))
        return nil, "", ErrInvalidCredentials
    }

    if err := account.ValidatePassword(password); err != nil {
        s.logger.Warn("login failed - invalid password",
            "email", maskEmail(email), "user_id", account.ID)
        return nil, "", ErrInvalidCredentials
    }

    token, err := auth.GenerateJWT(account.ID, s.jwtSecretKey)
    if err != nil {
        s.logger.Error("JWT token generation failed",
            "user_id", account.ID, "error", err.Error())
        return nil, "", fmt.Errorf("failed to generate token: %w", err)
    }

    s.logger.Info("login successful",
        "email", maskEmail(email), "user_id", account.ID)
    return account, token, nil
}

// ValidateJWTToken validates a bearer token and returns the user ID it was
// issued for.
func (s *UserService) ValidateJWTToken(tokenString string) (uint, error) {
    if tokenString == "" {
        return 0, errors.New("empty token")
    }
    userID, err := auth.ValidateToken(tokenString, s.jwtSecretKey)
    if err != nil {
        s.logger.Warn("JWT token validation failed", "error", err.Error())
        return 0, fmt.Errorf("invalid token: %w", err)
    }
    return userID, nil
}

func (s *UserService) GetByID(ctx context.Context, userID uint) (*domain.User, error) {
    return s.userRepo.FindByID(ctx, userID)
}
