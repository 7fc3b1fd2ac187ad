// File: internal/repository/user/gorm_user_repository.go

package user

import (
    "context"
    "errors"
    "fmt"
    "log"
    "strings"

    "gorm.io/gorm"

    "github.com/iyunix/go-todo-assistant/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")

type gormUserRepository struct {
    db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
    return &gormUserRepository{db: db}
}

// Create persists a new user account.
func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
    if user == nil {
        return nil, errors.New("user cannot be nil")
    }
    if err := user.IsValid(); err != nil {
        log.Printf("[UserRepository] Validation failed: %v", err)
        return nil, fmt.Errorf("validation failed: %w", err)
    }

    if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "unique") {
            return nil, ErrEmailTaken
        }
        log.Printf("[UserRepository] Database error during user creation: %v", err)
        return nil, errors.New("database error creating user")
    }

    log.Printf("[UserRepository] User created successfully with ID: %d", user.ID)
    return user, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
    if id == 0 {
        return nil, errors.New("invalid user ID")
    }

    var user domain.User
    err := r.db.WithContext(ctx).First(&user, id).Error
    return r.handleFindError(err, &user, "FindByID")
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
    if strings.TrimSpace(email) == "" {
        return nil, errors.New("email is required")
    }

    var user domain.User
    err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
    return r.handleFindError(err, &user, "FindByEmail")
}

// handleFindError keeps lookup failures generic: callers only learn whether
// the user exists, never why the database failed.
func (r *gormUserRepository) handleFindError(err error, user *domain.User, operation string) (*domain.User, error) {
    if err == nil {
        return user, nil
    }
    if errors.Is(err, gorm.ErrRecordNotFound) {
        return nil, ErrUserNotFound
    }

    log.Printf("[UserRepository] %s database error: %v", operation, err)
    return nil, errors.New("database query failed")
}
