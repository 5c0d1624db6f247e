package repository

import (
	"context"
	"errors"

	"user-management-api/internal/domain/entity"
)

// ErrNotFound is returned by lookups when no user matches the given key.
var ErrNotFound = errors.New("user not found")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	FindAll(ctx context.Context) ([]entity.User, error)
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// Save inserts a new user and fills in the generated ID and timestamps.
	Save(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
	DeleteByID(ctx context.Context, id int64) error
}
