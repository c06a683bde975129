package repository

import (
	"context"
	"errors"

	"github.com/brookse/smartdoc-backend/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user exists for the given id.
	ErrNotFound = errors.New("user not found")
	// ErrConflict is returned when an update lost a race against a
	// concurrent write to the same record.
	ErrConflict = errors.New("user was modified concurrently")
)

// UserRepository defines the interface for user persistence.
// Update applies the change only if the record is still at the version
// observed when the entity was fetched (optimistic concurrency on
// UpdatedAt); a lost race yields ErrConflict, a missing row ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
}
