package repository

import (
	"context"

	"docflow/internal/model"
)

// UserRepository defines read access to user accounts. The application never
// creates or mutates users at runtime; accounts are provisioned by the
// migration seed.
type UserRepository interface {
	// FindByID returns a user by primary key. Returns sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByUsername returns a user by its unique username.
	// Returns sql.ErrNoRows when absent.
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}
