package repository

import (
	"context"
	"errors"

	"github.com/vincentyono/icp-smart-contract/internal/user/domain"
)

var ErrUserNotFound = errors.New("user not found")

// Repository is the user directory. Usernames are not unique; FindByUsername
// returns the earliest registered match.
type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
}
