package repository

import (
	"context"
	"errors"

	"github.com/vincentyono/icp-smart-contract/internal/content/domain"
)

var ErrContentNotFound = errors.New("content not found")

// Repository is the content store. The three mutations are read-modify-write
// cycles serialized per record; each returns the record as written.
type Repository interface {
	Create(ctx context.Context, content domain.Content) error
	FindByID(ctx context.Context, id domain.ID) (domain.Content, error)
	List(ctx context.Context) ([]domain.Content, error)
	ApplyLike(ctx context.Context, id domain.ID) (domain.Content, error)
	ApplyDislike(ctx context.Context, id domain.ID) (domain.Content, error)
	AppendComment(ctx context.Context, id domain.ID, text string) (domain.Content, error)
}
