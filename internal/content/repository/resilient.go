package repository

import (
	"context"
	"errors"

	"github.com/vincentyono/icp-smart-contract/internal/common/resilience"
	"github.com/vincentyono/icp-smart-contract/internal/content/domain"
)

type ResilientRepository struct {
	next Repository
	cb   *resilience.CircuitBreaker
}

func NewResilientRepository(next Repository, config resilience.CircuitBreakerConfig) *ResilientRepository {
	config.IsFailure = func(err error) bool {
		return !errors.Is(err, ErrContentNotFound) && !errors.Is(err, context.Canceled)
	}
	return &ResilientRepository{
		next: next,
		cb:   resilience.NewCircuitBreaker(config),
	}
}

func (r *ResilientRepository) Create(ctx context.Context, content domain.Content) error {
	return r.cb.Call(ctx, func(ctx context.Context) error {
		return r.next.Create(ctx, content)
	})
}

func (r *ResilientRepository) FindByID(ctx context.Context, id domain.ID) (domain.Content, error) {
	return r.one(ctx, func(ctx context.Context) (domain.Content, error) {
		return r.next.FindByID(ctx, id)
	})
}

func (r *ResilientRepository) List(ctx context.Context) ([]domain.Content, error) {
	var out []domain.Content
	err := r.cb.Call(ctx, func(ctx context.Context) error {
		var err error
		out, err = r.next.List(ctx)
		return err
	})
	return out, err
}

func (r *ResilientRepository) ApplyLike(ctx context.Context, id domain.ID) (domain.Content, error) {
	return r.one(ctx, func(ctx context.Context) (domain.Content, error) {
		return r.next.ApplyLike(ctx, id)
	})
}

func (r *ResilientRepository) ApplyDislike(ctx context.Context, id domain.ID) (domain.Content, error) {
	return r.one(ctx, func(ctx context.Context) (domain.Content, error) {
		return r.next.ApplyDislike(ctx, id)
	})
}

func (r *ResilientRepository) AppendComment(ctx context.Context, id domain.ID, text string) (domain.Content, error) {
	return r.one(ctx, func(ctx context.Context) (domain.Content, error) {
		return r.next.AppendComment(ctx, id, text)
	})
}

func (r *ResilientRepository) one(ctx context.Context, fn func(context.Context) (domain.Content, error)) (domain.Content, error) {
	var content domain.Content
	err := r.cb.Call(ctx, func(ctx context.Context) error {
		var err error
		content, err = fn(ctx)
		return err
	})
	return content, err
}
