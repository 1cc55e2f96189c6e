package repository

import (
	"context"
	"errors"

	"github.com/vincentyono/icp-smart-contract/internal/common/resilience"
	"github.com/vincentyono/icp-smart-contract/internal/user/domain"
)

// ResilientRepository routes calls through a circuit breaker. Lookups that
// simply miss do not count against the breaker.
type ResilientRepository struct {
	next Repository
	cb   *resilience.CircuitBreaker
}

func NewResilientRepository(next Repository, config resilience.CircuitBreakerConfig) *ResilientRepository {
	config.IsFailure = func(err error) bool {
		return !errors.Is(err, ErrUserNotFound) && !errors.Is(err, context.Canceled)
	}
	return &ResilientRepository{
		next: next,
		cb:   resilience.NewCircuitBreaker(config),
	}
}

func (r *ResilientRepository) Create(ctx context.Context, user domain.User) error {
	return r.cb.Call(ctx, func(ctx context.Context) error {
		return r.next.Create(ctx, user)
	})
}

func (r *ResilientRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	var user domain.User
	err := r.cb.Call(ctx, func(ctx context.Context) error {
		var err error
		user, err = r.next.FindByID(ctx, id)
		return err
	})
	return user, err
}

func (r *ResilientRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	var user domain.User
	err := r.cb.Call(ctx, func(ctx context.Context) error {
		var err error
		user, err = r.next.FindByUsername(ctx, username)
		return err
	})
	return user, err
}
