package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/vincentyono/icp-smart-contract/internal/content/domain"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	records map[domain.ID]domain.Content
	order   []domain.ID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[domain.ID]domain.Content),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, content domain.Content) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[content.ID]; exists {
		return fmt.Errorf("failed to create content: duplicate id %s", content.ID)
	}

	r.records[content.ID] = content.Clone()
	r.order = append(r.order, content.ID)
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id domain.ID) (domain.Content, error) {
	if err := ctx.Err(); err != nil {
		return domain.Content{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	content, ok := r.records[id]
	if !ok {
		return domain.Content{}, ErrContentNotFound
	}
	return content.Clone(), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]domain.Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Content, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id].Clone())
	}
	return out, nil
}

func (r *MemoryRepository) ApplyLike(ctx context.Context, id domain.ID) (domain.Content, error) {
	return r.mutate(ctx, id, domain.Like)
}

func (r *MemoryRepository) ApplyDislike(ctx context.Context, id domain.ID) (domain.Content, error) {
	return r.mutate(ctx, id, domain.Dislike)
}

func (r *MemoryRepository) AppendComment(ctx context.Context, id domain.ID, text string) (domain.Content, error) {
	return r.mutate(ctx, id, domain.AppendComment(text))
}

func (r *MemoryRepository) mutate(ctx context.Context, id domain.ID, apply domain.Mutation) (domain.Content, error) {
	if err := ctx.Err(); err != nil {
		return domain.Content{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.records[id]
	if !ok {
		return domain.Content{}, ErrContentNotFound
	}

	next := current.Clone()
	apply(&next)
	next.Version = current.Version + 1

	r.records[id] = next
	return next.Clone(), nil
}
