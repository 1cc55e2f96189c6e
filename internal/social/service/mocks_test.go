package service

import (
	"context"
	"sync"

	contentdomain "github.com/vincentyono/icp-smart-contract/internal/content/domain"
	contentrepo "github.com/vincentyono/icp-smart-contract/internal/content/repository"
	userdomain "github.com/vincentyono/icp-smart-contract/internal/user/domain"
	userrepo "github.com/vincentyono/icp-smart-contract/internal/user/repository"
)

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user userdomain.User) error
	findByIDFunc       func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
	findByUsernameFunc func(ctx context.Context, username string) (userdomain.User, error)
	calls              int
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	m.calls++
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	m.calls++
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	m.calls++
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type mockContentRepo struct {
	createFunc        func(ctx context.Context, content contentdomain.Content) error
	findByIDFunc      func(ctx context.Context, id contentdomain.ID) (contentdomain.Content, error)
	listFunc          func(ctx context.Context) ([]contentdomain.Content, error)
	applyLikeFunc     func(ctx context.Context, id contentdomain.ID) (contentdomain.Content, error)
	applyDislikeFunc  func(ctx context.Context, id contentdomain.ID) (contentdomain.Content, error)
	appendCommentFunc func(ctx context.Context, id contentdomain.ID, text string) (contentdomain.Content, error)
	calls             int
}

func (m *mockContentRepo) Create(ctx context.Context, content contentdomain.Content) error {
	m.calls++
	if m.createFunc != nil {
		return m.createFunc(ctx, content)
	}
	return nil
}

func (m *mockContentRepo) FindByID(ctx context.Context, id contentdomain.ID) (contentdomain.Content, error) {
	m.calls++
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return contentdomain.Content{}, contentrepo.ErrContentNotFound
}

func (m *mockContentRepo) List(ctx context.Context) ([]contentdomain.Content, error) {
	m.calls++
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockContentRepo) ApplyLike(ctx context.Context, id contentdomain.ID) (contentdomain.Content, error) {
	m.calls++
	if m.applyLikeFunc != nil {
		return m.applyLikeFunc(ctx, id)
	}
	return contentdomain.Content{}, contentrepo.ErrContentNotFound
}

func (m *mockContentRepo) ApplyDislike(ctx context.Context, id contentdomain.ID) (contentdomain.Content, error) {
	m.calls++
	if m.applyDislikeFunc != nil {
		return m.applyDislikeFunc(ctx, id)
	}
	return contentdomain.Content{}, contentrepo.ErrContentNotFound
}

func (m *mockContentRepo) AppendComment(ctx context.Context, id contentdomain.ID, text string) (contentdomain.Content, error) {
	m.calls++
	if m.appendCommentFunc != nil {
		return m.appendCommentFunc(ctx, id, text)
	}
	return contentdomain.Content{}, contentrepo.ErrContentNotFound
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	return m.newIDFunc()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []contentdomain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event contentdomain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []contentdomain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]contentdomain.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
