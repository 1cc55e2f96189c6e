package service

import (
	"context"

	contentdomain "github.com/vincentyono/icp-smart-contract/internal/content/domain"
)

// EventPublisher receives committed content changes. Implementations must not block.
type EventPublisher interface {
	Publish(ctx context.Context, event contentdomain.Event)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, contentdomain.Event) {}
