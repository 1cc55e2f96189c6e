package feed

import (
	contentdomain "github.com/vincentyono/icp-smart-contract/internal/content/domain"
)

const TypeShutdown = "shutdown"

type Message struct {
	Type    string          `json:"type"`
	Payload *ContentPayload `json:"payload,omitempty"`
}

type ContentPayload struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id"`
	Content   string   `json:"content"`
	Like      uint32   `json:"like"`
	Dislike   uint32   `json:"dislike"`
	Comments  []string `json:"comments"`
	Timestamp uint64   `json:"timestamp"`
	Version   uint64   `json:"version"`
}

func messageFromEvent(event contentdomain.Event) Message {
	c := event.Content
	comments := c.Comments
	if comments == nil {
		comments = []string{}
	}
	return Message{
		Type: string(event.Type),
		Payload: &ContentPayload{
			ID:        string(c.ID),
			UserID:    string(c.UserID),
			Content:   c.Text,
			Like:      c.Like,
			Dislike:   c.Dislike,
			Comments:  comments,
			Timestamp: c.Timestamp,
			Version:   c.Version,
		},
	}
}
