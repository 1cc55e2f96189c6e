package http

import (
	"time"

	contentdomain "github.com/vincentyono/icp-smart-contract/internal/content/domain"
	userdomain "github.com/vincentyono/icp-smart-contract/internal/user/domain"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type postContentRequest struct {
	Content string `json:"content"`
	UserID  string `json:"user_id"`
}

type reactionRequest struct {
	UserID string `json:"user_id"`
}

type postCommentRequest struct {
	Comment string `json:"comment"`
	UserID  string `json:"user_id"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type signInResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type contentResponse struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id"`
	Content   string   `json:"content"`
	Like      uint32   `json:"like"`
	Dislike   uint32   `json:"dislike"`
	Comments  []string `json:"comments"`
	Timestamp uint64   `json:"timestamp"`
	Version   uint64   `json:"version"`
}

func toUserResponse(u userdomain.User) userResponse {
	return userResponse{
		ID:        string(u.ID),
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

func toContentResponse(c contentdomain.Content) contentResponse {
	comments := c.Comments
	if comments == nil {
		comments = []string{}
	}
	return contentResponse{
		ID:        string(c.ID),
		UserID:    string(c.UserID),
		Content:   c.Text,
		Like:      c.Like,
		Dislike:   c.Dislike,
		Comments:  comments,
		Timestamp: c.Timestamp,
		Version:   c.Version,
	}
}

func toContentResponses(contents []contentdomain.Content) []contentResponse {
	resp := make([]contentResponse, 0, len(contents))
	for _, c := range contents {
		resp = append(resp, toContentResponse(c))
	}
	return resp
}
