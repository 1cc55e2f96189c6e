package domain

type EventType string

const (
	EventContentPosted   EventType = "content_posted"
	EventContentLiked    EventType = "content_liked"
	EventContentDisliked EventType = "content_disliked"
	EventCommentPosted   EventType = "comment_posted"
)

// Event carries the record as it stood right after the change.
type Event struct {
	Type    EventType
	Content Content
}
