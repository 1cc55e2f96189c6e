package domain

import (
	"math"

	userdomain "github.com/vincentyono/icp-smart-contract/internal/user/domain"
)

type ID string

// Content is a posted text item. ID, UserID, Text and Timestamp never change;
// counters only grow, comments are append-only and Version increases on every mutation.
type Content struct {
	ID        ID
	UserID    userdomain.ID
	Text      string
	Like      uint32
	Dislike   uint32
	Comments  []string
	Timestamp uint64
	Version   uint64
}

func (c Content) Clone() Content {
	out := c
	out.Comments = make([]string, len(c.Comments))
	copy(out.Comments, c.Comments)
	return out
}

type Mutation func(*Content)

// Like and Dislike saturate instead of wrapping so counters never decrease.
func Like(c *Content) {
	if c.Like < math.MaxUint32 {
		c.Like++
	}
}

func Dislike(c *Content) {
	if c.Dislike < math.MaxUint32 {
		c.Dislike++
	}
}

func AppendComment(text string) Mutation {
	return func(c *Content) {
		c.Comments = append(c.Comments, text)
	}
}
