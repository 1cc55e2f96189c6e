package domain

import "time"

type ID string

// User is immutable once registered. Password holds whatever the configured
// hasher produced, which is the raw value under the plain hasher.
type User struct {
	ID        ID
	Username  string
	Password  string
	CreatedAt time.Time
}
