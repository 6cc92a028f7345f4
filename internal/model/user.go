package model

import "time"

// User is a registered account. HashedPassword is a bcrypt hash and is
// never serialized.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}
