package models

import "time"

// User is a registered account. HashedPassword never leaves the server.
type User struct {
	ID             int64     `json:"id"`
	UserName       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
