package models

import "time"

// Author is the public view of a recipe's owner.
type Author struct {
	ID       int64  `json:"id"`
	UserName string `json:"username"`
}

type Recipe struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	AuthorID    int64     `json:"author_id"`
	Author      Author    `json:"author"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecipeUpdate carries a partial update; nil fields are left unchanged.
// ClearDescription sets the description to NULL and wins over Description.
type RecipeUpdate struct {
	Title            *string
	Description      *string
	ClearDescription bool
}

// Empty reports whether the update touches no field.
func (u RecipeUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && !u.ClearDescription
}
