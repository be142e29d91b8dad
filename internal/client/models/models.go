// Package models holds the client-side shapes of API responses.
package models

import "time"

type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	Favorites []string  `json:"favorites"`
	CreatedAt time.Time `json:"createdAt"`
}

type Note struct {
	ID       string    `json:"id"`
	AuthorID string    `json:"author"`
	ParentID string    `json:"parent,omitempty"`
	Text     string    `json:"text"`
	Private  bool      `json:"private"`
	Date     time.Time `json:"date"`
}

type Duck struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ImageURL    string `json:"imageUrl"`
	Price       string `json:"price"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

// UserUpdate carries the profile fields to change. Nil fields are kept.
type UserUpdate struct {
	Name     *string `json:"name,omitempty"`
	Surname  *string `json:"surname,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}
