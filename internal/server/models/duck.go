package models

import "time"

// Duck is an item of the third-party duck catalogue.
type Duck struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ImageURL    string `json:"imageUrl"`
	Price       string `json:"price"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

// Session is the result of a successful authentication.
type Session struct {
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
