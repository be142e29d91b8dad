// Package models contains the entities shared by repositories, services and
// transports.
package models

import "time"

// User is the persisted account. Password holds the hash, never plain text.
type User struct {
	ID        string
	Name      string
	Surname   string
	Email     string
	Password  string
	Favorites []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the public view of a user.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	Favorites []string  `json:"favorites"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) Profile() *Profile {
	fav := u.Favorites
	if fav == nil {
		fav = []string{}
	}
	return &Profile{
		ID:        u.ID,
		Name:      u.Name,
		Surname:   u.Surname,
		Email:     u.Email,
		Favorites: append([]string(nil), fav...),
		CreatedAt: u.CreatedAt,
	}
}

// Clone returns a deep copy so in-process stores never share slices with callers.
func (u *User) Clone() *User {
	c := *u
	if u.Favorites != nil {
		c.Favorites = append([]string(nil), u.Favorites...)
	}
	return &c
}

// UserCriteria filters users. Empty fields match everything.
type UserCriteria struct {
	Email string
}

// UserUpdate is a partial update: nil fields are left unchanged.
type UserUpdate struct {
	Name      *string
	Surname   *string
	Email     *string
	Password  *string
	Favorites *[]string
}

func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Surname == nil && u.Email == nil && u.Password == nil && u.Favorites == nil
}

// Apply copies the set fields of upd onto u.
func (u *User) Apply(upd UserUpdate) {
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Surname != nil {
		u.Surname = *upd.Surname
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}
	if upd.Favorites != nil {
		u.Favorites = append([]string{}, (*upd.Favorites)...)
	}
}
