package models

import "time"

type Note struct {
	ID       string    `json:"id"`
	AuthorID string    `json:"author"`
	ParentID string    `json:"parent,omitempty"`
	Text     string    `json:"text"`
	Private  bool      `json:"private"`
	Date     time.Time `json:"date"`
}

func (n *Note) Clone() *Note {
	c := *n
	return &c
}

// NoteCriteria filters notes. Zero fields match everything.
type NoteCriteria struct {
	AuthorID string
	Private  *bool
}

// Match reports whether n satisfies c.
func (c NoteCriteria) Match(n *Note) bool {
	if c.AuthorID != "" && n.AuthorID != c.AuthorID {
		return false
	}
	if c.Private != nil && n.Private != *c.Private {
		return false
	}
	return true
}

type NoteUpdate struct {
	Text    *string
	Private *bool
}

func (n *Note) Apply(upd NoteUpdate) {
	if upd.Text != nil {
		n.Text = *upd.Text
	}
	if upd.Private != nil {
		n.Private = *upd.Private
	}
}
