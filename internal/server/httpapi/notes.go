package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/validate"
	"github.com/gin-gonic/gin"
)

type createNoteRequest struct {
	Text   *string `json:"text"`
	Parent string  `json:"parent"`
}

type updateNoteRequest struct {
	Text    *string `json:"text"`
	Private *bool   `json:"private"`
}

func (s *HTTPServer) createNote(c *gin.Context) {
	s.create(c, false)
}

func (s *HTTPServer) createPrivateNote(c *gin.Context) {
	s.create(c, true)
}

func (s *HTTPServer) create(c *gin.Context, private bool) {
	var req createNoteRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	if err := validate.Arguments(required("text", req.Text)); err != nil {
		s.fail(c, err)
		return
	}

	n, err := s.notes.CreateNote(c.Request.Context(), userID(c), *req.Text, req.Parent, private)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (s *HTTPServer) listNotes(c *gin.Context) {
	res, err := s.notes.ListNotes(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *HTTPServer) listUserNotes(c *gin.Context) {
	res, err := s.notes.ListUserNotes(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *HTTPServer) retrieveNote(c *gin.Context) {
	n, err := s.notes.RetrieveNote(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (s *HTTPServer) updateNote(c *gin.Context) {
	var req updateNoteRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	n, err := s.notes.UpdateNote(c.Request.Context(), userID(c), c.Param("id"), models.NoteUpdate{
		Text:    req.Text,
		Private: req.Private,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (s *HTTPServer) deleteNote(c *gin.Context) {
	if err := s.notes.DeleteNote(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "note deleted"})
}
