package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/validate"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type authRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

var errMalformedBody = fmt.Errorf("%w: malformed JSON body", validate.ErrValidation)

// bind decodes the JSON body into dst. An empty body leaves dst untouched.
func bind(c *gin.Context, dst any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		return errMalformedBody
	}
	return nil
}

func required(name string, v *string) validate.Arg {
	return validate.Arg{Name: name, Value: v, Type: validate.String}
}

func (s *HTTPServer) registerUser(c *gin.Context) {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	if err := validate.Arguments(
		required("name", req.Name),
		required("surname", req.Surname),
		required("email", req.Email),
		required("password", req.Password),
	); err != nil {
		s.fail(c, err)
		return
	}

	p, err := s.users.RegisterUser(c.Request.Context(), *req.Name, *req.Surname, *req.Email, *req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *HTTPServer) authenticateUser(c *gin.Context) {
	var req authRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	if err := validate.Arguments(required("email", req.Email), required("password", req.Password)); err != nil {
		s.fail(c, err)
		return
	}

	sess, err := s.users.AuthenticateUser(c.Request.Context(), *req.Email, *req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *HTTPServer) retrieveUser(c *gin.Context) {
	p, err := s.users.RetrieveUser(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *HTTPServer) updateUser(c *gin.Context) {
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	p, err := s.users.UpdateUser(c.Request.Context(), userID(c), models.UserUpdate{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *HTTPServer) deleteUser(c *gin.Context) {
	if err := s.users.DeleteUser(c.Request.Context(), userID(c)); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
