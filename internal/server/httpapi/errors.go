package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/validate"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error to an HTTP status and a message that is
// safe to send to the caller.
func statusFor(err error) (int, string) {
	var logic *common.LogicError
	exposed := errors.As(err, &logic) || errors.Is(err, validate.ErrValidation)

	var code int
	var kind error
	switch {
	case errors.Is(err, validate.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, common.ErrorNotFound):
		code, kind = http.StatusNotFound, common.ErrorNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		code, kind = http.StatusConflict, common.ErrorAlreadyExists
	case errors.Is(err, common.ErrorWrongCredentials):
		code, kind = http.StatusUnauthorized, common.ErrorWrongCredentials
	case errors.Is(err, common.ErrorUnauthorized):
		code, kind = http.StatusUnauthorized, common.ErrorUnauthorized
		exposed = true
	case errors.Is(err, common.ErrorForbidden):
		code, kind = http.StatusForbidden, common.ErrorForbidden
	case errors.Is(err, common.ErrorConnection):
		code, kind = http.StatusBadGateway, common.ErrorConnection
	case errors.Is(err, common.ErrorTimeout), errors.Is(err, context.DeadlineExceeded):
		code, kind = http.StatusGatewayTimeout, common.ErrorTimeout
	default:
		code, kind = http.StatusInternalServerError, common.ErrorInternal
	}

	if exposed {
		return code, err.Error()
	}
	return code, kind.Error()
}

// fail writes {"error": msg} and records err for the request logger.
func (s *HTTPServer) fail(c *gin.Context, err error) {
	code, msg := statusFor(err)
	_ = c.Error(err)
	c.JSON(code, gin.H{"error": msg})
}
