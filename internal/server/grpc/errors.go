package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/validate"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus converts a service error into a gRPC status. Only business-rule
// and validation messages reach the caller verbatim.
func toStatus(err error) error {
	var logic *common.LogicError
	exposed := errors.As(err, &logic) || errors.Is(err, validate.ErrValidation)

	var code codes.Code
	var kind error
	switch {
	case errors.Is(err, validate.ErrValidation):
		code = codes.InvalidArgument
	case errors.Is(err, common.ErrorNotFound):
		code, kind = codes.NotFound, common.ErrorNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		code, kind = codes.AlreadyExists, common.ErrorAlreadyExists
	case errors.Is(err, common.ErrorWrongCredentials):
		code, kind = codes.Unauthenticated, common.ErrorWrongCredentials
	case errors.Is(err, common.ErrorUnauthorized):
		code, kind = codes.Unauthenticated, common.ErrorUnauthorized
		exposed = true
	case errors.Is(err, common.ErrorForbidden):
		code, kind = codes.PermissionDenied, common.ErrorForbidden
	case errors.Is(err, common.ErrorConnection):
		code, kind = codes.Unavailable, common.ErrorConnection
	case errors.Is(err, common.ErrorTimeout), errors.Is(err, context.DeadlineExceeded):
		code, kind = codes.DeadlineExceeded, common.ErrorTimeout
	default:
		code, kind = codes.Internal, common.ErrorInternal
	}

	if exposed {
		return status.Error(code, err.Error())
	}
	return status.Error(code, kind.Error())
}

// fail logs unexpected errors and returns the matching status.
func (s *GRPCServer) fail(ctx context.Context, method string, err error) error {
	st := toStatus(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, "request failed", "method", method, "error", err)
	}
	return st
}
