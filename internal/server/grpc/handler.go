package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/validate"
	"google.golang.org/protobuf/types/known/structpb"
)

// field returns the Go value of a request field, nil when it is absent.
func field(in *structpb.Struct, name string) any {
	v, ok := in.GetFields()[name]
	if !ok {
		return nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil
	}
	return v.AsInterface()
}

// optionalString returns the string field name or nil when it is absent.
func optionalString(in *structpb.Struct, name string) (*string, error) {
	v := field(in, name)
	if err := validate.Arguments(validate.Arg{Name: name, Value: v, Type: validate.String, Optional: true}); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	s := v.(string)
	return &s, nil
}

// requiredStrings reads the named string fields in order.
func requiredStrings(in *structpb.Struct, names ...string) ([]string, error) {
	args := make([]validate.Arg, len(names))
	for i, n := range names {
		args[i] = validate.Arg{Name: n, Value: field(in, n), Type: validate.String}
	}
	if err := validate.Arguments(args...); err != nil {
		return nil, err
	}

	res := make([]string, len(names))
	for i, a := range args {
		res[i] = a.Value.(string)
	}
	return res, nil
}

func profileStruct(p *models.Profile) (*structpb.Struct, error) {
	favs := make([]any, len(p.Favorites))
	for i, f := range p.Favorites {
		favs[i] = f
	}
	return structpb.NewStruct(map[string]any{
		"id":        p.ID,
		"name":      p.Name,
		"surname":   p.Surname,
		"email":     p.Email,
		"favorites": favs,
		"createdAt": p.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func message(msg string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{"message": structpb.NewStringValue(msg)}}
}

func currentUser(ctx context.Context) (string, error) {
	id, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return "", fmt.Errorf("%w: missing token", common.ErrorUnauthorized)
	}
	return id, nil
}

func (s *GRPCServer) Register(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	v, err := requiredStrings(in, "name", "surname", "email", "password")
	if err != nil {
		return nil, toStatus(err)
	}

	p, err := s.users.RegisterUser(ctx, v[0], v[1], v[2], v[3])
	if err != nil {
		return nil, s.fail(ctx, "Register", err)
	}

	s.logger.Info(ctx, "Registered", "user_id", p.ID)
	out, err := profileStruct(p)
	if err != nil {
		return nil, s.fail(ctx, "Register", err)
	}
	return out, nil
}

func (s *GRPCServer) Authenticate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	v, err := requiredStrings(in, "email", "password")
	if err != nil {
		return nil, toStatus(err)
	}

	sess, err := s.users.AuthenticateUser(ctx, v[0], v[1])
	if err != nil {
		return nil, s.fail(ctx, "Authenticate", err)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"token":     structpb.NewStringValue(sess.Token),
		"userId":    structpb.NewStringValue(sess.UserID),
		"expiresAt": structpb.NewStringValue(sess.ExpiresAt.UTC().Format(time.RFC3339)),
	}}, nil
}

func (s *GRPCServer) RetrieveUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := currentUser(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	p, err := s.users.RetrieveUser(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "RetrieveUser", err)
	}

	out, err := profileStruct(p)
	if err != nil {
		return nil, s.fail(ctx, "RetrieveUser", err)
	}
	return out, nil
}

func (s *GRPCServer) UpdateUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := currentUser(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	var upd models.UserUpdate
	for _, f := range []struct {
		name string
		dst  **string
	}{
		{"name", &upd.Name},
		{"surname", &upd.Surname},
		{"email", &upd.Email},
		{"password", &upd.Password},
	} {
		if *f.dst, err = optionalString(in, f.name); err != nil {
			return nil, toStatus(err)
		}
	}

	p, err := s.users.UpdateUser(ctx, id, upd)
	if err != nil {
		return nil, s.fail(ctx, "UpdateUser", err)
	}

	out, err := profileStruct(p)
	if err != nil {
		return nil, s.fail(ctx, "UpdateUser", err)
	}
	return out, nil
}

func (s *GRPCServer) DeleteUser(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id, err := currentUser(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	if err := s.users.DeleteUser(ctx, id); err != nil {
		return nil, s.fail(ctx, "DeleteUser", err)
	}
	return message("user deleted"), nil
}

func (s *GRPCServer) Ping(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return &structpb.Struct{Fields: map[string]*structpb.Value{"status": structpb.NewStringValue("OK")}}, nil
}
