package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func call(t *testing.T, conn *grpc.ClientConn, ctx context.Context, method string, in map[string]any) (*structpb.Struct, error) {
	t.Helper()
	req, err := structpb.NewStruct(in)
	if err != nil {
		t.Fatalf("NewStruct error: %v", err)
	}
	out := new(structpb.Struct)
	err = conn.Invoke(ctx, FullMethod(method), req, out)
	return out, err
}

func withToken(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, token)
}

var janeFields = map[string]any{"name": "Jane", "surname": "Doe", "email": "jane@mail.com", "password": "123"}

func TestPing(t *testing.T) {
	conn := dial(t)

	out, err := call(t, conn, context.Background(), "Ping", nil)
	if err != nil {
		t.Fatalf("Ping error: %v", err)
	}
	if got := out.GetFields()["status"].GetStringValue(); got != "OK" {
		t.Fatalf("unexpected status: %q", got)
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	conn := dial(t)
	ctx := context.Background()

	out, err := call(t, conn, ctx, "Register", janeFields)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if _, ok := out.GetFields()["password"]; ok {
		t.Fatal("profile must not carry the password")
	}
	id := out.GetFields()["id"].GetStringValue()

	_, err = call(t, conn, ctx, "Register", janeFields)
	if status.Code(err) != codes.AlreadyExists {
		t.Fatalf("want AlreadyExists, got %v", err)
	}
	if msg := status.Convert(err).Message(); msg != `user with email "jane@mail.com" already exists` {
		t.Fatalf("unexpected message: %q", msg)
	}

	sess, err := call(t, conn, ctx, "Authenticate", map[string]any{"email": "jane@mail.com", "password": "123"})
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if got := sess.GetFields()["userId"].GetStringValue(); got != id {
		t.Fatalf("userId = %q, want %q", got, id)
	}

	_, err = call(t, conn, ctx, "Authenticate", map[string]any{"email": "jane@mail.com", "password": "bad"})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("want Unauthenticated, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	conn := dial(t)

	tests := []struct {
		name string
		in   map[string]any
		msg  string
	}{
		{"missing", map[string]any{"surname": "Doe", "email": "a@b.com", "password": "1"}, "name is not optional"},
		{"wrong type", map[string]any{"name": 5, "surname": "Doe", "email": "a@b.com", "password": "1"}, "name 5 is not a string"},
		{"null", map[string]any{"name": nil, "surname": "Doe", "email": "a@b.com", "password": "1"}, "name is not optional"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(t, conn, context.Background(), "Register", tt.in)
			if status.Code(err) != codes.InvalidArgument {
				t.Fatalf("want InvalidArgument, got %v", err)
			}
			if msg := status.Convert(err).Message(); msg != tt.msg {
				t.Fatalf("message = %q, want %q", msg, tt.msg)
			}
		})
	}
}

func TestAuthenticatedMethods(t *testing.T) {
	conn := dial(t)
	ctx := context.Background()

	if _, err := call(t, conn, ctx, "Register", janeFields); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	sess, err := call(t, conn, ctx, "Authenticate", map[string]any{"email": "jane@mail.com", "password": "123"})
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	authed := withToken(sess.GetFields()["token"].GetStringValue())

	if _, err := call(t, conn, ctx, "RetrieveUser", nil); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("want Unauthenticated without token, got %v", err)
	}
	if _, err := call(t, conn, withToken("garbage"), "RetrieveUser", nil); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("want Unauthenticated with bad token, got %v", err)
	}

	out, err := call(t, conn, authed, "UpdateUser", map[string]any{"surname": "Roe"})
	if err != nil {
		t.Fatalf("UpdateUser error: %v", err)
	}
	if got := out.GetFields()["surname"].GetStringValue(); got != "Roe" {
		t.Fatalf("surname = %q", got)
	}

	out, err = call(t, conn, authed, "RetrieveUser", nil)
	if err != nil {
		t.Fatalf("RetrieveUser error: %v", err)
	}
	if got := out.GetFields()["name"].GetStringValue(); got != "Jane" {
		t.Fatalf("name = %q", got)
	}

	if _, err := call(t, conn, authed, "DeleteUser", nil); err != nil {
		t.Fatalf("DeleteUser error: %v", err)
	}
	if _, err := call(t, conn, authed, "RetrieveUser", nil); status.Code(err) != codes.NotFound {
		t.Fatalf("want NotFound after delete, got %v", err)
	}
}
