package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified name of the accounts service.
const ServiceName = "notekeeper.v1.Accounts"

// AccountsServer is the accounts service. Requests and responses are
// free-form structpb.Struct messages.
type AccountsServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Authenticate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RetrieveUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(AccountsServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// FullMethod returns the gRPC path of a method of the accounts service.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func unary(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AccountsServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AccountsServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var accountsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountsServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", AccountsServer.Register),
		unary("Authenticate", AccountsServer.Authenticate),
		unary("RetrieveUser", AccountsServer.RetrieveUser),
		unary("UpdateUser", AccountsServer.UpdateUser),
		unary("DeleteUser", AccountsServer.DeleteUser),
		unary("Ping", AccountsServer.Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "notekeeper/v1/accounts.proto",
}

// RegisterAccountsServer registers srv on s.
func RegisterAccountsServer(s grpc.ServiceRegistrar, srv AccountsServer) {
	s.RegisterService(&accountsServiceDesc, srv)
}
