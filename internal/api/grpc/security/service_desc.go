package security

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "catpoint.security.v1.SecurityService"

// Method names of the security service.
const (
	MethodGetStatus              = "GetStatus"
	MethodSetArmingStatus        = "SetArmingStatus"
	MethodChangeSensorActivation = "ChangeSensorActivation"
	MethodAddSensor              = "AddSensor"
	MethodRemoveSensor           = "RemoveSensor"
	MethodListSensors            = "ListSensors"
	MethodProcessImage           = "ProcessImage"
)

// SecurityServiceServer is the server API of the security service.
type SecurityServiceServer interface {
	GetStatus(ctx context.Context, req *GetStatusRequest) (*StatusResponse, error)
	SetArmingStatus(ctx context.Context, req *SetArmingStatusRequest) (*StatusResponse, error)
	ChangeSensorActivation(ctx context.Context, req *ChangeSensorActivationRequest) (*SensorResponse, error)
	AddSensor(ctx context.Context, req *AddSensorRequest) (*SensorResponse, error)
	RemoveSensor(ctx context.Context, req *RemoveSensorRequest) (*StatusResponse, error)
	ListSensors(ctx context.Context, req *ListSensorsRequest) (*ListSensorsResponse, error)
	ProcessImage(ctx context.Context, req *ProcessImageRequest) (*ProcessImageResponse, error)
}

// serviceDesc describes the unary methods of the security service.
//
//nolint:gochecknoglobals // Service descriptors are static by nature.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SecurityServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: MethodGetStatus,
			Handler:    unaryHandler(MethodGetStatus, SecurityServiceServer.GetStatus),
		},
		{
			MethodName: MethodSetArmingStatus,
			Handler:    unaryHandler(MethodSetArmingStatus, SecurityServiceServer.SetArmingStatus),
		},
		{
			MethodName: MethodChangeSensorActivation,
			Handler:    unaryHandler(MethodChangeSensorActivation, SecurityServiceServer.ChangeSensorActivation),
		},
		{
			MethodName: MethodAddSensor,
			Handler:    unaryHandler(MethodAddSensor, SecurityServiceServer.AddSensor),
		},
		{
			MethodName: MethodRemoveSensor,
			Handler:    unaryHandler(MethodRemoveSensor, SecurityServiceServer.RemoveSensor),
		},
		{
			MethodName: MethodListSensors,
			Handler:    unaryHandler(MethodListSensors, SecurityServiceServer.ListSensors),
		},
		{
			MethodName: MethodProcessImage,
			Handler:    unaryHandler(MethodProcessImage, SecurityServiceServer.ProcessImage),
		},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterSecurityServiceServer registers the server implementation with a gRPC registrar.
func RegisterSecurityServiceServer(registrar grpc.ServiceRegistrar, server SecurityServiceServer) {
	registrar.RegisterService(&serviceDesc, server)
}

// FullMethod returns the "/service/method" path of a method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unaryHandler adapts a typed server method to the gRPC method handler signature.
func unaryHandler[Req, Resp any](
	method string,
	call func(SecurityServiceServer, context.Context, *Req) (*Resp, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}

		server, _ := srv.(SecurityServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed, _ := req.(*Req)

			return call(server, ctx, typed)
		}

		return interceptor(ctx, in, info, handler)
	}
}
