// Package rpc carries verification-code issuance over gRPC.
//
// Messages are plain Go structs encoded with a JSON codec, so the service
// descriptor below is written by hand instead of generated from a .proto file.
package rpc

import (
	"context"

	"github.com/tech-arch1tect/verifycode/services/verification"
	"google.golang.org/grpc"
)

const (
	ServiceName         = "verify.v1.VerifyService"
	GetVerifyCodeMethod = "/" + ServiceName + "/GetVerifyCode"
)

type GetVerifyReq struct {
	Email string `json:"email"`
}

type GetVerifyRsp struct {
	Error int32  `json:"error"`
	Email string `json:"email"`
}

type VerifyServer interface {
	GetVerifyCode(ctx context.Context, req *GetVerifyReq) (*GetVerifyRsp, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VerifyServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetVerifyCode",
			Handler:    getVerifyCodeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "verify/v1/verify.proto",
}

func getVerifyCodeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetVerifyReq)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(VerifyServer).GetVerifyCode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetVerifyCodeMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(VerifyServer).GetVerifyCode(ctx, req.(*GetVerifyReq))
	}
	return interceptor(ctx, in, info, handler)
}

// VerifyService answers GetVerifyCode from the coordinator. Coordinator
// outcomes are always a response; the RPC itself never fails for them.
type VerifyService struct {
	service *verification.Service
}

func NewVerifyService(service *verification.Service) *VerifyService {
	return &VerifyService{service: service}
}

func (s *VerifyService) GetVerifyCode(ctx context.Context, req *GetVerifyReq) (*GetVerifyRsp, error) {
	result := s.service.IssueCode(ctx, req.Email)
	return &GetVerifyRsp{
		Error: int32(result.Status),
		Email: result.Address,
	}, nil
}
