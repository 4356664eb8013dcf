package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	CoverageService_ServiceName                    = "photometry.v1.CoverageService"
	CoverageService_ComputeCoverage_FullMethodName = "/photometry.v1.CoverageService/ComputeCoverage"
	CoverageService_GetRun_FullMethodName          = "/photometry.v1.CoverageService/GetRun"
	CoverageService_GetLatestRun_FullMethodName    = "/photometry.v1.CoverageService/GetLatestRun"
	CoverageService_ListRuns_FullMethodName        = "/photometry.v1.CoverageService/ListRuns"
	CoverageService_ListFixtures_FullMethodName    = "/photometry.v1.CoverageService/ListFixtures"
)

// CoverageServiceClient is the client API for CoverageService.
type CoverageServiceClient interface {
	ComputeCoverage(ctx context.Context, in *ComputeCoverageRequest, opts ...grpc.CallOption) (*ComputeCoverageResponse, error)
	GetRun(ctx context.Context, in *GetRunRequest, opts ...grpc.CallOption) (*GetRunResponse, error)
	GetLatestRun(ctx context.Context, in *GetLatestRunRequest, opts ...grpc.CallOption) (*GetLatestRunResponse, error)
	ListRuns(ctx context.Context, in *ListRunsRequest, opts ...grpc.CallOption) (*ListRunsResponse, error)
	ListFixtures(ctx context.Context, in *ListFixturesRequest, opts ...grpc.CallOption) (*ListFixturesResponse, error)
}

type coverageServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewCoverageServiceClient wraps cc; every call is sent with the json content-subtype.
func NewCoverageServiceClient(cc grpc.ClientConnInterface) CoverageServiceClient {
	return &coverageServiceClient{cc}
}

func (c *coverageServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *coverageServiceClient) ComputeCoverage(ctx context.Context, in *ComputeCoverageRequest, opts ...grpc.CallOption) (*ComputeCoverageResponse, error) {
	out := new(ComputeCoverageResponse)
	if err := c.invoke(ctx, CoverageService_ComputeCoverage_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *coverageServiceClient) GetRun(ctx context.Context, in *GetRunRequest, opts ...grpc.CallOption) (*GetRunResponse, error) {
	out := new(GetRunResponse)
	if err := c.invoke(ctx, CoverageService_GetRun_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *coverageServiceClient) GetLatestRun(ctx context.Context, in *GetLatestRunRequest, opts ...grpc.CallOption) (*GetLatestRunResponse, error) {
	out := new(GetLatestRunResponse)
	if err := c.invoke(ctx, CoverageService_GetLatestRun_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *coverageServiceClient) ListRuns(ctx context.Context, in *ListRunsRequest, opts ...grpc.CallOption) (*ListRunsResponse, error) {
	out := new(ListRunsResponse)
	if err := c.invoke(ctx, CoverageService_ListRuns_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *coverageServiceClient) ListFixtures(ctx context.Context, in *ListFixturesRequest, opts ...grpc.CallOption) (*ListFixturesResponse, error) {
	out := new(ListFixturesResponse)
	if err := c.invoke(ctx, CoverageService_ListFixtures_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// CoverageServiceServer is the server API for CoverageService.
// Implementations should embed UnimplementedCoverageServiceServer.
type CoverageServiceServer interface {
	ComputeCoverage(context.Context, *ComputeCoverageRequest) (*ComputeCoverageResponse, error)
	GetRun(context.Context, *GetRunRequest) (*GetRunResponse, error)
	GetLatestRun(context.Context, *GetLatestRunRequest) (*GetLatestRunResponse, error)
	ListRuns(context.Context, *ListRunsRequest) (*ListRunsResponse, error)
	ListFixtures(context.Context, *ListFixturesRequest) (*ListFixturesResponse, error)
}

// UnimplementedCoverageServiceServer returns codes.Unimplemented for every method.
type UnimplementedCoverageServiceServer struct{}

func (UnimplementedCoverageServiceServer) ComputeCoverage(context.Context, *ComputeCoverageRequest) (*ComputeCoverageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ComputeCoverage not implemented")
}

func (UnimplementedCoverageServiceServer) GetRun(context.Context, *GetRunRequest) (*GetRunResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetRun not implemented")
}

func (UnimplementedCoverageServiceServer) GetLatestRun(context.Context, *GetLatestRunRequest) (*GetLatestRunResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetLatestRun not implemented")
}

func (UnimplementedCoverageServiceServer) ListRuns(context.Context, *ListRunsRequest) (*ListRunsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListRuns not implemented")
}

func (UnimplementedCoverageServiceServer) ListFixtures(context.Context, *ListFixturesRequest) (*ListFixturesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListFixtures not implemented")
}

// RegisterCoverageServiceServer registers srv on s.
func RegisterCoverageServiceServer(s grpc.ServiceRegistrar, srv CoverageServiceServer) {
	s.RegisterService(&CoverageService_ServiceDesc, srv)
}

func _CoverageService_ComputeCoverage_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ComputeCoverageRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoverageServiceServer).ComputeCoverage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CoverageService_ComputeCoverage_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CoverageServiceServer).ComputeCoverage(ctx, req.(*ComputeCoverageRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CoverageService_GetRun_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetRunRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoverageServiceServer).GetRun(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CoverageService_GetRun_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CoverageServiceServer).GetRun(ctx, req.(*GetRunRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CoverageService_GetLatestRun_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetLatestRunRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoverageServiceServer).GetLatestRun(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CoverageService_GetLatestRun_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CoverageServiceServer).GetLatestRun(ctx, req.(*GetLatestRunRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CoverageService_ListRuns_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListRunsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoverageServiceServer).ListRuns(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CoverageService_ListRuns_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CoverageServiceServer).ListRuns(ctx, req.(*ListRunsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CoverageService_ListFixtures_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListFixturesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoverageServiceServer).ListFixtures(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CoverageService_ListFixtures_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CoverageServiceServer).ListFixtures(ctx, req.(*ListFixturesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// CoverageService_ServiceDesc is the grpc.ServiceDesc for CoverageService.
var CoverageService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: CoverageService_ServiceName,
	HandlerType: (*CoverageServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ComputeCoverage",
			Handler:    _CoverageService_ComputeCoverage_Handler,
		},
		{
			MethodName: "GetRun",
			Handler:    _CoverageService_GetRun_Handler,
		},
		{
			MethodName: "GetLatestRun",
			Handler:    _CoverageService_GetLatestRun_Handler,
		},
		{
			MethodName: "ListRuns",
			Handler:    _CoverageService_ListRuns_Handler,
		},
		{
			MethodName: "ListFixtures",
			Handler:    _CoverageService_ListFixtures_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "photometry/v1/coverage.proto",
}
