package handler

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/techstore/internal/core/domain"
	"github.com/rl1809/techstore/internal/core/service"
)

const salesServiceName = "techstore.SalesService"

type CreateSaleRequest struct {
	domain.NewSale
	IdempotencyKey string `json:"idempotency_key"`
}

type CreateSaleResponse struct {
	ID int64 `json:"id"`
}

type GetSaleDetailsRequest struct {
	ID int64 `json:"id"`
}

// SalesServer is the server API of techstore.SalesService.
type SalesServer interface {
	CreateSale(context.Context, *CreateSaleRequest) (*CreateSaleResponse, error)
	GetSaleDetails(context.Context, *GetSaleDetailsRequest) (*domain.SaleDetails, error)
	QuoteSale(context.Context, *domain.QuoteRequest) (*domain.Quote, error)
}

type GRPCHandler struct {
	sales *service.SaleService
}

func NewGRPCHandler(sales *service.SaleService) *GRPCHandler {
	return &GRPCHandler{sales: sales}
}

func (h *GRPCHandler) CreateSale(ctx context.Context, req *CreateSaleRequest) (*CreateSaleResponse, error) {
	id, err := h.sales.CreateSale(ctx, req.NewSale, req.IdempotencyKey)
	if err != nil {
		return nil, toStatus(err, "failed to create sale")
	}
	return &CreateSaleResponse{ID: id}, nil
}

func (h *GRPCHandler) GetSaleDetails(ctx context.Context, req *GetSaleDetailsRequest) (*domain.SaleDetails, error) {
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "invalid id")
	}
	details, err := h.sales.GetSaleDetails(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err, "failed to load sale")
	}
	return details, nil
}

func (h *GRPCHandler) QuoteSale(ctx context.Context, req *domain.QuoteRequest) (*domain.Quote, error) {
	quote, err := h.sales.Quote(ctx, *req)
	if err != nil {
		return nil, toStatus(err, "failed to quote sale")
	}
	return quote, nil
}

func toStatus(err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidSale), errors.Is(err, domain.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrSaleNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateRequest):
		return status.Error(codes.AlreadyExists, "duplicate request")
	case errors.Is(err, domain.ErrInsufficientStock):
		return status.Error(codes.FailedPrecondition, "insufficient stock")
	default:
		zap.L().Error(fallback, zap.Error(err))
		return status.Error(codes.Internal, fallback)
	}
}

// RegisterSalesServer mounts srv on s. Messages travel through the JSON codec.
func RegisterSalesServer(s grpc.ServiceRegistrar, srv SalesServer) {
	s.RegisterService(&salesServiceDesc, srv)
}

var salesServiceDesc = grpc.ServiceDesc{
	ServiceName: salesServiceName,
	HandlerType: (*SalesServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateSale", Handler: createSaleHandler},
		{MethodName: "GetSaleDetails", Handler: getSaleDetailsHandler},
		{MethodName: "QuoteSale", Handler: quoteSaleHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "techstore/sales",
}

func createSaleHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateSaleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SalesServer).CreateSale(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + salesServiceName + "/CreateSale"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SalesServer).CreateSale(ctx, req.(*CreateSaleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getSaleDetailsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetSaleDetailsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SalesServer).GetSaleDetails(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + salesServiceName + "/GetSaleDetails"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SalesServer).GetSaleDetails(ctx, req.(*GetSaleDetailsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func quoteSaleHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(domain.QuoteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SalesServer).QuoteSale(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + salesServiceName + "/QuoteSale"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SalesServer).QuoteSale(ctx, req.(*domain.QuoteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// SalesClient calls techstore.SalesService over conn using the JSON codec.
type SalesClient struct {
	conn grpc.ClientConnInterface
}

func NewSalesClient(conn grpc.ClientConnInterface) *SalesClient {
	return &SalesClient{conn: conn}
}

func (c *SalesClient) CreateSale(ctx context.Context, in *CreateSaleRequest, opts ...grpc.CallOption) (*CreateSaleResponse, error) {
	out := new(CreateSaleResponse)
	if err := c.invoke(ctx, "CreateSale", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SalesClient) GetSaleDetails(ctx context.Context, in *GetSaleDetailsRequest, opts ...grpc.CallOption) (*domain.SaleDetails, error) {
	out := new(domain.SaleDetails)
	if err := c.invoke(ctx, "GetSaleDetails", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SalesClient) QuoteSale(ctx context.Context, in *domain.QuoteRequest, opts ...grpc.CallOption) (*domain.Quote, error) {
	out := new(domain.Quote)
	if err := c.invoke(ctx, "QuoteSale", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SalesClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.conn.Invoke(ctx, "/"+salesServiceName+"/"+method, in, out, opts...)
}
