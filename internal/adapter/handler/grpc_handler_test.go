package handler

import (
	"context"
	"net"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/rl1809/techstore/internal/core/domain"
	"github.com/rl1809/techstore/internal/core/service"
)

func setupGRPC(t *testing.T) (*SalesClient, *memStore) {
	t.Helper()

	store := newMemStore()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	RegisterSalesServer(srv, NewGRPCHandler(service.NewSaleService(store, store, store, store)))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewSalesClient(conn), store
}

func grpcSale(key string) *CreateSaleRequest {
	return &CreateSaleRequest{
		NewSale: domain.NewSale{
			SellerID:        1,
			PaymentMethodID: 1,
			Items: []domain.NewSaleItem{
				{ProductID: 3, Quantity: 1, UnitPrice: decimal.RequireFromString("1899.00")},
			},
		},
		IdempotencyKey: key,
	}
}

func TestGRPC_CreateAndFetchSale(t *testing.T) {
	client, _ := setupGRPC(t)
	ctx := context.Background()

	created, err := client.CreateSale(ctx, grpcSale("grpc-1"))
	require.NoError(t, err)
	require.Positive(t, created.ID)

	details, err := client.GetSaleDetails(ctx, &GetSaleDetailsRequest{ID: created.ID})
	require.NoError(t, err)
	assert.True(t, details.Total.Equal(decimal.RequireFromString("1899")))
	require.Len(t, details.Items, 1)
	assert.Equal(t, int64(3), details.Items[0].ProductID)
}

func TestGRPC_StatusCodes(t *testing.T) {
	client, store := setupGRPC(t)
	ctx := context.Background()

	_, err := client.CreateSale(ctx, grpcSale("dup"))
	require.NoError(t, err)
	_, err = client.CreateSale(ctx, grpcSale("dup"))
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = client.GetSaleDetails(ctx, &GetSaleDetailsRequest{ID: 999})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.GetSaleDetails(ctx, &GetSaleDetailsRequest{ID: 0})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	invalid := grpcSale("")
	invalid.Items = nil
	_, err = client.CreateSale(ctx, invalid)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	store.reject = true
	_, err = client.CreateSale(ctx, grpcSale("no-stock"))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestGRPC_QuoteSale(t *testing.T) {
	client, _ := setupGRPC(t)

	quote, err := client.QuoteSale(context.Background(), &domain.QuoteRequest{
		Items:       []domain.NewSaleItem{{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(50)}},
		Preferences: domain.Preferences{FlamengoFan: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "100", quote.Subtotal.String())
	assert.Equal(t, "25", quote.Discount.String())
	assert.Equal(t, "75", quote.Total.String())
}
