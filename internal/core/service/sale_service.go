package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/rl1809/techstore/internal/core/domain"
	"github.com/rl1809/techstore/internal/port"
)

const (
	saleKeyPrefix = "idempotency:sale:"

	// releaseTimeout bounds the key release after a failed sale.
	releaseTimeout = 2 * time.Second
)

var tracer = otel.Tracer("github.com/rl1809/techstore/internal/core/service")

type SaleService struct {
	sales       port.SaleRepository
	customers   port.CustomerRepository
	payments    port.PaymentMethodRepository
	idempotency port.IdempotencyStore
}

// NewSaleService wires the sale workflow. idempotency may be nil, in which
// case idempotency keys are ignored.
func NewSaleService(sales port.SaleRepository, customers port.CustomerRepository, payments port.PaymentMethodRepository, idempotency port.IdempotencyStore) *SaleService {
	return &SaleService{
		sales:       sales,
		customers:   customers,
		payments:    payments,
		idempotency: idempotency,
	}
}

func (s *SaleService) CreateSale(ctx context.Context, req domain.NewSale, idempotencyKey string) (int64, error) {
	ctx, span := tracer.Start(ctx, "SaleService.CreateSale")
	defer span.End()

	draft, err := s.prepare(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	var token string
	if idempotencyKey != "" && s.idempotency != nil {
		var ok bool
		token, ok, err = s.idempotency.Claim(ctx, saleKeyPrefix+idempotencyKey)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return 0, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			span.SetStatus(codes.Error, domain.ErrDuplicateRequest.Error())
			return 0, domain.ErrDuplicateRequest
		}
	}

	id, err := s.sales.CreateSale(ctx, draft)
	if err != nil {
		if token != "" {
			s.release(ctx, idempotencyKey, token)
		}
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("create sale: %w", err)
	}

	span.SetAttributes(attribute.Int64("sale.id", id), attribute.Int("sale.items", len(draft.Lines)))
	return id, nil
}

// release frees a claimed key even when ctx is already cancelled, so a
// sale aborted by the caller can be resubmitted.
func (s *SaleService) release(ctx context.Context, key, token string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := s.idempotency.Release(ctx, saleKeyPrefix+key, token); err != nil {
		zap.L().Warn("release idempotency key", zap.String("key", key), zap.Error(err))
	}
}

// Quote computes subtotal, discount and total for a cart without persisting anything.
func (s *SaleService) Quote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	_, span := tracer.Start(ctx, "SaleService.Quote")
	defer span.End()

	_, subtotal, err := prepareLines(req.Items)
	if err != nil {
		return nil, err
	}
	discount := domain.Discount(subtotal, req.Preferences)
	return &domain.Quote{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount),
	}, nil
}

func (s *SaleService) ListSales(ctx context.Context) ([]domain.SaleSummary, error) {
	sales, err := s.sales.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return nonNil(sales), nil
}

func (s *SaleService) GetSaleDetails(ctx context.Context, id int64) (*domain.SaleDetails, error) {
	return s.sales.GetSaleDetails(ctx, id)
}

func (s *SaleService) ListSaleProducts(ctx context.Context, id int64) ([]domain.SaleProduct, error) {
	products, err := s.sales.ListSaleProducts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list sale products: %w", err)
	}
	return nonNil(products), nil
}

func (s *SaleService) DeleteSale(ctx context.Context, id int64) error {
	return s.sales.DeleteSale(ctx, id)
}

func (s *SaleService) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	methods, err := s.payments.ListPaymentMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return nonNil(methods), nil
}

func (s *SaleService) prepare(ctx context.Context, req domain.NewSale) (domain.SaleDraft, error) {
	if req.SellerID <= 0 {
		return domain.SaleDraft{}, fmt.Errorf("%w: seller is required", domain.ErrInvalidSale)
	}
	if req.PaymentMethodID <= 0 {
		return domain.SaleDraft{}, fmt.Errorf("%w: payment method is required", domain.ErrInvalidSale)
	}

	lines, subtotal, err := prepareLines(req.Items)
	if err != nil {
		return domain.SaleDraft{}, err
	}

	draft := domain.SaleDraft{
		SellerID:        req.SellerID,
		PaymentMethodID: req.PaymentMethodID,
		Lines:           lines,
	}

	var prefs domain.Preferences
	switch {
	case req.CustomerID != nil:
		if *req.CustomerID <= 0 {
			return domain.SaleDraft{}, fmt.Errorf("%w: invalid customer id %d", domain.ErrInvalidSale, *req.CustomerID)
		}
		draft.CustomerID = req.CustomerID
		if req.Discount == nil {
			customer, err := s.customers.GetCustomer(ctx, *req.CustomerID)
			if err != nil {
				return domain.SaleDraft{}, fmt.Errorf("resolve customer: %w", err)
			}
			prefs = customer.Preferences
		}
	case req.Customer != nil:
		input := *req.Customer
		input.Name = strings.TrimSpace(input.Name)
		input.Email = strings.ToLower(strings.TrimSpace(input.Email))
		input.Phone = strings.TrimSpace(input.Phone)
		if input.Name == "" {
			return domain.SaleDraft{}, fmt.Errorf("%w: customer name is required", domain.ErrInvalidSale)
		}
		draft.Customer = &input
		prefs = input.Preferences
	}

	draft.Discount = domain.Discount(subtotal, prefs)
	if req.Discount != nil {
		if req.Discount.IsNegative() || req.Discount.GreaterThan(subtotal) {
			return domain.SaleDraft{}, fmt.Errorf("%w: discount %s out of range", domain.ErrInvalidSale, req.Discount)
		}
		draft.Discount = *req.Discount
	}

	draft.Total = subtotal.Sub(draft.Discount)
	if req.Total != nil && !domain.SameAmount(*req.Total, draft.Total) {
		return domain.SaleDraft{}, fmt.Errorf("%w: total %s does not match items minus discount %s",
			domain.ErrInvalidSale, req.Total, draft.Total)
	}

	return draft, nil
}

func prepareLines(items []domain.NewSaleItem) ([]domain.SaleLine, decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, decimal.Zero, fmt.Errorf("%w: at least one item is required", domain.ErrInvalidSale)
	}

	lines := make([]domain.SaleLine, 0, len(items))
	subtotal := decimal.Zero
	for i, item := range items {
		if item.ProductID <= 0 {
			return nil, decimal.Zero, fmt.Errorf("%w: item %d has no product", domain.ErrInvalidSale, i)
		}
		if item.Quantity < 1 {
			return nil, decimal.Zero, fmt.Errorf("%w: item %d quantity must be at least 1", domain.ErrInvalidSale, i)
		}
		if item.UnitPrice.IsNegative() {
			return nil, decimal.Zero, fmt.Errorf("%w: item %d has a negative price", domain.ErrInvalidSale, i)
		}

		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if item.Subtotal != nil {
			if !domain.SameAmount(*item.Subtotal, lineTotal) {
				return nil, decimal.Zero, fmt.Errorf("%w: item %d subtotal %s, expected %s",
					domain.ErrInvalidSale, i, item.Subtotal, lineTotal)
			}
			lineTotal = *item.Subtotal
		}

		lines = append(lines, domain.SaleLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}
	return lines, subtotal, nil
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
