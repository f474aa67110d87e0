package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rl1809/techstore/internal/core/domain"
)

type mockSaleRepo struct {
	mu      sync.Mutex
	nextID  int64
	created []domain.SaleDraft
	failErr error
	// onCreate runs before the result is decided.
	onCreate func()
}

func (m *mockSaleRepo) CreateSale(ctx context.Context, sale domain.SaleDraft) (int64, error) {
	if m.onCreate != nil {
		m.onCreate()
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return 0, m.failErr
	}
	m.nextID++
	m.created = append(m.created, sale)
	return m.nextID, nil
}

func (m *mockSaleRepo) ListSales(ctx context.Context) ([]domain.SaleSummary, error) {
	return nil, nil
}

func (m *mockSaleRepo) GetSaleDetails(ctx context.Context, id int64) (*domain.SaleDetails, error) {
	return nil, domain.ErrSaleNotFound
}

func (m *mockSaleRepo) ListSaleProducts(ctx context.Context, id int64) ([]domain.SaleProduct, error) {
	return nil, nil
}

func (m *mockSaleRepo) DeleteSale(ctx context.Context, id int64) error {
	return domain.ErrSaleNotFound
}

type mockCustomerRepo struct {
	mu        sync.Mutex
	customers map[int64]domain.Customer
	purchases map[int64][]domain.CustomerPurchase
	nextID    int64
}

func newMockCustomerRepo(customers ...domain.Customer) *mockCustomerRepo {
	m := &mockCustomerRepo{
		customers: make(map[int64]domain.Customer),
		purchases: make(map[int64][]domain.CustomerPurchase),
	}
	for _, c := range customers {
		m.customers[c.ID] = c
		if c.ID > m.nextID {
			m.nextID = c.ID
		}
	}
	return m
}

func (m *mockCustomerRepo) ListCustomers(ctx context.Context, search string) ([]domain.CustomerSummary, error) {
	return nil, nil
}

func (m *mockCustomerRepo) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return &c, nil
}

func (m *mockCustomerRepo) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	customer.ID = m.nextID
	m.customers[customer.ID] = *customer
	return nil
}

func (m *mockCustomerRepo) UpdateCustomer(ctx context.Context, customer *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[customer.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	m.customers[customer.ID] = *customer
	return nil
}

func (m *mockCustomerRepo) DeleteCustomer(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	if len(m.purchases[id]) > 0 {
		return domain.ErrCustomerHasSales
	}
	delete(m.customers, id)
	return nil
}

func (m *mockCustomerRepo) ListCustomerPurchases(ctx context.Context, id int64) ([]domain.CustomerPurchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.purchases[id], nil
}

type mockPaymentRepo struct{}

func (mockPaymentRepo) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	return nil, nil
}

// Mock IdempotencyStore
type mockIdempotency struct {
	mu       sync.Mutex
	keys     map[string]string
	released []string
	seq      int
}

func newMockIdempotency() *mockIdempotency {
	return &mockIdempotency{keys: make(map[string]string)}
}

func (m *mockIdempotency) Claim(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.keys[key]; ok {
		return "", false, nil
	}
	m.seq++
	token := fmt.Sprintf("token-%d", m.seq)
	m.keys[key] = token
	return token, true, nil
}

func (m *mockIdempotency) Release(ctx context.Context, key, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys[key] != token {
		return errors.New("token mismatch")
	}
	delete(m.keys, key)
	m.released = append(m.released, key)
	return nil
}

type mockReportRepo struct {
	sellers []domain.SellerReportRow
	monthly []domain.MonthlySalesRow
	err     error
}

func (m *mockReportRepo) SellerReport(ctx context.Context) ([]domain.SellerReportRow, error) {
	return m.sellers, m.err
}

func (m *mockReportRepo) ProductReport(ctx context.Context) ([]domain.ProductReportRow, error) {
	return nil, m.err
}

func (m *mockReportRepo) CustomerReport(ctx context.Context) ([]domain.CustomerReportRow, error) {
	return nil, m.err
}

func (m *mockReportRepo) SellerCustomers(ctx context.Context) ([]domain.SellerCustomersRow, error) {
	return nil, m.err
}

func (m *mockReportRepo) TopRelationships(ctx context.Context) ([]domain.RelationshipRow, error) {
	return nil, m.err
}

func (m *mockReportRepo) MonthlySales(ctx context.Context) ([]domain.MonthlySalesRow, error) {
	return m.monthly, m.err
}

type mockSellerRepo struct {
	sellers map[int64]domain.Seller
}

func (m *mockSellerRepo) ListSellers(ctx context.Context) ([]domain.SellerSummary, error) {
	return nil, nil
}

func (m *mockSellerRepo) GetSeller(ctx context.Context, id int64) (*domain.Seller, error) {
	s, ok := m.sellers[id]
	if !ok {
		return nil, domain.ErrSellerNotFound
	}
	return &s, nil
}

func (m *mockSellerRepo) CreateSeller(ctx context.Context, seller *domain.Seller) error {
	seller.ID = int64(len(m.sellers) + 1)
	m.sellers[seller.ID] = *seller
	return nil
}

func (m *mockSellerRepo) UpdateSeller(ctx context.Context, seller *domain.Seller) error {
	if _, ok := m.sellers[seller.ID]; !ok {
		return domain.ErrSellerNotFound
	}
	m.sellers[seller.ID] = *seller
	return nil
}

func (m *mockSellerRepo) UpdateSellerStatus(ctx context.Context, id int64, status domain.SellerStatus) (*domain.Seller, error) {
	s, ok := m.sellers[id]
	if !ok {
		return nil, domain.ErrSellerNotFound
	}
	s.Status = status
	m.sellers[id] = s
	return &s, nil
}

func (m *mockSellerRepo) DeleteSeller(ctx context.Context, id int64) error {
	delete(m.sellers, id)
	return nil
}
