package handler

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rl1809/techstore/internal/core/domain"
)

// memStore backs every repository port with maps so the handlers can be
// exercised end to end without MySQL.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	sales     map[int64]domain.SaleDetails
	customers map[int64]domain.Customer
	sellers   map[int64]domain.Seller
	products  map[int64]domain.Product
	stock     map[int64]int
	reject    bool
	claimed   map[string]bool
	sellerRow []domain.SellerReportRow
	initErr   error
}

func newMemStore() *memStore {
	return &memStore{
		sales:     make(map[int64]domain.SaleDetails),
		customers: make(map[int64]domain.Customer),
		sellers:   make(map[int64]domain.Seller),
		products:  make(map[int64]domain.Product),
		stock:     make(map[int64]int),
		claimed:   make(map[string]bool),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateSale(ctx context.Context, sale domain.SaleDraft) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, line := range sale.Lines {
		if m.reject && m.stock[line.ProductID] < line.Quantity {
			return 0, domain.ErrInsufficientStock
		}
	}
	details := domain.SaleDetails{
		SellerID:        sale.SellerID,
		PaymentMethodID: sale.PaymentMethodID,
		Total:           sale.Total,
		Discount:        sale.Discount,
		Items:           []domain.SaleProduct{},
	}
	for _, line := range sale.Lines {
		m.stock[line.ProductID] -= line.Quantity
		details.Items = append(details.Items, domain.SaleProduct{
			ID:        m.id(),
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		})
	}
	details.ID = m.id()
	m.sales[details.ID] = details
	return details.ID, nil
}

func (m *memStore) ListSales(ctx context.Context) ([]domain.SaleSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.SaleSummary
	for _, s := range m.sales {
		out = append(out, domain.SaleSummary{ID: s.ID, Total: s.Total, Discount: s.Discount})
	}
	return out, nil
}

func (m *memStore) GetSaleDetails(ctx context.Context, id int64) (*domain.SaleDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[id]
	if !ok {
		return nil, domain.ErrSaleNotFound
	}
	return &s, nil
}

func (m *memStore) ListSaleProducts(ctx context.Context, id int64) ([]domain.SaleProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sales[id].Items, nil
}

func (m *memStore) DeleteSale(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sales[id]; !ok {
		return domain.ErrSaleNotFound
	}
	delete(m.sales, id)
	return nil
}

func (m *memStore) ListCustomers(ctx context.Context, search string) ([]domain.CustomerSummary, error) {
	return nil, nil
}

func (m *memStore) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return &c, nil
}

func (m *memStore) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.customers {
		if customer.Email != nil && existing.Email != nil && *existing.Email == *customer.Email {
			return domain.ErrEmailTaken
		}
	}
	customer.ID = m.id()
	m.customers[customer.ID] = *customer
	return nil
}

func (m *memStore) UpdateCustomer(ctx context.Context, customer *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[customer.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	m.customers[customer.ID] = *customer
	return nil
}

func (m *memStore) DeleteCustomer(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	for _, s := range m.sales {
		if s.CustomerID != nil && *s.CustomerID == id {
			return domain.ErrCustomerHasSales
		}
	}
	delete(m.customers, id)
	return nil
}

func (m *memStore) ListCustomerPurchases(ctx context.Context, id int64) ([]domain.CustomerPurchase, error) {
	return nil, nil
}

func (m *memStore) ListSellers(ctx context.Context) ([]domain.SellerSummary, error) {
	return nil, nil
}

func (m *memStore) GetSeller(ctx context.Context, id int64) (*domain.Seller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sellers[id]
	if !ok {
		return nil, domain.ErrSellerNotFound
	}
	return &s, nil
}

func (m *memStore) CreateSeller(ctx context.Context, seller *domain.Seller) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	seller.ID = m.id()
	m.sellers[seller.ID] = *seller
	return nil
}

func (m *memStore) UpdateSeller(ctx context.Context, seller *domain.Seller) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sellers[seller.ID]; !ok {
		return domain.ErrSellerNotFound
	}
	m.sellers[seller.ID] = *seller
	return nil
}

func (m *memStore) UpdateSellerStatus(ctx context.Context, id int64, status domain.SellerStatus) (*domain.Seller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sellers[id]
	if !ok {
		return nil, domain.ErrSellerNotFound
	}
	s.Status = status
	m.sellers[id] = s
	return &s, nil
}

func (m *memStore) DeleteSeller(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sellers[id]; !ok {
		return domain.ErrSellerNotFound
	}
	for _, s := range m.sales {
		if s.SellerID == id {
			return domain.ErrSellerHasSales
		}
	}
	delete(m.sellers, id)
	return nil
}

func (m *memStore) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, p := range m.products {
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (m *memStore) CreateProduct(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product.ID = m.id()
	m.products[product.ID] = *product
	m.stock[product.ID] = product.Stock
	return nil
}

func (m *memStore) UpdateProduct(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	m.products[product.ID] = *product
	return nil
}

func (m *memStore) DeleteProduct(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	for _, s := range m.sales {
		for _, item := range s.Items {
			if item.ProductID == id {
				return domain.ErrProductSold
			}
		}
	}
	delete(m.products, id)
	return nil
}

func (m *memStore) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	return []domain.PaymentMethod{{ID: 1, Name: "PIX"}}, nil
}

func (m *memStore) SellerReport(ctx context.Context) ([]domain.SellerReportRow, error) {
	return m.sellerRow, nil
}

func (m *memStore) ProductReport(ctx context.Context) ([]domain.ProductReportRow, error) {
	return nil, nil
}

func (m *memStore) CustomerReport(ctx context.Context) ([]domain.CustomerReportRow, error) {
	return nil, nil
}

func (m *memStore) SellerCustomers(ctx context.Context) ([]domain.SellerCustomersRow, error) {
	return nil, nil
}

func (m *memStore) TopRelationships(ctx context.Context) ([]domain.RelationshipRow, error) {
	return nil, nil
}

func (m *memStore) MonthlySales(ctx context.Context) ([]domain.MonthlySalesRow, error) {
	return []domain.MonthlySalesRow{{
		SellerID:      1,
		SellerName:    "Maria Oliveira",
		Year:          2024,
		Month:         3,
		TotalSales:    2,
		TotalValue:    decimal.RequireFromString("300"),
		AverageTicket: decimal.RequireFromString("150"),
	}}, nil
}

func (m *memStore) Initialize(ctx context.Context) error {
	return m.initErr
}

func (m *memStore) Claim(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimed[key] {
		return "", false, nil
	}
	m.claimed[key] = true
	return key, true, nil
}

func (m *memStore) Release(ctx context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claimed, key)
	return nil
}
