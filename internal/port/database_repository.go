package port

import (
	"context"

	"github.com/rl1809/techstore/internal/core/domain"
)

type SaleRepository interface {
	// CreateSale persists the customer, header, line items and stock changes in one transaction
	CreateSale(ctx context.Context, sale domain.SaleDraft) (int64, error)

	// ListSales returns every sale, newest first
	ListSales(ctx context.Context) ([]domain.SaleSummary, error)

	// GetSaleDetails returns ErrSaleNotFound when the sale does not exist
	GetSaleDetails(ctx context.Context, id int64) (*domain.SaleDetails, error)

	ListSaleProducts(ctx context.Context, id int64) ([]domain.SaleProduct, error)

	// DeleteSale removes a sale and, by cascade, its line items
	DeleteSale(ctx context.Context, id int64) error
}

type CustomerRepository interface {
	// ListCustomers filters on name, email or phone when search is not empty
	ListCustomers(ctx context.Context, search string) ([]domain.CustomerSummary, error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	UpdateCustomer(ctx context.Context, customer *domain.Customer) error

	// DeleteCustomer fails with ErrCustomerHasSales while any sale references the customer
	DeleteCustomer(ctx context.Context, id int64) error
	ListCustomerPurchases(ctx context.Context, id int64) ([]domain.CustomerPurchase, error)
}

type SellerRepository interface {
	ListSellers(ctx context.Context) ([]domain.SellerSummary, error)
	GetSeller(ctx context.Context, id int64) (*domain.Seller, error)
	CreateSeller(ctx context.Context, seller *domain.Seller) error
	UpdateSeller(ctx context.Context, seller *domain.Seller) error
	UpdateSellerStatus(ctx context.Context, id int64, status domain.SellerStatus) (*domain.Seller, error)
	DeleteSeller(ctx context.Context, id int64) error
}

type ProductRepository interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type PaymentMethodRepository interface {
	ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error)
}

type ReportRepository interface {
	SellerReport(ctx context.Context) ([]domain.SellerReportRow, error)
	ProductReport(ctx context.Context) ([]domain.ProductReportRow, error)
	CustomerReport(ctx context.Context) ([]domain.CustomerReportRow, error)
	SellerCustomers(ctx context.Context) ([]domain.SellerCustomersRow, error)
	TopRelationships(ctx context.Context) ([]domain.RelationshipRow, error)
	MonthlySales(ctx context.Context) ([]domain.MonthlySalesRow, error)
}

type SchemaRepository interface {
	// Initialize creates missing tables, the view, the stock trigger and seed rows
	Initialize(ctx context.Context) error
}
