package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rl1809/techstore/internal/core/domain"
	"github.com/rl1809/techstore/internal/port"
)

type CustomerService struct {
	repo port.CustomerRepository
}

func NewCustomerService(repo port.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

func (s *CustomerService) List(ctx context.Context, search string) ([]domain.CustomerSummary, error) {
	customers, err := s.repo.ListCustomers(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return nonNil(customers), nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *CustomerService) Create(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	if err := normalizeCustomer(&customer); err != nil {
		return nil, err
	}
	customer.ID = 0
	if err := s.repo.CreateCustomer(ctx, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id int64, customer domain.Customer) (*domain.Customer, error) {
	if err := normalizeCustomer(&customer); err != nil {
		return nil, err
	}
	customer.ID = id
	if err := s.repo.UpdateCustomer(ctx, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteCustomer(ctx, id)
}

// Purchases returns the customer's sales, newest first, each with its product names.
func (s *CustomerService) Purchases(ctx context.Context, id int64) ([]domain.CustomerPurchase, error) {
	if _, err := s.repo.GetCustomer(ctx, id); err != nil {
		return nil, err
	}
	purchases, err := s.repo.ListCustomerPurchases(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	for i := range purchases {
		purchases[i].Products = nonNil(purchases[i].Products)
	}
	return nonNil(purchases), nil
}

func normalizeCustomer(c *domain.Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = normalizeEmail(c.Email)
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	return nil
}

// normalizeEmail lowercases the address and maps blank to nil so it is stored as NULL.
func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}
