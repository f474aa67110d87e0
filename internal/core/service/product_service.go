package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rl1809/techstore/internal/core/domain"
	"github.com/rl1809/techstore/internal/port"
)

type ProductService struct {
	repo port.ProductRepository
}

func NewProductService(repo port.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	filter.Name = strings.TrimSpace(filter.Name)
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, fmt.Errorf("%w: min_price is greater than max_price", domain.ErrInvalidInput)
	}
	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return nonNil(products), nil
}

// Categories returns the suggested category tags.
func (s *ProductService) Categories() []string {
	return slices.Clone(domain.ProductCategories)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if err := normalizeProduct(&product); err != nil {
		return nil, err
	}
	product.ID = 0
	if err := s.repo.CreateProduct(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, product domain.Product) (*domain.Product, error) {
	if err := normalizeProduct(&product); err != nil {
		return nil, err
	}
	product.ID = id
	if err := s.repo.UpdateProduct(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteProduct(ctx, id)
}

func normalizeProduct(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	p.Origin = strings.TrimSpace(p.Origin)
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	return nil
}
