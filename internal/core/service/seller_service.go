package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rl1809/techstore/internal/core/domain"
	"github.com/rl1809/techstore/internal/port"
)

type SellerService struct {
	repo port.SellerRepository
}

func NewSellerService(repo port.SellerRepository) *SellerService {
	return &SellerService{repo: repo}
}

func (s *SellerService) List(ctx context.Context) ([]domain.SellerSummary, error) {
	sellers, err := s.repo.ListSellers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	return nonNil(sellers), nil
}

func (s *SellerService) Get(ctx context.Context, id int64) (*domain.Seller, error) {
	return s.repo.GetSeller(ctx, id)
}

func (s *SellerService) Create(ctx context.Context, seller domain.Seller) (*domain.Seller, error) {
	if seller.Status == "" {
		seller.Status = domain.SellerActive
	}
	if err := normalizeSeller(&seller); err != nil {
		return nil, err
	}
	seller.ID = 0
	if err := s.repo.CreateSeller(ctx, &seller); err != nil {
		return nil, err
	}
	return &seller, nil
}

func (s *SellerService) Update(ctx context.Context, id int64, seller domain.Seller) (*domain.Seller, error) {
	if seller.Status == "" {
		current, err := s.repo.GetSeller(ctx, id)
		if err != nil {
			return nil, err
		}
		seller.Status = current.Status
	}
	if err := normalizeSeller(&seller); err != nil {
		return nil, err
	}
	seller.ID = id
	if err := s.repo.UpdateSeller(ctx, &seller); err != nil {
		return nil, err
	}
	return &seller, nil
}

func (s *SellerService) SetStatus(ctx context.Context, id int64, status domain.SellerStatus) (*domain.Seller, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be %q or %q", domain.ErrInvalidInput, domain.SellerActive, domain.SellerInactive)
	}
	return s.repo.UpdateSellerStatus(ctx, id, status)
}

func (s *SellerService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteSeller(ctx, id)
}

func normalizeSeller(seller *domain.Seller) error {
	seller.Name = strings.TrimSpace(seller.Name)
	seller.Phone = strings.TrimSpace(seller.Phone)
	seller.Email = normalizeEmail(seller.Email)
	if seller.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if !seller.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, seller.Status)
	}
	return nil
}
