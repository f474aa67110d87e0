package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rl1809/techstore/internal/core/domain"
	"github.com/rl1809/techstore/internal/port"
)

// ReportService runs the read-only aggregations. Nothing is cached, every
// call hits the store.
type ReportService struct {
	repo           port.ReportRepository
	commissionRate decimal.Decimal
}

func NewReportService(repo port.ReportRepository, commissionRate decimal.Decimal) *ReportService {
	return &ReportService{repo: repo, commissionRate: commissionRate}
}

func (s *ReportService) Sellers(ctx context.Context) ([]domain.SellerReportRow, error) {
	rows, err := s.repo.SellerReport(ctx)
	if err != nil {
		return nil, fmt.Errorf("seller report: %w", err)
	}
	for i := range rows {
		rows[i].Commission = rows[i].TotalValue.Mul(s.commissionRate).Round(2)
	}
	return nonNil(rows), nil
}

func (s *ReportService) Products(ctx context.Context) ([]domain.ProductReportRow, error) {
	rows, err := s.repo.ProductReport(ctx)
	if err != nil {
		return nil, fmt.Errorf("product report: %w", err)
	}
	return nonNil(rows), nil
}

func (s *ReportService) Customers(ctx context.Context) ([]domain.CustomerReportRow, error) {
	rows, err := s.repo.CustomerReport(ctx)
	if err != nil {
		return nil, fmt.Errorf("customer report: %w", err)
	}
	return nonNil(rows), nil
}

func (s *ReportService) Relationships(ctx context.Context) (*domain.RelationshipReport, error) {
	sellers, err := s.repo.SellerCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("seller customers report: %w", err)
	}
	top, err := s.repo.TopRelationships(ctx)
	if err != nil {
		return nil, fmt.Errorf("top relationships report: %w", err)
	}
	return &domain.RelationshipReport{
		SellerCustomers:  nonNil(sellers),
		TopRelationships: nonNil(top),
	}, nil
}

func (s *ReportService) SalesByMonth(ctx context.Context) ([]domain.MonthlySalesRow, error) {
	rows, err := s.repo.MonthlySales(ctx)
	if err != nil {
		return nil, fmt.Errorf("monthly sales report: %w", err)
	}
	for i := range rows {
		rows[i].MonthLabel = domain.MonthLabel(rows[i].Year, rows[i].Month)
	}
	return nonNil(rows), nil
}
