package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/rl1809/techstore/internal/core/domain"
)

func (g *GormCatalog) ListSellers(ctx context.Context) ([]domain.SellerSummary, error) {
	var sellers []domain.SellerSummary
	err := g.db.WithContext(ctx).Table("vendedores v").
		Select(`v.id, v.nome, v.email, v.telefone, v.status, v.created_at AS hired_at,
			COUNT(vd.id) AS total_sales,
			COALESCE(SUM(vd.valor_total), 0) AS sales_value`).
		Joins("LEFT JOIN vendas vd ON v.id = vd.vendedor_id").
		Group("v.id").
		Order("v.nome").
		Scan(&sellers).Error
	if err != nil {
		return nil, fmt.Errorf("query sellers: %w", err)
	}
	return sellers, nil
}

func (g *GormCatalog) GetSeller(ctx context.Context, id int64) (*domain.Seller, error) {
	var s domain.Seller
	if err := g.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err, domain.ErrSellerNotFound)
	}
	return &s, nil
}

func (g *GormCatalog) CreateSeller(ctx context.Context, s *domain.Seller) error {
	if err := g.db.WithContext(ctx).Create(s).Error; err != nil {
		return translateMySQLError(fmt.Errorf("insert seller: %w", err), nil, domain.ErrEmailTaken)
	}
	return nil
}

func (g *GormCatalog) UpdateSeller(ctx context.Context, s *domain.Seller) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current domain.Seller
		if err := tx.First(&current, s.ID).Error; err != nil {
			return notFound(err, domain.ErrSellerNotFound)
		}
		s.CreatedAt = current.CreatedAt
		if err := tx.Save(s).Error; err != nil {
			return translateMySQLError(fmt.Errorf("update seller %d: %w", s.ID, err), nil, domain.ErrEmailTaken)
		}
		return nil
	})
}

func (g *GormCatalog) UpdateSellerStatus(ctx context.Context, id int64, status domain.SellerStatus) (*domain.Seller, error) {
	var current domain.Seller
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&current, id).Error; err != nil {
			return notFound(err, domain.ErrSellerNotFound)
		}
		if err := tx.Model(&current).Update("status", status).Error; err != nil {
			return fmt.Errorf("update seller %d status: %w", id, err)
		}
		current.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &current, nil
}

func (g *GormCatalog) DeleteSeller(ctx context.Context, id int64) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := countReferences(tx, "vendas", "vendedor_id", id)
		if err != nil {
			return fmt.Errorf("count seller sales: %w", err)
		}
		if n > 0 {
			return domain.ErrSellerHasSales
		}

		res := tx.Delete(&domain.Seller{}, id)
		if res.Error != nil {
			return translateMySQLError(fmt.Errorf("delete seller %d: %w", id, res.Error), domain.ErrSellerHasSales, nil)
		}
		if res.RowsAffected == 0 {
			return domain.ErrSellerNotFound
		}
		return nil
	})
}
