package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/rl1809/techstore/internal/core/domain"
)

func (g *GormCatalog) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	q := g.db.WithContext(ctx).Model(&domain.Product{})
	if f.Name != "" {
		q = q.Where("nome LIKE ?", "%"+f.Name+"%")
	}
	if f.Category != "" {
		q = q.Where("categoria = ?", f.Category)
	}
	if f.Origin != "" {
		q = q.Where("fabricado_em = ?", f.Origin)
	}
	if f.MinPrice != nil {
		q = q.Where("preco >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("preco <= ?", *f.MaxPrice)
	}

	var products []domain.Product
	if err := q.Order("id DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return products, nil
}

func (g *GormCatalog) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := g.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err, domain.ErrProductNotFound)
	}
	return &p, nil
}

func (g *GormCatalog) CreateProduct(ctx context.Context, p *domain.Product) error {
	if err := g.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (g *GormCatalog) UpdateProduct(ctx context.Context, p *domain.Product) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current domain.Product
		if err := tx.First(&current, p.ID).Error; err != nil {
			return notFound(err, domain.ErrProductNotFound)
		}
		p.CreatedAt = current.CreatedAt
		if err := tx.Save(p).Error; err != nil {
			return fmt.Errorf("update product %d: %w", p.ID, err)
		}
		return nil
	})
}

func (g *GormCatalog) DeleteProduct(ctx context.Context, id int64) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := countReferences(tx, "itens_venda", "produto_id", id)
		if err != nil {
			return fmt.Errorf("count product sales: %w", err)
		}
		if n > 0 {
			return domain.ErrProductSold
		}

		res := tx.Delete(&domain.Product{}, id)
		if res.Error != nil {
			return translateMySQLError(fmt.Errorf("delete product %d: %w", id, res.Error), domain.ErrProductSold, nil)
		}
		if res.RowsAffected == 0 {
			return domain.ErrProductNotFound
		}
		return nil
	})
}
