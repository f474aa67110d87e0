package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/rl1809/techstore/internal/core/domain"
)

func (g *GormCatalog) ListCustomers(ctx context.Context, search string) ([]domain.CustomerSummary, error) {
	q := g.db.WithContext(ctx).Table("clientes c").
		Select(`c.id, c.nome, c.email, c.telefone, c.torce_flamengo, c.assiste_one_piece, c.de_sousa, c.created_at,
			COUNT(v.id) AS total_purchases,
			COALESCE(SUM(v.valor_total), 0) AS total_spent,
			MAX(v.data_venda) AS last_purchase`).
		Joins("LEFT JOIN vendas v ON c.id = v.cliente_id")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("c.nome LIKE ? OR c.email LIKE ? OR c.telefone LIKE ?", like, like, like)
	}

	var customers []domain.CustomerSummary
	if err := q.Group("c.id").Order("c.nome").Scan(&customers).Error; err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	return customers, nil
}

func (g *GormCatalog) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	if err := g.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, domain.ErrCustomerNotFound)
	}
	return &c, nil
}

func (g *GormCatalog) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	if err := g.db.WithContext(ctx).Create(c).Error; err != nil {
		return translateMySQLError(fmt.Errorf("insert customer: %w", err), nil, domain.ErrEmailTaken)
	}
	return nil
}

func (g *GormCatalog) UpdateCustomer(ctx context.Context, c *domain.Customer) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current domain.Customer
		if err := tx.First(&current, c.ID).Error; err != nil {
			return notFound(err, domain.ErrCustomerNotFound)
		}
		c.CreatedAt = current.CreatedAt
		if err := tx.Save(c).Error; err != nil {
			return translateMySQLError(fmt.Errorf("update customer %d: %w", c.ID, err), nil, domain.ErrEmailTaken)
		}
		return nil
	})
}

func (g *GormCatalog) DeleteCustomer(ctx context.Context, id int64) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := countReferences(tx, "vendas", "cliente_id", id)
		if err != nil {
			return fmt.Errorf("count customer sales: %w", err)
		}
		if n > 0 {
			return domain.ErrCustomerHasSales
		}

		res := tx.Delete(&domain.Customer{}, id)
		if res.Error != nil {
			return translateMySQLError(fmt.Errorf("delete customer %d: %w", id, res.Error), domain.ErrCustomerHasSales, nil)
		}
		if res.RowsAffected == 0 {
			return domain.ErrCustomerNotFound
		}
		return nil
	})
}

type saleProductName struct {
	SaleID int64  `gorm:"column:venda_id"`
	Name   string `gorm:"column:nome"`
}

func (g *GormCatalog) ListCustomerPurchases(ctx context.Context, id int64) ([]domain.CustomerPurchase, error) {
	db := g.db.WithContext(ctx)

	var purchases []domain.CustomerPurchase
	err := db.Table("vendas v").
		Select("v.id, v.data_venda, v.valor_total, v.desconto, vd.nome AS vendedor_nome, fp.nome AS forma_pagamento").
		Joins("JOIN vendedores vd ON v.vendedor_id = vd.id").
		Joins("JOIN formas_pagamento fp ON v.forma_pagamento_id = fp.id").
		Where("v.cliente_id = ?", id).
		Order("v.data_venda DESC, v.id DESC").
		Scan(&purchases).Error
	if err != nil {
		return nil, fmt.Errorf("query customer sales: %w", err)
	}
	if len(purchases) == 0 {
		return purchases, nil
	}

	ids := make([]int64, len(purchases))
	for i, p := range purchases {
		ids[i] = p.SaleID
	}

	var names []saleProductName
	err = db.Table("itens_venda iv").
		Select("iv.venda_id, p.nome").
		Joins("JOIN produtos p ON iv.produto_id = p.id").
		Where("iv.venda_id IN ?", ids).
		Order("iv.id").
		Scan(&names).Error
	if err != nil {
		return nil, fmt.Errorf("query customer sale products: %w", err)
	}

	bySale := make(map[int64][]string, len(purchases))
	for _, n := range names {
		bySale[n.SaleID] = append(bySale[n.SaleID], n.Name)
	}
	for i := range purchases {
		purchases[i].Products = bySale[purchases[i].SaleID]
	}
	return purchases, nil
}
