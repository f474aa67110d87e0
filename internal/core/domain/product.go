package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categories suggested to clients; the store accepts any tag.
var ProductCategories = []string{"smartphones", "notebooks", "tablets", "acessorios", "audio", "games", "outros"}

type Product struct {
	ID          int64           `gorm:"column:id;primaryKey" json:"id"`
	Name        string          `gorm:"column:nome" json:"name"`
	Description string          `gorm:"column:descricao" json:"description"`
	Price       decimal.Decimal `gorm:"column:preco" json:"price"`
	Category    string          `gorm:"column:categoria" json:"category"`
	Stock       int             `gorm:"column:estoque" json:"stock"`
	Origin      string          `gorm:"column:fabricado_em" json:"origin"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Product) TableName() string { return "produtos" }

type ProductFilter struct {
	Name     string
	Category string
	Origin   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

type PaymentMethod struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:nome" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (PaymentMethod) TableName() string { return "formas_pagamento" }
