package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID    int64   `gorm:"column:id;primaryKey" json:"id"`
	Name  string  `gorm:"column:nome" json:"name"`
	Email *string `gorm:"column:email" json:"email"`
	Phone string  `gorm:"column:telefone" json:"phone"`
	Preferences
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Customer) TableName() string { return "clientes" }

// CustomerSummary is a customer row plus its purchase aggregates.
type CustomerSummary struct {
	Customer
	TotalPurchases int64           `gorm:"column:total_purchases" json:"total_purchases"`
	TotalSpent     decimal.Decimal `gorm:"column:total_spent" json:"total_spent"`
	LastPurchase   *time.Time      `gorm:"column:last_purchase" json:"last_purchase"`
}

// CustomerPurchase is one entry of a customer's purchase history.
type CustomerPurchase struct {
	SaleID        int64           `gorm:"column:id" json:"id"`
	SoldAt        time.Time       `gorm:"column:data_venda" json:"sold_at"`
	Total         decimal.Decimal `gorm:"column:valor_total" json:"total"`
	Discount      decimal.Decimal `gorm:"column:desconto" json:"discount"`
	SellerName    string          `gorm:"column:vendedor_nome" json:"seller_name"`
	PaymentMethod string          `gorm:"column:forma_pagamento" json:"payment_method"`
	Products      []string        `gorm:"-" json:"products"`
}
