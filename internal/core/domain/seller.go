package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SellerStatus string

const (
	SellerActive   SellerStatus = "active"
	SellerInactive SellerStatus = "inactive"
)

func (s SellerStatus) Valid() bool {
	return s == SellerActive || s == SellerInactive
}

type Seller struct {
	ID        int64        `gorm:"column:id;primaryKey" json:"id"`
	Name      string       `gorm:"column:nome" json:"name"`
	Email     *string      `gorm:"column:email" json:"email"`
	Phone     string       `gorm:"column:telefone" json:"phone"`
	Status    SellerStatus `gorm:"column:status" json:"status"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Seller) TableName() string { return "vendedores" }

type SellerSummary struct {
	ID         int64           `gorm:"column:id" json:"id"`
	Name       string          `gorm:"column:nome" json:"name"`
	Email      *string         `gorm:"column:email" json:"email"`
	Phone      string          `gorm:"column:telefone" json:"phone"`
	Status     SellerStatus    `gorm:"column:status" json:"status"`
	HiredAt    time.Time       `gorm:"column:hired_at" json:"hired_at"`
	TotalSales int64           `gorm:"column:total_sales" json:"total_sales"`
	SalesValue decimal.Decimal `gorm:"column:sales_value" json:"sales_value"`
}
