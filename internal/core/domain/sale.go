package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NewSale is a sale as submitted by a client.
type NewSale struct {
	CustomerID      *int64           `json:"customer_id"`
	Customer        *CustomerInput   `json:"customer"`
	SellerID        int64            `json:"seller_id"`
	PaymentMethodID int64            `json:"payment_method_id"`
	Total           *decimal.Decimal `json:"total"`
	Discount        *decimal.Decimal `json:"discount"`
	Items           []NewSaleItem    `json:"items"`
}

// CustomerInput carries inline customer data for a sale.
type CustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Preferences
}

type NewSaleItem struct {
	ProductID int64            `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	Subtotal  *decimal.Decimal `json:"subtotal"`
}

// SaleDraft is a validated sale ready to be persisted.
type SaleDraft struct {
	CustomerID      *int64
	Customer        *CustomerInput
	SellerID        int64
	PaymentMethodID int64
	Total           decimal.Decimal
	Discount        decimal.Decimal
	Lines           []SaleLine
}

type SaleLine struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

type QuoteRequest struct {
	Items []NewSaleItem `json:"items"`
	Preferences
}

type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// SaleSummary is a sale row of the sales listing.
type SaleSummary struct {
	ID            int64           `json:"id"`
	CustomerName  *string         `json:"customer_name"`
	SellerName    string          `json:"seller_name"`
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	Discount      decimal.Decimal `json:"discount"`
	SoldAt        time.Time       `json:"sold_at"`
}

type SaleDetails struct {
	ID              int64           `json:"id"`
	CustomerID      *int64          `json:"customer_id"`
	CustomerName    *string         `json:"customer_name"`
	CustomerEmail   *string         `json:"customer_email"`
	SellerID        int64           `json:"seller_id"`
	SellerName      string          `json:"seller_name"`
	PaymentMethodID int64           `json:"payment_method_id"`
	PaymentMethod   string          `json:"payment_method"`
	Total           decimal.Decimal `json:"total"`
	Discount        decimal.Decimal `json:"discount"`
	SoldAt          time.Time       `json:"sold_at"`
	Items           []SaleProduct   `json:"items"`
}

// SaleProduct is a line item joined with its product name.
type SaleProduct struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}
