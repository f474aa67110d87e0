package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type SellerReportRow struct {
	SellerID      int64           `json:"seller_id" csv:"seller_id"`
	SellerName    string          `json:"seller_name" csv:"seller_name"`
	TotalSales    int64           `json:"total_sales" csv:"total_sales"`
	TotalValue    decimal.Decimal `json:"total_value" csv:"total_value"`
	AverageTicket decimal.Decimal `json:"average_ticket" csv:"average_ticket"`
	Commission    decimal.Decimal `json:"commission" csv:"commission"`
}

type ProductReportRow struct {
	ProductID    int64           `json:"product_id" csv:"product_id"`
	ProductName  string          `json:"product_name" csv:"product_name"`
	Category     string          `json:"category" csv:"category"`
	QuantitySold int64           `json:"quantity_sold" csv:"quantity_sold"`
	TotalValue   decimal.Decimal `json:"total_value" csv:"total_value"`
	CurrentStock int             `json:"current_stock" csv:"current_stock"`
}

type CustomerReportRow struct {
	CustomerID     int64           `json:"customer_id" csv:"customer_id"`
	CustomerName   string          `json:"customer_name" csv:"customer_name"`
	TotalPurchases int64           `json:"total_purchases" csv:"total_purchases"`
	TotalValue     decimal.Decimal `json:"total_value" csv:"total_value"`
	LastPurchase   *time.Time      `json:"last_purchase" csv:"last_purchase"`
}

type SellerCustomersRow struct {
	SellerID           int64           `json:"seller_id"`
	SellerName         string          `json:"seller_name"`
	TotalCustomers     int64           `json:"total_customers"`
	RecurringCustomers int64           `json:"recurring_customers"`
	AverageTicket      decimal.Decimal `json:"average_ticket"`
}

type RelationshipRow struct {
	SellerName        string          `json:"seller_name"`
	CustomerName      string          `json:"customer_name"`
	TotalInteractions int64           `json:"total_interactions"`
	TotalValue        decimal.Decimal `json:"total_value"`
	LastInteraction   time.Time       `json:"last_interaction"`
}

type RelationshipReport struct {
	SellerCustomers  []SellerCustomersRow `json:"seller_customers"`
	TopRelationships []RelationshipRow    `json:"top_relationships"`
}

type MonthlySalesRow struct {
	SellerID      int64           `json:"seller_id" csv:"seller_id"`
	SellerName    string          `json:"seller_name" csv:"seller_name"`
	Year          int             `json:"year" csv:"year"`
	Month         int             `json:"month" csv:"month"`
	MonthLabel    string          `json:"month_label" csv:"month_label"`
	TotalSales    int64           `json:"total_sales" csv:"total_sales"`
	TotalValue    decimal.Decimal `json:"total_value" csv:"total_value"`
	AverageTicket decimal.Decimal `json:"average_ticket" csv:"average_ticket"`
}

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthLabel renders a month as "Março 2025".
func MonthLabel(year, month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%02d/%d", month, year)
	}
	return fmt.Sprintf("%s %d", monthNames[month-1], year)
}
