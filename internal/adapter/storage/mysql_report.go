package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rl1809/techstore/internal/core/domain"
)

// SellerReport leaves Commission unset; the rate is applied by the caller.
func (m *MySQLAdapter) SellerReport(ctx context.Context) ([]domain.SellerReportRow, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT v.vendedor_id, vd.nome,
		       COUNT(v.id) AS total_sales,
		       SUM(v.valor_total) AS total_value,
		       ROUND(AVG(v.valor_total), 2) AS average_ticket
		FROM vendas v
		JOIN vendedores vd ON v.vendedor_id = vd.id
		GROUP BY v.vendedor_id, vd.nome
		ORDER BY total_value DESC`)
	if err != nil {
		return nil, fmt.Errorf("query seller report: %w", err)
	}
	defer rows.Close()

	var out []domain.SellerReportRow
	for rows.Next() {
		var r domain.SellerReportRow
		if err := rows.Scan(&r.SellerID, &r.SellerName, &r.TotalSales, &r.TotalValue, &r.AverageTicket); err != nil {
			return nil, fmt.Errorf("scan seller report: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (m *MySQLAdapter) ProductReport(ctx context.Context) ([]domain.ProductReportRow, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT p.id, p.nome, p.categoria,
		       COALESCE(SUM(iv.quantidade), 0) AS quantity_sold,
		       COALESCE(SUM(iv.subtotal), 0) AS total_value,
		       p.estoque
		FROM produtos p
		LEFT JOIN itens_venda iv ON p.id = iv.produto_id
		GROUP BY p.id, p.nome, p.categoria, p.estoque
		ORDER BY quantity_sold DESC, total_value DESC`)
	if err != nil {
		return nil, fmt.Errorf("query product report: %w", err)
	}
	defer rows.Close()

	var out []domain.ProductReportRow
	for rows.Next() {
		var r domain.ProductReportRow
		if err := rows.Scan(&r.ProductID, &r.ProductName, &r.Category, &r.QuantitySold, &r.TotalValue, &r.CurrentStock); err != nil {
			return nil, fmt.Errorf("scan product report: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (m *MySQLAdapter) CustomerReport(ctx context.Context) ([]domain.CustomerReportRow, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT c.id, c.nome,
		       COUNT(v.id) AS total_purchases,
		       COALESCE(SUM(v.valor_total), 0) AS total_value,
		       MAX(v.data_venda) AS last_purchase
		FROM clientes c
		LEFT JOIN vendas v ON c.id = v.cliente_id
		GROUP BY c.id, c.nome
		ORDER BY total_value DESC, total_purchases DESC
		LIMIT 20`)
	if err != nil {
		return nil, fmt.Errorf("query customer report: %w", err)
	}
	defer rows.Close()

	var out []domain.CustomerReportRow
	for rows.Next() {
		var (
			r    domain.CustomerReportRow
			last sql.NullTime
		)
		if err := rows.Scan(&r.CustomerID, &r.CustomerName, &r.TotalPurchases, &r.TotalValue, &last); err != nil {
			return nil, fmt.Errorf("scan customer report: %w", err)
		}
		if last.Valid {
			r.LastPurchase = &last.Time
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SellerCustomers aggregates per seller over (seller, customer) pairs. A
// customer is recurring when it bought from that seller more than once.
func (m *MySQLAdapter) SellerCustomers(ctx context.Context) ([]domain.SellerCustomersRow, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT vd.id, vd.nome,
		       COUNT(*) AS total_customers,
		       SUM(CASE WHEN pair.sales > 1 THEN 1 ELSE 0 END) AS recurring_customers,
		       ROUND(SUM(pair.value) / SUM(pair.sales), 2) AS average_ticket
		FROM (
			SELECT v.vendedor_id, v.cliente_id, COUNT(*) AS sales, SUM(v.valor_total) AS value
			FROM vendas v
			JOIN clientes c ON v.cliente_id = c.id
			GROUP BY v.vendedor_id, v.cliente_id
		) pair
		JOIN vendedores vd ON vd.id = pair.vendedor_id
		GROUP BY vd.id, vd.nome
		ORDER BY total_customers DESC`)
	if err != nil {
		return nil, fmt.Errorf("query seller customers: %w", err)
	}
	defer rows.Close()

	var out []domain.SellerCustomersRow
	for rows.Next() {
		var r domain.SellerCustomersRow
		if err := rows.Scan(&r.SellerID, &r.SellerName, &r.TotalCustomers, &r.RecurringCustomers, &r.AverageTicket); err != nil {
			return nil, fmt.Errorf("scan seller customers: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (m *MySQLAdapter) TopRelationships(ctx context.Context) ([]domain.RelationshipRow, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT vd.nome, c.nome,
		       COUNT(v.id) AS total_interactions,
		       SUM(v.valor_total) AS total_value,
		       MAX(v.data_venda) AS last_interaction
		FROM vendas v
		JOIN vendedores vd ON v.vendedor_id = vd.id
		JOIN clientes c ON v.cliente_id = c.id
		GROUP BY vd.id, vd.nome, c.id, c.nome
		ORDER BY total_value DESC
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("query top relationships: %w", err)
	}
	defer rows.Close()

	var out []domain.RelationshipRow
	for rows.Next() {
		var r domain.RelationshipRow
		if err := rows.Scan(&r.SellerName, &r.CustomerName, &r.TotalInteractions, &r.TotalValue, &r.LastInteraction); err != nil {
			return nil, fmt.Errorf("scan top relationships: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MonthlySales reads the vw_vendas_por_vendedor view.
func (m *MySQLAdapter) MonthlySales(ctx context.Context) ([]domain.MonthlySalesRow, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT vendedor_id, vendedor_nome, ano, mes, total_vendas, valor_total, ticket_medio
		FROM vw_vendas_por_vendedor
		ORDER BY vendedor_nome, ano, mes`)
	if err != nil {
		return nil, fmt.Errorf("query monthly sales: %w", err)
	}
	defer rows.Close()

	var out []domain.MonthlySalesRow
	for rows.Next() {
		var r domain.MonthlySalesRow
		if err := rows.Scan(&r.SellerID, &r.SellerName, &r.Year, &r.Month, &r.TotalSales, &r.TotalValue, &r.AverageTicket); err != nil {
			return nil, fmt.Errorf("scan monthly sales: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
