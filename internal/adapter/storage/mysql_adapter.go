package storage

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/techstore/internal/core/domain"
)

const (
	mysqlErrDuplicateEntry = 1062
	mysqlErrRowReferenced  = 1451
)

type MySQLAdapter struct {
	db    *sql.DB
	stock domain.StockSettings
}

func NewMySQLAdapter(db *sql.DB, stock domain.StockSettings) *MySQLAdapter {
	return &MySQLAdapter{db: db, stock: stock}
}

// CreateSale writes the customer, the sale header, its line items and the
// stock changes atomically. Any error rolls the whole sale back.
func (m *MySQLAdapter) CreateSale(ctx context.Context, sale domain.SaleDraft) (int64, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var customerID sql.NullInt64
	switch {
	case sale.CustomerID != nil:
		customerID = sql.NullInt64{Int64: *sale.CustomerID, Valid: true}
	case sale.Customer != nil:
		id, err := upsertCustomer(ctx, tx, sale.Customer)
		if err != nil {
			return 0, err
		}
		customerID = sql.NullInt64{Int64: id, Valid: true}
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO vendas (cliente_id, vendedor_id, forma_pagamento_id, valor_total, desconto)
		VALUES (?, ?, ?, ?, ?)`,
		customerID, sale.SellerID, sale.PaymentMethodID, sale.Total, sale.Discount,
	)
	if err != nil {
		return 0, fmt.Errorf("insert sale: %w", err)
	}
	saleID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sale id: %w", err)
	}

	// Lock products in id order before the item inserts take shared locks on them.
	if m.stock.Mode == domain.StockModeApplication {
		for _, line := range linesByProduct(sale.Lines) {
			if err := m.decrementStock(ctx, tx, line); err != nil {
				return 0, err
			}
		}
	}

	for _, line := range sale.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO itens_venda (venda_id, produto_id, quantidade, preco_unitario, subtotal)
			VALUES (?, ?, ?, ?, ?)`,
			saleID, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal,
		)
		if err != nil {
			return 0, fmt.Errorf("insert item for product %d: %w", line.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sale: %w", err)
	}
	return saleID, nil
}

// upsertCustomer inserts the customer or, when the email already exists,
// returns the existing row id. NULL emails never collide so the statement
// degrades to a plain insert.
func upsertCustomer(ctx context.Context, tx *sql.Tx, c *domain.CustomerInput) (int64, error) {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO clientes (nome, email, telefone, torce_flamengo, assiste_one_piece, de_sousa)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`,
		c.Name, nullString(c.Email), c.Phone, c.FlamengoFan, c.OnePieceWatcher, c.FromSousa,
	)
	if err != nil {
		return 0, fmt.Errorf("upsert customer: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("customer id: %w", err)
	}
	return id, nil
}

func (m *MySQLAdapter) decrementStock(ctx context.Context, tx *sql.Tx, line domain.SaleLine) error {
	var (
		result sql.Result
		err    error
	)
	switch m.stock.Policy {
	case domain.StockPolicyReject:
		result, err = tx.ExecContext(ctx, `
			UPDATE produtos SET estoque = estoque - ?
			WHERE id = ? AND estoque >= ?`,
			line.Quantity, line.ProductID, line.Quantity,
		)
	case domain.StockPolicyClamp:
		result, err = tx.ExecContext(ctx, `
			UPDATE produtos SET estoque = GREATEST(estoque - ?, 0)
			WHERE id = ?`,
			line.Quantity, line.ProductID,
		)
	default:
		result, err = tx.ExecContext(ctx, `
			UPDATE produtos SET estoque = estoque - ?
			WHERE id = ?`,
			line.Quantity, line.ProductID,
		)
	}
	if err != nil {
		return fmt.Errorf("update stock of product %d: %w", line.ProductID, err)
	}

	// Needs clientFoundRows in the DSN so unchanged rows still count as matched.
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("stock rows of product %d: %w", line.ProductID, err)
	}
	if rows > 0 {
		return nil
	}
	if m.stock.Policy == domain.StockPolicyReject {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM produtos WHERE id = ?`, line.ProductID).Scan(&exists)
		if err == nil {
			return fmt.Errorf("product %d: %w", line.ProductID, domain.ErrInsufficientStock)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check product %d: %w", line.ProductID, err)
		}
	}
	return fmt.Errorf("product %d: %w", line.ProductID, domain.ErrProductNotFound)
}

func (m *MySQLAdapter) ListSales(ctx context.Context) ([]domain.SaleSummary, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT v.id, c.nome, vd.nome, fp.nome, v.valor_total, v.desconto, v.data_venda
		FROM vendas v
		LEFT JOIN clientes c ON v.cliente_id = c.id
		JOIN vendedores vd ON v.vendedor_id = vd.id
		JOIN formas_pagamento fp ON v.forma_pagamento_id = fp.id
		ORDER BY v.data_venda DESC, v.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.SaleSummary
	for rows.Next() {
		var (
			s            domain.SaleSummary
			customerName sql.NullString
		)
		if err := rows.Scan(&s.ID, &customerName, &s.SellerName, &s.PaymentMethod, &s.Total, &s.Discount, &s.SoldAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		s.CustomerName = stringPtr(customerName)
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (m *MySQLAdapter) GetSaleDetails(ctx context.Context, id int64) (*domain.SaleDetails, error) {
	var (
		d             domain.SaleDetails
		customerID    sql.NullInt64
		customerName  sql.NullString
		customerEmail sql.NullString
	)
	err := m.db.QueryRowContext(ctx, `
		SELECT v.id, v.cliente_id, c.nome, c.email, v.vendedor_id, vd.nome,
		       v.forma_pagamento_id, fp.nome, v.valor_total, v.desconto, v.data_venda
		FROM vendas v
		LEFT JOIN clientes c ON v.cliente_id = c.id
		JOIN vendedores vd ON v.vendedor_id = vd.id
		JOIN formas_pagamento fp ON v.forma_pagamento_id = fp.id
		WHERE v.id = ?`, id,
	).Scan(&d.ID, &customerID, &customerName, &customerEmail, &d.SellerID, &d.SellerName,
		&d.PaymentMethodID, &d.PaymentMethod, &d.Total, &d.Discount, &d.SoldAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSaleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query sale %d: %w", id, err)
	}

	if customerID.Valid {
		d.CustomerID = &customerID.Int64
	}
	d.CustomerName = stringPtr(customerName)
	d.CustomerEmail = stringPtr(customerEmail)

	d.Items, err = m.ListSaleProducts(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Items == nil {
		d.Items = []domain.SaleProduct{}
	}
	return &d, nil
}

func (m *MySQLAdapter) ListSaleProducts(ctx context.Context, id int64) ([]domain.SaleProduct, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT iv.id, iv.produto_id, p.nome, iv.quantidade, iv.preco_unitario, iv.subtotal
		FROM itens_venda iv
		JOIN produtos p ON iv.produto_id = p.id
		WHERE iv.venda_id = ?
		ORDER BY iv.id`, id)
	if err != nil {
		return nil, fmt.Errorf("query sale items: %w", err)
	}
	defer rows.Close()

	var items []domain.SaleProduct
	for rows.Next() {
		var it domain.SaleProduct
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// DeleteSale does not give the stock back.
func (m *MySQLAdapter) DeleteSale(ctx context.Context, id int64) error {
	result, err := m.db.ExecContext(ctx, `DELETE FROM vendas WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete sale %d: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete sale %d: %w", id, err)
	}
	if rows == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

func linesByProduct(lines []domain.SaleLine) []domain.SaleLine {
	sorted := slices.Clone(lines)
	slices.SortStableFunc(sorted, func(a, b domain.SaleLine) int {
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	return sorted
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// translateMySQLError maps constraint violations onto domain errors, keeping
// the driver error in the chain.
func translateMySQLError(err, referenced, duplicate error) error {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return err
	}
	switch {
	case myErr.Number == mysqlErrRowReferenced && referenced != nil:
		return fmt.Errorf("%w: %w", referenced, err)
	case myErr.Number == mysqlErrDuplicateEntry && duplicate != nil:
		return fmt.Errorf("%w: %w", duplicate, err)
	}
	return err
}
