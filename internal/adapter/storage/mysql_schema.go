package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rl1809/techstore/internal/core/domain"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS clientes (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		nome VARCHAR(100) NOT NULL,
		email VARCHAR(100) NULL,
		telefone VARCHAR(20) NOT NULL DEFAULT '',
		torce_flamengo BOOLEAN NOT NULL DEFAULT FALSE,
		assiste_one_piece BOOLEAN NOT NULL DEFAULT FALSE,
		de_sousa BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uk_clientes_email (email),
		KEY idx_clientes_nome (nome)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS vendedores (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		nome VARCHAR(100) NOT NULL,
		email VARCHAR(100) NULL,
		telefone VARCHAR(20) NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uk_vendedores_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS produtos (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		nome VARCHAR(100) NOT NULL,
		descricao VARCHAR(1000) NOT NULL DEFAULT '',
		preco DECIMAL(10,2) NOT NULL,
		categoria VARCHAR(50) NOT NULL DEFAULT '',
		estoque INT NOT NULL DEFAULT 0,
		fabricado_em VARCHAR(50) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_produtos_categoria (categoria),
		CONSTRAINT chk_produtos_preco CHECK (preco >= 0)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS formas_pagamento (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		nome VARCHAR(50) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uk_formas_pagamento_nome (nome)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS vendas (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		cliente_id BIGINT NULL,
		vendedor_id BIGINT NOT NULL,
		forma_pagamento_id BIGINT NOT NULL,
		valor_total DECIMAL(10,2) NOT NULL,
		desconto DECIMAL(10,2) NOT NULL DEFAULT 0,
		data_venda DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_vendas_data (data_venda),
		CONSTRAINT fk_vendas_cliente FOREIGN KEY (cliente_id) REFERENCES clientes (id),
		CONSTRAINT fk_vendas_vendedor FOREIGN KEY (vendedor_id) REFERENCES vendedores (id),
		CONSTRAINT fk_vendas_forma_pagamento FOREIGN KEY (forma_pagamento_id) REFERENCES formas_pagamento (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS itens_venda (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		venda_id BIGINT NOT NULL,
		produto_id BIGINT NOT NULL,
		quantidade INT NOT NULL,
		preco_unitario DECIMAL(10,2) NOT NULL,
		subtotal DECIMAL(10,2) NOT NULL,
		CONSTRAINT fk_itens_venda_venda FOREIGN KEY (venda_id) REFERENCES vendas (id) ON DELETE CASCADE,
		CONSTRAINT fk_itens_venda_produto FOREIGN KEY (produto_id) REFERENCES produtos (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE OR REPLACE VIEW vw_vendas_por_vendedor AS
		SELECT v.vendedor_id,
		       vd.nome AS vendedor_nome,
		       COUNT(v.id) AS total_vendas,
		       SUM(v.valor_total) AS valor_total,
		       ROUND(AVG(v.valor_total), 2) AS ticket_medio,
		       YEAR(v.data_venda) AS ano,
		       MONTH(v.data_venda) AS mes
		FROM vendas v
		JOIN vendedores vd ON v.vendedor_id = vd.id
		GROUP BY v.vendedor_id, vd.nome, YEAR(v.data_venda), MONTH(v.data_venda)`,
}

const (
	dropStockTrigger   = `DROP TRIGGER IF EXISTS trg_atualizar_estoque`
	createStockTrigger = `CREATE TRIGGER trg_atualizar_estoque
		BEFORE INSERT ON itens_venda
		FOR EACH ROW
		UPDATE produtos SET estoque = estoque - NEW.quantidade WHERE id = NEW.produto_id`
)

var seedPaymentMethods = []string{"Dinheiro", "Cartão de Crédito", "Cartão de Débito", "PIX"}

var seedSellers = []struct {
	name, email, phone string
}{
	{"Maria Oliveira", "maria@techstore.com", "(83) 99999-1111"},
	{"Carlos Pereira", "carlos@techstore.com", "(83) 99999-2222"},
	{"Ana Souza", "ana@techstore.com", "(83) 99999-3333"},
}

var seedProducts = []struct {
	name, description, price, category string
	stock                              int
	origin                             string
}{
	{"iPhone 15 Pro", "Smartphone Apple com câmera profissional", "8999.00", "smartphones", 15, "outros"},
	{"Samsung Galaxy S23", "Smartphone Samsung com tela AMOLED", "5499.00", "smartphones", 23, "mari"},
	{"AirPods Pro", "Fones de ouvido sem fio com cancelamento de ruído", "1899.00", "acessorios", 30, "outros"},
	{"MacBook Pro M2", "Notebook Apple com chip M2", "14999.00", "notebooks", 8, "outros"},
	{"Xiaomi Redmi Note 12", "Smartphone Xiaomi com ótimo custo-benefício", "1799.00", "smartphones", 0, "mari"},
}

// Initialize creates the schema, installs or drops the stock trigger according
// to the stock mode and seeds reference data. Running it again is harmless.
func (m *MySQLAdapter) Initialize(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	if _, err := m.db.ExecContext(ctx, dropStockTrigger); err != nil {
		return fmt.Errorf("drop stock trigger: %w", err)
	}
	if m.stock.Mode == domain.StockModeTrigger {
		if _, err := m.db.ExecContext(ctx, createStockTrigger); err != nil {
			return fmt.Errorf("create stock trigger: %w", err)
		}
	}
	zap.L().Info("schema ready", zap.String("stock_mode", string(m.stock.Mode)))

	return m.seed(ctx)
}

func (m *MySQLAdapter) seed(ctx context.Context) error {
	for _, name := range seedPaymentMethods {
		if _, err := m.db.ExecContext(ctx, `INSERT IGNORE INTO formas_pagamento (nome) VALUES (?)`, name); err != nil {
			return fmt.Errorf("seed payment method %q: %w", name, err)
		}
	}

	for _, s := range seedSellers {
		_, err := m.db.ExecContext(ctx, `
			INSERT IGNORE INTO vendedores (nome, email, telefone) VALUES (?, ?, ?)`,
			s.name, s.email, s.phone,
		)
		if err != nil {
			return fmt.Errorf("seed seller %q: %w", s.name, err)
		}
	}

	// produtos has no unique key besides id, so skip by name.
	for _, p := range seedProducts {
		_, err := m.db.ExecContext(ctx, `
			INSERT INTO produtos (nome, descricao, preco, categoria, estoque, fabricado_em)
			SELECT ?, ?, ?, ?, ?, ? FROM DUAL
			WHERE NOT EXISTS (SELECT 1 FROM produtos WHERE nome = ?)`,
			p.name, p.description, p.price, p.category, p.stock, p.origin, p.name,
		)
		if err != nil {
			return fmt.Errorf("seed product %q: %w", p.name, err)
		}
	}

	zap.L().Info("seed data ready",
		zap.Int("payment_methods", len(seedPaymentMethods)),
		zap.Int("sellers", len(seedSellers)),
		zap.Int("products", len(seedProducts)))
	return nil
}
