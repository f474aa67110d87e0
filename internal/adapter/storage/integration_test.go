package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/techstore/internal/adapter/storage"
	"github.com/rl1809/techstore/internal/core/domain"
	"github.com/rl1809/techstore/internal/core/service"
)

type testEnv struct {
	redis   *redis.Client
	mysql   *sql.DB
	sales   *service.SaleService
	cleanup func()
}

func setupTestEnv(t *testing.T, stock domain.StockSettings) *testEnv {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "root:root@tcp(localhost:3306)/techstore_test?parseTime=true&clientFoundRows=true"
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	adapter := storage.NewMySQLAdapter(db, stock)
	require.NoError(t, adapter.Initialize(context.Background()))

	gdb, err := storage.OpenGorm(db)
	require.NoError(t, err)
	catalog := storage.NewGormCatalog(gdb)

	return &testEnv{
		redis: rdb,
		mysql: db,
		sales: service.NewSaleService(adapter, catalog, catalog, storage.NewRedisAdapter(rdb, time.Minute)),
		cleanup: func() {
			rdb.Close()
			db.Close()
		},
	}
}

func (e *testEnv) insertProduct(t *testing.T, stock int) int64 {
	res, err := e.mysql.Exec(`INSERT INTO produtos (nome, preco, estoque) VALUES (?, 10.00, ?)`,
		"integration-"+uuid.NewString()[:8], stock)
	require.NoError(t, err)
	id, _ := res.LastInsertId()
	return id
}

func (e *testEnv) anySeller(t *testing.T) int64 {
	var id int64
	require.NoError(t, e.mysql.QueryRow(`SELECT id FROM vendedores ORDER BY id LIMIT 1`).Scan(&id))
	return id
}

func (e *testEnv) anyPaymentMethod(t *testing.T) int64 {
	var id int64
	require.NoError(t, e.mysql.QueryRow(`SELECT id FROM formas_pagamento ORDER BY id LIMIT 1`).Scan(&id))
	return id
}

func (e *testEnv) newSale(t *testing.T, productID int64) domain.NewSale {
	return domain.NewSale{
		SellerID:        e.anySeller(t),
		PaymentMethodID: e.anyPaymentMethod(t),
		Items: []domain.NewSaleItem{
			{ProductID: productID, Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		},
	}
}

func TestIntegration_RejectPolicyNeverOversells(t *testing.T) {
	env := setupTestEnv(t, domain.StockSettings{Mode: domain.StockModeApplication, Policy: domain.StockPolicyReject})
	defer env.cleanup()

	ctx := context.Background()
	initialStock := 10
	productID := env.insertProduct(t, initialStock)
	req := env.newSale(t, productID)

	var successCount, soldOutCount atomic.Int32
	var wg sync.WaitGroup
	totalRequests := 25

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.sales.CreateSale(ctx, req, uuid.NewString())
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				soldOutCount.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(initialStock), successCount.Load())
	assert.Equal(t, int32(totalRequests-initialStock), soldOutCount.Load())

	var stock, items int
	require.NoError(t, env.mysql.QueryRow(`SELECT estoque FROM produtos WHERE id = ?`, productID).Scan(&stock))
	require.NoError(t, env.mysql.QueryRow(`SELECT COUNT(*) FROM itens_venda WHERE produto_id = ?`, productID).Scan(&items))
	assert.Zero(t, stock)
	assert.Equal(t, initialStock, items)
}

func TestIntegration_AllowPolicyNoLostUpdates(t *testing.T) {
	env := setupTestEnv(t, domain.StockSettings{Mode: domain.StockModeApplication, Policy: domain.StockPolicyAllow})
	defer env.cleanup()

	ctx := context.Background()
	productID := env.insertProduct(t, 5)
	req := env.newSale(t, productID)

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.sales.CreateSale(ctx, req, ""); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	var stock int
	require.NoError(t, env.mysql.QueryRow(`SELECT estoque FROM produtos WHERE id = ?`, productID).Scan(&stock))
	assert.Equal(t, -7, stock)
}

func TestIntegration_IdempotencyPreventsDoubleSale(t *testing.T) {
	env := setupTestEnv(t, domain.StockSettings{Mode: domain.StockModeApplication, Policy: domain.StockPolicyAllow})
	defer env.cleanup()

	ctx := context.Background()
	productID := env.insertProduct(t, 10)
	key := "same-request-" + uuid.NewString()
	req := env.newSale(t, productID)

	_, err := env.sales.CreateSale(ctx, req, key)
	require.NoError(t, err)

	_, err = env.sales.CreateSale(ctx, req, key)
	assert.ErrorIs(t, err, domain.ErrDuplicateRequest)

	var stock int
	require.NoError(t, env.mysql.QueryRow(`SELECT estoque FROM produtos WHERE id = ?`, productID).Scan(&stock))
	assert.Equal(t, 9, stock)
}

func TestIntegration_FailedSaleReleasesKey(t *testing.T) {
	env := setupTestEnv(t, domain.StockSettings{Mode: domain.StockModeApplication, Policy: domain.StockPolicyReject})
	defer env.cleanup()

	ctx := context.Background()
	productID := env.insertProduct(t, 0)
	key := "retry-" + uuid.NewString()
	req := env.newSale(t, productID)

	_, err := env.sales.CreateSale(ctx, req, key)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = env.mysql.Exec(`UPDATE produtos SET estoque = 1 WHERE id = ?`, productID)
	require.NoError(t, err)

	// the same key may be used again after a failure
	_, err = env.sales.CreateSale(ctx, req, key)
	assert.NoError(t, err)
}
