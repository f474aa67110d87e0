package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/techstore/internal/adapter/storage"
	"github.com/rl1809/techstore/internal/config"
	"github.com/rl1809/techstore/internal/core/domain"
	"github.com/rl1809/techstore/internal/core/service"
)

func main() {
	configDir := flag.String("config", ".", "directory containing config.yaml")
	policy := flag.String("policy", string(domain.StockPolicyReject), "stock policy: allow, reject or clamp")
	initialStock := flag.Int("stock", 20, "initial stock of the test product")
	totalRequests := flag.Int("requests", 50, "concurrent sales of one unit each")
	flag.Parse()

	if err := run(*configDir, domain.StockPolicy(*policy), *initialStock, *totalRequests); err != nil {
		fmt.Fprintf(os.Stderr, "stress test: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir string, policy domain.StockPolicy, initialStock, totalRequests int) error {
	ctx := context.Background()

	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(zap.NewNop())

	settings := domain.StockSettings{Mode: domain.StockModeApplication, Policy: policy}
	if err := settings.Validate(); err != nil {
		return err
	}

	db, err := sql.Open("mysql", cfg.Mysql.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Mysql.MaxOpenConns)
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping mysql: %w", err)
	}

	mysqlAdapter := storage.NewMySQLAdapter(db, settings)
	if err := service.NewSetupService(mysqlAdapter).Initialize(ctx); err != nil {
		return err
	}

	gormDB, err := storage.OpenGorm(db)
	if err != nil {
		return err
	}
	catalog := storage.NewGormCatalog(gormDB)

	sellers, err := catalog.ListSellers(ctx)
	if err != nil || len(sellers) == 0 {
		return fmt.Errorf("no seller available: %v", err)
	}
	methods, err := catalog.ListPaymentMethods(ctx)
	if err != nil || len(methods) == 0 {
		return fmt.Errorf("no payment method available: %v", err)
	}

	product := &domain.Product{
		Name:     "stress-" + uuid.NewString(),
		Price:    decimal.NewFromInt(10),
		Category: "outros",
		Stock:    initialStock,
		Origin:   "outros",
	}
	if err := catalog.CreateProduct(ctx, product); err != nil {
		return err
	}
	defer func() {
		// Sales keep the product referenced; remove them first.
		_, _ = db.ExecContext(ctx, "DELETE FROM vendas WHERE id IN (SELECT venda_id FROM itens_venda WHERE produto_id = ?)", product.ID)
		_, _ = db.ExecContext(ctx, "DELETE FROM produtos WHERE id = ?", product.ID)
	}()

	sales := service.NewSaleService(mysqlAdapter, catalog, catalog, nil)

	var successCount, rejectedCount, errorCount atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := sales.CreateSale(ctx, domain.NewSale{
				SellerID:        sellers[0].ID,
				PaymentMethodID: methods[0].ID,
				Items: []domain.NewSaleItem{
					{ProductID: product.ID, Quantity: 1, UnitPrice: product.Price},
				},
			}, "")
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejectedCount.Add(1)
			default:
				errorCount.Add(1)
				fmt.Printf("unexpected error: %v\n", err)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	stored, err := catalog.GetProduct(ctx, product.ID)
	if err != nil {
		return err
	}

	success := int(successCount.Load())
	rejected := int(rejectedCount.Load())

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Policy:           %s\n", policy)
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Rejected:         %d\n", rejected)
	fmt.Printf("Errors:           %d\n", errorCount.Load())
	fmt.Printf("Final Stock:      %d\n", stored.Stock)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	wantSuccess, wantStock := expected(policy, initialStock, totalRequests)
	if success == wantSuccess && rejected == totalRequests-wantSuccess {
		fmt.Printf("PASS: %d sales succeeded, %d rejected\n", success, rejected)
	} else {
		fmt.Printf("FAIL: expected %d success/%d rejected, got %d/%d\n",
			wantSuccess, totalRequests-wantSuccess, success, rejected)
	}
	if stored.Stock == wantStock {
		fmt.Printf("PASS: stock settled at %d\n", stored.Stock)
	} else {
		fmt.Printf("FAIL: expected stock %d, got %d\n", wantStock, stored.Stock)
	}
	return nil
}

func expected(policy domain.StockPolicy, stock, requests int) (success, finalStock int) {
	switch policy {
	case domain.StockPolicyReject:
		success = min(stock, requests)
		return success, stock - success
	case domain.StockPolicyClamp:
		return requests, max(0, stock-requests)
	default:
		return requests, stock - requests
	}
}
