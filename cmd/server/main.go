package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/rl1809/techstore/internal/adapter/handler"
	"github.com/rl1809/techstore/internal/adapter/storage"
	"github.com/rl1809/techstore/internal/config"
	"github.com/rl1809/techstore/internal/core/service"
	"github.com/rl1809/techstore/internal/discovery"
	"github.com/rl1809/techstore/internal/logger"
	"github.com/rl1809/techstore/internal/port"
	"github.com/rl1809/techstore/internal/tracer"
)

func main() {
	configDir := flag.String("config", ".", "directory containing config.yaml")
	initDB := flag.Bool("init-db", false, "create schema and seed data before serving")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.Init(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, *initDB); err != nil {
		log.Error("server exited", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, initDB bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracer.Init(ctx, cfg.Service.Name, cfg.Tracing.Endpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			zap.L().Warn("flush traces", zap.Error(err))
		}
	}()

	// MySQL
	db, err := sql.Open("mysql", cfg.Mysql.DSN())
	if err != nil {
		return fmt.Errorf("open mysql: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Mysql.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Mysql.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Mysql.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping mysql: %w", err)
	}
	zap.L().Info("connected to mysql",
		zap.String("host", cfg.Mysql.Host),
		zap.String("database", cfg.Mysql.DbName))

	gormDB, err := storage.OpenGorm(db)
	if err != nil {
		return err
	}

	// Redis is optional; without it idempotency keys are ignored.
	var idempotency port.IdempotencyStore
	if cfg.Redis.Address != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Db,
			PoolSize: 100,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		idempotency = storage.NewRedisAdapter(rdb, cfg.Redis.IdempotencyTTL)
		zap.L().Info("connected to redis", zap.String("address", cfg.Redis.Address))
	} else {
		zap.L().Info("redis not configured, idempotency keys disabled")
	}

	// Adapters and services
	stock := cfg.Stock.Settings()
	mysqlAdapter := storage.NewMySQLAdapter(db, stock)
	catalog := storage.NewGormCatalog(gormDB)

	commission, err := cfg.CommissionRate()
	if err != nil {
		return err
	}

	saleService := service.NewSaleService(mysqlAdapter, catalog, catalog, idempotency)
	setupService := service.NewSetupService(mysqlAdapter)

	if initDB {
		if err := setupService.Initialize(ctx); err != nil {
			return err
		}
	}

	httpHandler := handler.NewHTTPHandler(
		saleService,
		service.NewCustomerService(catalog),
		service.NewSellerService(catalog),
		service.NewProductService(catalog),
		service.NewReportService(mysqlAdapter, commission),
		setupService,
	)
	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: handler.NewRouter(httpHandler, cfg.Service.Name),
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	handler.RegisterSalesServer(grpcServer, handler.NewGRPCHandler(saleService))

	zap.L().Info("stock settings",
		zap.String("mode", string(stock.Mode)),
		zap.String("policy", string(stock.Policy)))

	// Bind before any server goroutine starts so a failure here leaves nothing running.
	var grpcLis net.Listener
	if cfg.Server.GRPCAddr != "" {
		grpcLis, err = net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listen grpc: %w", err)
		}
	}

	if grpcLis != nil && cfg.Consul.Address != "" {
		deregister, err := discovery.Register(cfg.Service.Name, cfg.Server.GRPCAddr, cfg.Consul.Address)
		if err != nil {
			zap.L().Warn("consul registration failed", zap.Error(err))
		} else {
			defer func() {
				if err := deregister(); err != nil {
					zap.L().Warn("consul deregistration failed", zap.Error(err))
				}
			}()
		}
	}

	err = serve(ctx, httpServer, grpcServer, grpcLis, cfg.Server.ShutdownTimeout)
	zap.L().Info("shutdown complete")
	return err
}

// serve runs both servers until ctx is done or one of them fails, then shuts
// both down. grpcLis may be nil to run HTTP only.
func serve(ctx context.Context, httpServer *http.Server, grpcServer *grpc.Server, grpcLis net.Listener, shutdownTimeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.L().Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if grpcLis != nil {
		g.Go(func() error {
			zap.L().Info("gRPC server listening", zap.String("addr", grpcLis.Addr().String()))
			if err := grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("http shutdown", zap.Error(err))
		}
		zap.L().Info("HTTP server stopped")

		grpcServer.GracefulStop()
		zap.L().Info("gRPC server stopped")
		return nil
	})

	return g.Wait()
}
