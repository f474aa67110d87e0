package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rl1809/techstore/internal/core/domain"
)

// OpenGorm wraps an already configured pool so the catalog shares connections
// with the sale workflow.
func OpenGorm(db *sql.DB) (*gorm.DB, error) {
	gormLogger := logger.New(zap.NewStdLog(zap.L()), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{Conn: db}), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return gdb, nil
}

// GormCatalog stores customers, sellers, products and payment methods.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func (g *GormCatalog) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	var methods []domain.PaymentMethod
	if err := g.db.WithContext(ctx).Order("nome").Find(&methods).Error; err != nil {
		return nil, fmt.Errorf("query payment methods: %w", err)
	}
	return methods, nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// countReferences counts rows of table whose column equals id.
func countReferences(tx *gorm.DB, table, column string, id int64) (int64, error) {
	var n int64
	err := tx.Table(table).Where(column+" = ?", id).Count(&n).Error
	return n, err
}
