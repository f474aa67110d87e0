package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rl1809/techstore/internal/port"
)

type SetupService struct {
	schema port.SchemaRepository
}

func NewSetupService(schema port.SchemaRepository) *SetupService {
	return &SetupService{schema: schema}
}

// Initialize is safe to run repeatedly.
func (s *SetupService) Initialize(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "SetupService.Initialize")
	defer span.End()

	if err := s.schema.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	zap.L().Info("database initialized")
	return nil
}
