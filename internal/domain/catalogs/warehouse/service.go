package warehouse

import (
	"context"
	"fmt"
	"time"

	"stockcore/internal/core/id"
	"stockcore/internal/core/sequence"
	"stockcore/pkg/logger"
)

// Service provides business logic for the Warehouse catalog.
type Service struct {
	repo Repository
	seq  sequence.Generator
}

// NewService creates a new Warehouse service.
func NewService(repo Repository, seq sequence.Generator) *Service {
	return &Service{
		repo: repo,
		seq:  seq,
	}
}

// Create validates and persists a warehouse, generating a code when absent.
func (s *Service) Create(ctx context.Context, wh *Warehouse) error {
	if err := wh.Validate(ctx); err != nil {
		return err
	}

	if wh.Code == "" {
		code, err := s.seq.Next(ctx, sequence.Config{Prefix: "WH", Bucket: sequence.BucketNone}, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		wh.Code = code
	}

	if err := s.repo.Create(ctx, wh); err != nil {
		return fmt.Errorf("create warehouse: %w", err)
	}

	logger.Info(ctx, "warehouse created", "id", wh.ID, "code", wh.Code)
	return nil
}

// GetByID retrieves a warehouse.
func (s *Service) GetByID(ctx context.Context, whID id.ID) (*Warehouse, error) {
	return s.repo.GetByID(ctx, whID)
}

// GetByCode retrieves a warehouse by its code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Warehouse, error) {
	return s.repo.GetByCode(ctx, code)
}

// Update validates and persists changes to a warehouse.
func (s *Service) Update(ctx context.Context, wh *Warehouse) error {
	if err := wh.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, wh)
}

// List returns warehouses, excluding soft-deleted ones.
func (s *Service) List(ctx context.Context) ([]*Warehouse, error) {
	return s.repo.List(ctx, false)
}

// Delete soft-deletes a warehouse.
func (s *Service) Delete(ctx context.Context, whID id.ID) error {
	return s.repo.SetDeletionMark(ctx, whID, true)
}
