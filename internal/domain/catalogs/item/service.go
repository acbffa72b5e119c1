package item

import (
	"context"
	"fmt"
	"time"

	"stockcore/internal/core/id"
	"stockcore/internal/core/sequence"
	"stockcore/pkg/logger"
)

// Service provides business logic for the Item catalog.
type Service struct {
	repo Repository
	seq  sequence.Generator
}

// NewService creates a new Item service.
func NewService(repo Repository, seq sequence.Generator) *Service {
	return &Service{
		repo: repo,
		seq:  seq,
	}
}

// Create validates and persists an item, generating a code when absent.
func (s *Service) Create(ctx context.Context, it *Item) error {
	if err := it.Validate(ctx); err != nil {
		return err
	}

	if it.Code == "" {
		code, err := s.seq.Next(ctx, sequence.Config{Prefix: "ITM", Bucket: sequence.BucketNone}, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		it.Code = code
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	logger.Info(ctx, "item created", "id", it.ID, "code", it.Code)
	return nil
}

// GetByID retrieves an item.
func (s *Service) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

// GetByCode retrieves an item by its code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Item, error) {
	return s.repo.GetByCode(ctx, code)
}

// Update validates and persists administrative changes to an item.
// Stock aggregates and unit cost are owned by the ledger, not this path.
func (s *Service) Update(ctx context.Context, it *Item) error {
	if err := it.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, it)
}

// List returns items, excluding soft-deleted ones.
func (s *Service) List(ctx context.Context) ([]*Item, error) {
	return s.repo.List(ctx, false)
}

// Delete soft-deletes an item.
func (s *Service) Delete(ctx context.Context, itemID id.ID) error {
	return s.repo.SetDeletionMark(ctx, itemID, true)
}
