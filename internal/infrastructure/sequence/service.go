// Package sequence provides the PostgreSQL implementation of collision-free
// code issuance. It implements core/sequence.Generator.
package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	coreseq "stockcore/internal/core/sequence"
	"stockcore/internal/infrastructure/storage/postgres"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service issues codes backed by the sys_sequences table.
//
// The upsert increments the stored last value under the implicit row lock
// Postgres takes for ON CONFLICT DO UPDATE, so concurrent issuances for the
// same key serialize at the database. When called inside a transaction the
// increment rolls back with it; consumed values are otherwise never reused,
// soft-deleted records included.
type Service struct {
	querier Querier
}

// Ensure compile-time interface compliance.
var _ coreseq.Generator = (*Service)(nil)

// New creates a sequence service on an explicit querier.
func New(querier Querier) *Service {
	return &Service{querier: querier}
}

// NewWithTxManager creates a sequence service that follows the caller's
// transaction: issuance joins the enclosing unit of work and rolls back
// with it.
func NewWithTxManager(txm *postgres.TxManager) *Service {
	return &Service{querier: txQuerier{txm}}
}

// txQuerier resolves tx-or-pool per call.
type txQuerier struct {
	txm *postgres.TxManager
}

func (q txQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return q.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...)
}

// Next issues a single code.
func (s *Service) Next(ctx context.Context, cfg coreseq.Config, at time.Time) (string, error) {
	last, err := s.advance(ctx, cfg.Key(at), 1)
	if err != nil {
		return "", err
	}

	return cfg.Format(at, last), nil
}

// NextBlock reserves n contiguous codes in one locked increment, so two
// concurrent batches for the same scope never interleave.
func (s *Service) NextBlock(ctx context.Context, cfg coreseq.Config, at time.Time, n int) ([]string, error) {
	if n < 1 {
		return nil, fmt.Errorf("block size must be positive, got %d", n)
	}

	last, err := s.advance(ctx, cfg.Key(at), int64(n))
	if err != nil {
		return nil, err
	}

	first := last - int64(n) + 1
	codes := make([]string, 0, n)
	for num := first; num <= last; num++ {
		codes = append(codes, cfg.Format(at, num))
	}

	return codes, nil
}

// advance bumps the sequence by n and returns the new last value.
func (s *Service) advance(ctx context.Context, key string, n int64) (int64, error) {
	var last int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, last_value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET last_value = sys_sequences.last_value + $2
		RETURNING last_value
	`, key, n).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("advance sequence %s: %w", key, err)
	}

	return last, nil
}

// SetLastValue overwrites the stored last value for a key (migrations only).
func (s *Service) SetLastValue(ctx context.Context, key string, value int64) error {
	var result int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, last_value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET last_value = $2
		RETURNING last_value
	`, key, value).Scan(&result)
	if err != nil {
		return fmt.Errorf("set sequence %s: %w", key, err)
	}

	return nil
}
