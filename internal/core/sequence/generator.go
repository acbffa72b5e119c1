// Package sequence provides the domain contract for collision-free code
// issuance. Implementations live in the infrastructure layer.
package sequence

import (
	"context"
	"fmt"
	"time"
)

// Generator issues monotonically increasing, prefix-scoped codes.
//
// Implementations must persist the last issued value per scope forever:
// codes consumed by soft-deleted records are never reused.
type Generator interface {
	// Next issues a single code.
	// Pattern: PREFIX[-BUCKET]-XXXXX (e.g., MV-202608-00042)
	Next(ctx context.Context, cfg Config, at time.Time) (string, error)

	// NextBlock reserves n contiguous codes in one locked read so two
	// concurrent batch issuances for the same scope never interleave.
	// Returns the codes in ascending order.
	NextBlock(ctx context.Context, cfg Config, at time.Time, n int) ([]string, error)
}

// Bucket controls how the scope key is time-partitioned.
type Bucket string

const (
	// BucketNone keeps one sequence per prefix forever (unit codes).
	BucketNone Bucket = "none"
	// BucketYear restarts numbering each year.
	BucketYear Bucket = "year"
	// BucketYearMonth restarts numbering each month (movement codes).
	BucketYearMonth Bucket = "month"
)

// Config holds code-issuance configuration for one scope.
type Config struct {
	// Prefix added to all codes (e.g., "MV", a product code)
	Prefix string

	// Bucket selects time partitioning of the scope
	Bucket Bucket

	// PadWidth is the minimum number width (default 5)
	PadWidth int
}

// MovementConfig returns the year-month scoped config used for movement codes.
func MovementConfig() Config {
	return Config{Prefix: "MV", Bucket: BucketYearMonth, PadWidth: 5}
}

// UnitConfig returns the product-scoped config used for unit codes.
func UnitConfig(productCode string) Config {
	return Config{Prefix: productCode, Bucket: BucketNone, PadWidth: 5}
}

// Key builds the sequence scope key for a point in time.
func (c Config) Key(at time.Time) string {
	switch c.Bucket {
	case BucketYearMonth:
		return fmt.Sprintf("%s_%s", c.Prefix, at.Format("200601"))
	case BucketYear:
		return fmt.Sprintf("%s_%s", c.Prefix, at.Format("2006"))
	default:
		return c.Prefix
	}
}

// Format renders the final code for a sequence number.
func (c Config) Format(at time.Time, num int64) string {
	pad := c.PadWidth
	if pad == 0 {
		pad = 5
	}

	switch c.Bucket {
	case BucketYearMonth:
		return fmt.Sprintf("%s-%s-%0*d", c.Prefix, at.Format("200601"), pad, num)
	case BucketYear:
		return fmt.Sprintf("%s-%s-%0*d", c.Prefix, at.Format("2006"), pad, num)
	default:
		return fmt.Sprintf("%s-%0*d", c.Prefix, pad, num)
	}
}
