package sequence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreseq "stockcore/internal/core/sequence"
)

// Mock objects

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the sys_sequences upsert: every call adds the
// increment (args[1]) to the per-key value and returns the new last value.
type mockQuerier struct {
	mu     sync.Mutex
	values map[string]int64
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{values: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, _ := args[0].(string)
	incr, _ := args[1].(int64)

	m.values[key] += incr
	return &mockRow{val: m.values[key]}
}

func TestNext_Monotonic(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := coreseq.MovementConfig()
	at := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	first, err := svc.Next(ctx, cfg, at)
	require.NoError(t, err)
	assert.Equal(t, "MV-202608-00001", first)

	second, err := svc.Next(ctx, cfg, at)
	require.NoError(t, err)
	assert.Equal(t, "MV-202608-00002", second)
}

func TestNext_ScopesAreIndependent(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	at := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	mv, err := svc.Next(ctx, coreseq.MovementConfig(), at)
	require.NoError(t, err)
	unit, err := svc.Next(ctx, coreseq.UnitConfig("LAPTOP"), at)
	require.NoError(t, err)

	// Both scopes start at 1: they share nothing.
	assert.Equal(t, "MV-202608-00001", mv)
	assert.Equal(t, "LAPTOP-00001", unit)
}

func TestNext_MonthRollover(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := coreseq.MovementConfig()

	aug := time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)
	sep := time.Date(2026, 9, 1, 1, 0, 0, 0, time.UTC)

	_, err := svc.Next(ctx, cfg, aug)
	require.NoError(t, err)

	code, err := svc.Next(ctx, cfg, sep)
	require.NoError(t, err)
	assert.Equal(t, "MV-202609-00001", code, "new month restarts numbering")
}

func TestNextBlock_Contiguous(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := coreseq.UnitConfig("LAPTOP")
	at := time.Now()

	// Consume a few singles first so the block does not start at 1.
	_, err := svc.Next(ctx, cfg, at)
	require.NoError(t, err)
	_, err = svc.Next(ctx, cfg, at)
	require.NoError(t, err)

	codes, err := svc.NextBlock(ctx, cfg, at, 5)
	require.NoError(t, err)
	require.Len(t, codes, 5)

	assert.Equal(t, []string{
		"LAPTOP-00003",
		"LAPTOP-00004",
		"LAPTOP-00005",
		"LAPTOP-00006",
		"LAPTOP-00007",
	}, codes)

	// Next single continues right after the block.
	next, err := svc.Next(ctx, cfg, at)
	require.NoError(t, err)
	assert.Equal(t, "LAPTOP-00008", next)
}

func TestNextBlock_SingleUpsert(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := coreseq.UnitConfig("LAPTOP")

	_, err := svc.NextBlock(ctx, cfg, time.Now(), 10)
	require.NoError(t, err)

	// One upsert advanced the stored value by the whole block size.
	assert.Equal(t, int64(10), q.values["LAPTOP"])
}

func TestNextBlock_RejectsNonPositiveSize(t *testing.T) {
	svc := New(newMockQuerier())

	_, err := svc.NextBlock(context.Background(), coreseq.UnitConfig("X"), time.Now(), 0)
	assert.Error(t, err)

	_, err = svc.NextBlock(context.Background(), coreseq.UnitConfig("X"), time.Now(), -3)
	assert.Error(t, err)
}

func TestNextBlock_ConcurrentBlocksNeverInterleave(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := coreseq.UnitConfig("LAPTOP")
	at := time.Now()

	const workers = 8
	const blockSize = 5

	results := make([][]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes, err := svc.NextBlock(ctx, cfg, at, blockSize)
			assert.NoError(t, err)
			results[i] = codes
		}(i)
	}
	wg.Wait()

	// Every issued code must be unique across all blocks.
	seen := make(map[string]struct{})
	for _, codes := range results {
		require.Len(t, codes, blockSize)
		for _, c := range codes {
			_, dup := seen[c]
			assert.False(t, dup, "code %s issued twice", c)
			seen[c] = struct{}{}
		}
	}
	assert.Len(t, seen, workers*blockSize)
}
