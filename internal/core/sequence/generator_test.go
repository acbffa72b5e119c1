package sequence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Key(t *testing.T) {
	at := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"month bucket", Config{Prefix: "MV", Bucket: BucketYearMonth}, "MV_202608"},
		{"year bucket", Config{Prefix: "DOC", Bucket: BucketYear}, "DOC_2026"},
		{"no bucket", Config{Prefix: "LAPTOP", Bucket: BucketNone}, "LAPTOP"},
		{"empty bucket defaults to none", Config{Prefix: "X"}, "X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Key(at))
		})
	}
}

func TestConfig_Format(t *testing.T) {
	at := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cfg  Config
		num  int64
		want string
	}{
		{"month bucket", Config{Prefix: "MV", Bucket: BucketYearMonth, PadWidth: 5}, 42, "MV-202608-00042"},
		{"year bucket", Config{Prefix: "DOC", Bucket: BucketYear, PadWidth: 5}, 7, "DOC-2026-00007"},
		{"no bucket", Config{Prefix: "LAPTOP", Bucket: BucketNone, PadWidth: 5}, 3, "LAPTOP-00003"},
		{"zero pad width defaults to 5", Config{Prefix: "MV", Bucket: BucketYearMonth}, 1, "MV-202608-00001"},
		{"number wider than pad", Config{Prefix: "U", Bucket: BucketNone, PadWidth: 3}, 123456, "U-123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Format(at, tt.num))
		})
	}
}

func TestMovementConfig(t *testing.T) {
	cfg := MovementConfig()
	at := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "MV_202601", cfg.Key(at))
	assert.Equal(t, "MV-202601-00001", cfg.Format(at, 1))
}

func TestUnitConfig(t *testing.T) {
	cfg := UnitConfig("LAPTOP")
	at := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	// Unit codes are product-scoped and never restart, so the key carries
	// no time component.
	assert.Equal(t, "LAPTOP", cfg.Key(at))
	assert.Equal(t, "LAPTOP-00042", cfg.Format(at, 42))
}
