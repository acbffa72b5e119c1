package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_String(t *testing.T) {
	tests := []struct {
		name string
		q    Quantity
		want string
	}{
		{"zero", 0, "0.0000"},
		{"whole units", NewQuantityFromInt(5), "5.0000"},
		{"fractional", NewQuantityFromInt64Scaled(12345), "1.2345"},
		{"negative", NewQuantityFromInt64Scaled(-5), "-0.0005"},
		{"negative whole", NewQuantityFromInt(-3), "-3.0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.String())
		})
	}
}

func TestQuantity_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Quantity
	}{
		{"number", `12.5`, NewQuantityFromInt64Scaled(125000)},
		{"string", `"12.5"`, NewQuantityFromInt64Scaled(125000)},
		{"integer", `7`, NewQuantityFromInt(7)},
		{"negative", `-0.25`, NewQuantityFromInt64Scaled(-2500)},
		{"null", `null`, 0},
		{"extra digits truncated", `1.23456789`, NewQuantityFromInt64Scaled(12345)},
		{"leading dot", `".5"`, NewQuantityFromInt64Scaled(5000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Quantity
			require.NoError(t, json.Unmarshal([]byte(tt.input), &q))
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestQuantity_UnmarshalJSON_Invalid(t *testing.T) {
	var q Quantity
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &q))
	assert.Error(t, json.Unmarshal([]byte(`""`), &q))
}

func TestQuantity_JSONRoundTrip(t *testing.T) {
	orig := NewQuantityFromInt64Scaled(1234567)

	data, err := json.Marshal(orig)
	require.NoError(t, err)
	assert.Equal(t, "123.4567", string(data), "marshals as a bare number")

	var back Quantity
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, orig, back)
}

func TestQuantity_Arithmetic(t *testing.T) {
	q := NewQuantityFromInt(10)

	assert.True(t, q.IsPositive())
	assert.True(t, q.Neg().IsNegative())
	assert.Equal(t, q, q.Neg().Abs())
	assert.True(t, Quantity(0).IsZero())
	assert.InDelta(t, 10.0, q.Float64(), 1e-9)
}

func TestQuantityDecimal(t *testing.T) {
	d := QuantityDecimal(NewQuantityFromInt64Scaled(15000)) // 1.5

	cost := MustMoney("4.00")
	assert.Equal(t, "6", d.Mul(cost).String())
}
