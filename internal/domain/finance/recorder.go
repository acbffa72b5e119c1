// Package finance defines the outbound-only contract to the finance
// subsystem. The inventory core never reads finance state; it only records
// expenses for purchase-type entries.
package finance

import (
	"context"
	"time"

	"stockcore/internal/core/types"
)

// Expense is one "record expense" request.
type Expense struct {
	// Amount is the movement's total cost
	Amount types.Money `json:"amount"`

	// Currency tag, no conversion is performed
	Currency string `json:"currency"`

	Description string `json:"description"`

	// Reference is the movement code for reconciliation
	Reference string `json:"reference"`

	// FundingAccountID names the account the expense is drawn from
	FundingAccountID string `json:"fundingAccountId"`

	Date time.Time `json:"date"`
}

// Recorder records expenses in the finance subsystem.
//
// Calls are synchronous and made inside the movement transaction: a failure
// aborts and rolls back the entire originating movement.
type Recorder interface {
	RecordExpense(ctx context.Context, exp Expense) error
}
