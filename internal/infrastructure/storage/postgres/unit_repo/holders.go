package unit_repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"stockcore/internal/core/id"
	"stockcore/internal/domain/units"
	"stockcore/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ units.HolderDirectory = (*HolderDirectory)(nil)

// HolderDirectory resolves assignment targets against the HR and project
// tables owned by the surrounding ERP. Read-only.
type HolderDirectory struct {
	txm *postgres.TxManager
}

// NewHolderDirectory creates a new holder directory.
func NewHolderDirectory(txm *postgres.TxManager) *HolderDirectory {
	return &HolderDirectory{txm: txm}
}

// EmployeeExists checks the employee table.
func (d *HolderDirectory) EmployeeExists(ctx context.Context, employeeID id.ID) (bool, error) {
	return d.exists(ctx, "SELECT 1 FROM hr_employees WHERE id = $1 AND deletion_mark = false LIMIT 1", employeeID)
}

// ProjectExists checks the project table.
func (d *HolderDirectory) ProjectExists(ctx context.Context, projectID id.ID) (bool, error) {
	return d.exists(ctx, "SELECT 1 FROM prj_projects WHERE id = $1 AND deletion_mark = false LIMIT 1", projectID)
}

func (d *HolderDirectory) exists(ctx context.Context, sql string, entityID id.ID) (bool, error) {
	var one int
	err := d.txm.GetQuerier(ctx).QueryRow(ctx, sql, entityID).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("holder lookup: %w", err)
	}

	return true, nil
}
