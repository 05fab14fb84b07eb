package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository"
)

type transactionRepository struct {
	q Querier
}

const transactionColumns = `
	id, tenant_id, description, type, amount, datetime,
	created_at, created_by, updated_at, updated_by, deleted_at, deleted_by
`

func (r *transactionRepository) Create(ctx context.Context, transaction *model.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, tenant_id, description, type, amount, datetime,
			created_at, created_by, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt

	_, err := r.q.ExecContext(ctx, query,
		transaction.ID,
		transaction.TenantID,
		transaction.Description,
		transaction.Type,
		transaction.Amount,
		transaction.Datetime,
		transaction.CreatedAt,
		transaction.CreatedBy,
		transaction.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE tenant_id = $1 AND id = $2`

	var transaction model.Transaction
	err := r.q.GetContext(ctx, &transaction, query, tenantID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

func (r *transactionRepository) List(ctx context.Context, tenantID uuid.UUID, f repository.ListFilter) ([]*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE tenant_id = $1 AND ` +
		deletedClause(f.IncludeDeleted)
	args := []interface{}{tenantID}

	if f.Month != nil {
		query += ` AND datetime >= $2 AND datetime <= $3`
		args = append(args, f.Month.Start(), f.Month.End())
	}
	query += ` ORDER BY created_at DESC`

	transactions := []*model.Transaction{}
	if err := r.q.SelectContext(ctx, &transactions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

func (r *transactionRepository) ListForMonth(ctx context.Context, tenantID uuid.UUID, month model.Month) ([]*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE tenant_id = $1 AND deleted_at IS NULL
		AND datetime >= $2 AND datetime <= $3
		ORDER BY datetime ASC`

	transactions := []*model.Transaction{}
	if err := r.q.SelectContext(ctx, &transactions, query, tenantID, month.Start(), month.End()); err != nil {
		return nil, fmt.Errorf("failed to list month transactions: %w", err)
	}
	return transactions, nil
}

func (r *transactionRepository) Update(ctx context.Context, transaction *model.Transaction) error {
	query := `
		UPDATE transactions
		SET description = $1, type = $2, amount = $3, datetime = $4,
			updated_at = $5, updated_by = $6
		WHERE tenant_id = $7 AND id = $8 AND deleted_at IS NULL
	`
	transaction.UpdatedAt = time.Now()

	result, err := r.q.ExecContext(ctx, query,
		transaction.Description,
		transaction.Type,
		transaction.Amount,
		transaction.Datetime,
		transaction.UpdatedAt,
		transaction.UpdatedBy,
		transaction.TenantID,
		transaction.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("transaction not found")
	}
	return nil
}

func (r *transactionRepository) SetTombstone(ctx context.Context, tenantID, id uuid.UUID, deletedAt *time.Time, deletedBy *uuid.UUID) (bool, error) {
	return setTombstone(ctx, r.q, "transactions", tenantID, id, deletedAt, deletedBy)
}
