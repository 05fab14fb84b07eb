package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vetdesk/backoffice-api/internal/repository"
)

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx so every repository
// method runs unchanged inside or outside a transaction.
type Querier interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Store implements repository.Store over Postgres.
type Store struct {
	db *sqlx.DB
	q  Querier
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Users() repository.UserRepository               { return &userRepository{q: s.q} }
func (s *Store) Tenants() repository.TenantRepository           { return &tenantRepository{q: s.q} }
func (s *Store) Doctors() repository.DoctorRepository           { return &doctorRepository{q: s.q} }
func (s *Store) Specialties() repository.SpecialtyRepository    { return &specialtyRepository{q: s.q} }
func (s *Store) Appointments() repository.AppointmentRepository { return &appointmentRepository{q: s.q} }
func (s *Store) Transactions() repository.TransactionRepository { return &transactionRepository{q: s.q} }
func (s *Store) Sessions() repository.SessionRepository         { return &sessionRepository{q: s.q} }

// InTx runs fn with a Store bound to a single transaction. Nested calls join
// the surrounding transaction.
func (s *Store) InTx(ctx context.Context, fn func(repository.Store) error) error {
	if _, ok := s.q.(*sqlx.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// setTombstone stamps or clears the soft-delete columns of one tenant-scoped
// row. The state condition is part of the statement, so a concurrent
// delete/restore of the same row makes exactly one of the writers see
// affected=0 instead of silently double-stamping.
func setTombstone(ctx context.Context, q Querier, table string, tenantID, id uuid.UUID, deletedAt *time.Time, deletedBy *uuid.UUID) (bool, error) {
	var (
		res sql.Result
		err error
	)
	if deletedAt != nil {
		query := fmt.Sprintf(`
			UPDATE %s
			SET deleted_at = $1, deleted_by = $2
			WHERE tenant_id = $3 AND id = $4 AND deleted_at IS NULL
		`, table)
		res, err = q.ExecContext(ctx, query, deletedAt, deletedBy, tenantID, id)
	} else {
		query := fmt.Sprintf(`
			UPDATE %s
			SET deleted_at = NULL, deleted_by = NULL
			WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NOT NULL
		`, table)
		res, err = q.ExecContext(ctx, query, tenantID, id)
	}
	if err != nil {
		return false, fmt.Errorf("failed to update %s tombstone: %w", table, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// deletedClause returns the soft-delete predicate for a listing: live rows by
// default, exclusively tombstoned rows when includeDeleted is set.
func deletedClause(includeDeleted bool) string {
	if includeDeleted {
		return "deleted_at IS NOT NULL"
	}
	return "deleted_at IS NULL"
}
