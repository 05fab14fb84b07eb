package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		avatar_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS tenants (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS user_tenants (
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		tenant_id UUID NOT NULL REFERENCES tenants(id),
		role TEXT NOT NULL,
		PRIMARY KEY (user_id, tenant_id)
	)`,
	`CREATE TABLE IF NOT EXISTS specialties (
		id UUID PRIMARY KEY,
		tenant_id UUID NOT NULL REFERENCES tenants(id),
		name TEXT NOT NULL,
		default_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		created_by UUID,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_by UUID,
		deleted_at TIMESTAMPTZ,
		deleted_by UUID
	)`,
	`CREATE TABLE IF NOT EXISTS doctors (
		id UUID PRIMARY KEY,
		tenant_id UUID NOT NULL REFERENCES tenants(id),
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		crm TEXT,
		specialty_id UUID REFERENCES specialties(id),
		perc_professional NUMERIC(5,2) NOT NULL DEFAULT 0,
		appointment_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		created_by UUID,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_by UUID,
		deleted_at TIMESTAMPTZ,
		deleted_by UUID
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id UUID PRIMARY KEY,
		tenant_id UUID NOT NULL REFERENCES tenants(id),
		doctor_id UUID NOT NULL REFERENCES doctors(id),
		fee NUMERIC(12,2) NOT NULL,
		perc_professional NUMERIC(5,2) NOT NULL,
		datetime TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		created_by UUID,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_by UUID,
		deleted_at TIMESTAMPTZ,
		deleted_by UUID
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		tenant_id UUID NOT NULL REFERENCES tenants(id),
		description TEXT NOT NULL,
		type TEXT NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		datetime TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		created_by UUID,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_by UUID,
		deleted_at TIMESTAMPTZ,
		deleted_by UUID
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		tenant_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_tenant_datetime
		ON appointments (tenant_id, datetime)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_doctor
		ON appointments (tenant_id, doctor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_tenant_datetime
		ON transactions (tenant_id, datetime)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at
		ON sessions (expires_at)`,
}

// Migrate applies the schema. Statements are idempotent so repeated runs are
// safe.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
