package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vetdesk/backoffice-api/internal/model"
)

type tenantRepository struct {
	q Querier
}

func (r *tenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, created_at)
		VALUES ($1, $2, $3)
	`
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	if tenant.CreatedAt.IsZero() {
		tenant.CreatedAt = time.Now()
	}

	_, err := r.q.ExecContext(ctx, query, tenant.ID, tenant.Name, tenant.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

func (r *tenantRepository) Get(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	query := `
		SELECT id, name, created_at, deleted_at
		FROM tenants
		WHERE id = $1
	`
	var tenant model.Tenant
	err := r.q.GetContext(ctx, &tenant, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &tenant, nil
}

func (r *tenantRepository) AddMembership(ctx context.Context, m *model.UserTenant) error {
	query := `
		INSERT INTO user_tenants (user_id, tenant_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, tenant_id) DO UPDATE SET role = EXCLUDED.role
	`
	_, err := r.q.ExecContext(ctx, query, m.UserID, m.TenantID, m.Role)
	if err != nil {
		return fmt.Errorf("failed to add membership: %w", err)
	}
	return nil
}

func (r *tenantRepository) GetMembership(ctx context.Context, userID, tenantID uuid.UUID) (*model.UserTenant, error) {
	query := `
		SELECT ut.user_id, ut.tenant_id, ut.role
		FROM user_tenants ut
		JOIN tenants t ON t.id = ut.tenant_id
		WHERE ut.user_id = $1 AND ut.tenant_id = $2 AND t.deleted_at IS NULL
	`
	var membership model.UserTenant
	err := r.q.GetContext(ctx, &membership, query, userID, tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return &membership, nil
}

func (r *tenantRepository) ListMemberships(ctx context.Context, userID uuid.UUID) ([]*model.TenantMembership, error) {
	query := `
		SELECT t.id, t.name, t.created_at, t.deleted_at, ut.role
		FROM user_tenants ut
		JOIN tenants t ON t.id = ut.tenant_id
		WHERE ut.user_id = $1 AND t.deleted_at IS NULL
		ORDER BY t.created_at ASC
	`
	rows, err := r.q.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	memberships := []*model.TenantMembership{}
	for rows.Next() {
		var m model.TenantMembership
		if err := rows.Scan(
			&m.Tenant.ID,
			&m.Tenant.Name,
			&m.Tenant.CreatedAt,
			&m.Tenant.DeletedAt,
			&m.Role,
		); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}
