package employees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"fairworkly/pkg/domain"
	"fairworkly/pkg/platform/sentinel"
)

// PostgresStore persists directory entries in the employees table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, e *Employee) error {
	const q = `
		INSERT INTO employees (id, tenant_id, email, employee_number, name, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)`
	_, err := s.db.ExecContext(ctx, q,
		uuid.UUID(e.ID), uuid.UUID(e.TenantID), e.Email, e.Number, e.Name, e.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, tenantID domain.TenantID, email string) (*Employee, error) {
	const q = `
		SELECT id, tenant_id, COALESCE(email, ''), COALESCE(employee_number, ''), name, created_at
		FROM employees
		WHERE tenant_id = $1 AND email = LOWER($2)`
	return s.scanOne(s.db.QueryRowContext(ctx, q, uuid.UUID(tenantID), email))
}

func (s *PostgresStore) FindByNumber(ctx context.Context, tenantID domain.TenantID, number string) (*Employee, error) {
	const q = `
		SELECT id, tenant_id, COALESCE(email, ''), COALESCE(employee_number, ''), name, created_at
		FROM employees
		WHERE tenant_id = $1 AND employee_number = $2`
	return s.scanOne(s.db.QueryRowContext(ctx, q, uuid.UUID(tenantID), number))
}

func (s *PostgresStore) scanOne(row *sql.Row) (*Employee, error) {
	var e Employee
	var id, tenantID uuid.UUID
	err := row.Scan(&id, &tenantID, &e.Email, &e.Number, &e.Name, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	e.ID = domain.EmployeeID(id)
	e.TenantID = domain.TenantID(tenantID)
	return &e, nil
}
