package validation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"fairworkly/internal/compliance"
	"fairworkly/pkg/domain"
	"fairworkly/pkg/platform/sentinel"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// same store code serves both the plain and the transactional view.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists validation runs, pay records, and issues in
// PostgreSQL via lib/pq.
type PostgresStore struct {
	db *sql.DB
	q  querier
}

// NewPostgresStore constructs a PostgreSQL-backed validation store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, q: db}
}

func (s *PostgresStore) CreateRun(ctx context.Context, run *ValidationRun) error {
	query := `
		INSERT INTO validation_runs (
			id, tenant_id, filename, file_location,
			flag_base_rate, flag_penalty_rate, flag_casual_loading, flag_superannuation,
			status, total_records, passed_records, failed_records, total_issues, critical_issues,
			started_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.q.ExecContext(ctx, query,
		uuid.UUID(run.ID), uuid.UUID(run.TenantID), run.Filename, run.FileLocation,
		run.Flags.BaseRate, run.Flags.PenaltyRate, run.Flags.CasualLoading, run.Flags.Superannuation,
		string(run.Status), run.Counts.TotalRecords, run.Counts.PassedRecords, run.Counts.FailedRecords,
		run.Counts.TotalIssues, run.Counts.CriticalIssues,
		run.StartedAt, run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("create validation run: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateRun(ctx context.Context, run *ValidationRun) error {
	query := `
		UPDATE validation_runs SET
			status = $2, total_records = $3, passed_records = $4, failed_records = $5,
			total_issues = $6, critical_issues = $7, completed_at = $8
		WHERE id = $1
	`
	res, err := s.q.ExecContext(ctx, query,
		uuid.UUID(run.ID), string(run.Status),
		run.Counts.TotalRecords, run.Counts.PassedRecords, run.Counts.FailedRecords,
		run.Counts.TotalIssues, run.Counts.CriticalIssues, run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update validation run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindRun(ctx context.Context, id domain.RunID) (*ValidationRun, error) {
	query := `
		SELECT id, tenant_id, filename, file_location,
			flag_base_rate, flag_penalty_rate, flag_casual_loading, flag_superannuation,
			status, total_records, passed_records, failed_records, total_issues, critical_issues,
			started_at, completed_at
		FROM validation_runs WHERE id = $1
	`
	var (
		run         ValidationRun
		runID       uuid.UUID
		tenantID    uuid.UUID
		status      string
		completedAt sql.NullTime
	)
	err := s.q.QueryRowContext(ctx, query, uuid.UUID(id)).Scan(
		&runID, &tenantID, &run.Filename, &run.FileLocation,
		&run.Flags.BaseRate, &run.Flags.PenaltyRate, &run.Flags.CasualLoading, &run.Flags.Superannuation,
		&status, &run.Counts.TotalRecords, &run.Counts.PassedRecords, &run.Counts.FailedRecords,
		&run.Counts.TotalIssues, &run.Counts.CriticalIssues,
		&run.StartedAt, &completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find validation run: %w", err)
	}
	run.ID = domain.RunID(runID)
	run.TenantID = domain.TenantID(tenantID)
	run.Status = RunStatus(status)
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	return &run, nil
}

// AddRecords writes the whole batch in one unnest insert, one round trip per
// run instead of one per record.
func (s *PostgresStore) AddRecords(ctx context.Context, records []compliance.PayRecord) error {
	if len(records) == 0 {
		return nil
	}
	n := len(records)
	var (
		ids                = make([]string, n)
		runIDs             = make([]string, n)
		employeeIDs        = make([]sql.NullString, n)
		names              = make([]string, n)
		numbers            = make([]string, n)
		awards             = make([]string, n)
		classifications    = make([]string, n)
		levels             = make([]int64, n)
		categories         = make([]string, n)
		hourlyRates        = make([]float64, n)
		ordinaryHours      = make([]float64, n)
		ordinaryPay        = make([]float64, n)
		saturdayHours      = make([]float64, n)
		saturdayPay        = make([]float64, n)
		sundayHours        = make([]float64, n)
		sundayPay          = make([]float64, n)
		publicHolidayHours = make([]float64, n)
		publicHolidayPay   = make([]float64, n)
		grossPay           = make([]float64, n)
		superPaid          = make([]float64, n)
		periodStarts       = make([]sql.NullTime, n)
		periodEnds         = make([]sql.NullTime, n)
	)
	for i, rec := range records {
		ids[i] = rec.ID.String()
		runIDs[i] = uuid.UUID(rec.RunID).String()
		employeeIDs[i] = nullUUID(uuid.UUID(rec.EmployeeID))
		names[i] = rec.EmployeeName
		numbers[i] = rec.EmployeeNumber
		awards[i] = string(rec.Award)
		classifications[i] = rec.Classification
		levels[i] = int64(rec.Level)
		categories[i] = string(rec.Category)
		hourlyRates[i] = rec.HourlyRate
		ordinaryHours[i] = rec.OrdinaryHours
		ordinaryPay[i] = rec.OrdinaryPay
		saturdayHours[i] = rec.SaturdayHours
		saturdayPay[i] = rec.SaturdayPay
		sundayHours[i] = rec.SundayHours
		sundayPay[i] = rec.SundayPay
		publicHolidayHours[i] = rec.PublicHolidayHours
		publicHolidayPay[i] = rec.PublicHolidayPay
		grossPay[i] = rec.GrossPay
		superPaid[i] = rec.SuperPaid
		periodStarts[i] = nullTime(rec.PeriodStart)
		periodEnds[i] = nullTime(rec.PeriodEnd)
	}
	query := `
		INSERT INTO pay_records (
			id, run_id, employee_id, employee_name, employee_number,
			award, classification, level, category, hourly_rate,
			ordinary_hours, ordinary_pay, saturday_hours, saturday_pay,
			sunday_hours, sunday_pay, public_holiday_hours, public_holiday_pay,
			gross_pay, super_paid, period_start, period_end
		)
		SELECT * FROM unnest(
			$1::uuid[], $2::uuid[], $3::uuid[], $4::text[], $5::text[],
			$6::text[], $7::text[], $8::int[], $9::text[], $10::float8[],
			$11::float8[], $12::float8[], $13::float8[], $14::float8[],
			$15::float8[], $16::float8[], $17::float8[], $18::float8[],
			$19::float8[], $20::float8[], $21::timestamptz[], $22::timestamptz[]
		)
	`
	_, err := s.q.ExecContext(ctx, query,
		pq.Array(ids), pq.Array(runIDs), pq.Array(employeeIDs), pq.Array(names), pq.Array(numbers),
		pq.Array(awards), pq.Array(classifications), pq.Array(levels), pq.Array(categories), pq.Array(hourlyRates),
		pq.Array(ordinaryHours), pq.Array(ordinaryPay), pq.Array(saturdayHours), pq.Array(saturdayPay),
		pq.Array(sundayHours), pq.Array(sundayPay), pq.Array(publicHolidayHours), pq.Array(publicHolidayPay),
		pq.Array(grossPay), pq.Array(superPaid), pq.Array(periodStarts), pq.Array(periodEnds),
	)
	if err != nil {
		return fmt.Errorf("insert pay records batch: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecords(ctx context.Context, runID domain.RunID) ([]compliance.PayRecord, error) {
	query := `
		SELECT id, run_id, employee_id, employee_name, employee_number,
			award, classification, level, category, hourly_rate,
			ordinary_hours, ordinary_pay, saturday_hours, saturday_pay,
			sunday_hours, sunday_pay, public_holiday_hours, public_holiday_pay,
			gross_pay, super_paid, period_start, period_end
		FROM pay_records WHERE run_id = $1 ORDER BY id
	`
	rows, err := s.q.QueryContext(ctx, query, uuid.UUID(runID))
	if err != nil {
		return nil, fmt.Errorf("list pay records: %w", err)
	}
	defer rows.Close()

	var out []compliance.PayRecord
	for rows.Next() {
		var (
			rec        compliance.PayRecord
			rid        uuid.UUID
			employeeID uuid.NullUUID
			award      string
			category   string
			start, end sql.NullTime
		)
		if err := rows.Scan(
			&rec.ID, &rid, &employeeID, &rec.EmployeeName, &rec.EmployeeNumber,
			&award, &rec.Classification, &rec.Level, &category, &rec.HourlyRate,
			&rec.OrdinaryHours, &rec.OrdinaryPay, &rec.SaturdayHours, &rec.SaturdayPay,
			&rec.SundayHours, &rec.SundayPay, &rec.PublicHolidayHours, &rec.PublicHolidayPay,
			&rec.GrossPay, &rec.SuperPaid, &start, &end,
		); err != nil {
			return nil, fmt.Errorf("scan pay record: %w", err)
		}
		rec.RunID = domain.RunID(rid)
		rec.EmployeeID = domain.EmployeeID(employeeID.UUID)
		rec.Award = domain.AwardCode(award)
		rec.Category = domain.EmploymentCategory(category)
		if start.Valid {
			rec.PeriodStart = start.Time
		}
		if end.Valid {
			rec.PeriodEnd = end.Time
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// AddIssues writes the whole batch in one unnest insert.
func (s *PostgresStore) AddIssues(ctx context.Context, issues []compliance.Issue) error {
	if len(issues) == 0 {
		return nil
	}
	n := len(issues)
	var (
		ids           = make([]string, n)
		runIDs        = make([]string, n)
		recordIDs     = make([]sql.NullString, n)
		employeeIDs   = make([]sql.NullString, n)
		categories    = make([]string, n)
		severities    = make([]int64, n)
		impacts       = make([]float64, n)
		actuals       = make([]sql.NullFloat64, n)
		expecteds     = make([]sql.NullFloat64, n)
		units         = make([]sql.NullFloat64, n)
		unitTypes     = make([]sql.NullString, n)
		contextLabels = make([]sql.NullString, n)
		warnings      = make([]sql.NullString, n)
		createdAts    = make([]time.Time, n)
	)
	for i, issue := range issues {
		ids[i] = uuid.UUID(issue.ID).String()
		runIDs[i] = uuid.UUID(issue.RunID).String()
		recordIDs[i] = nullUUID(issue.RecordID)
		employeeIDs[i] = nullUUID(uuid.UUID(issue.EmployeeID))
		categories[i] = string(issue.Category)
		severities[i] = int64(issue.Severity)
		impacts[i] = issue.ImpactAmount
		if issue.Evidence != nil {
			actuals[i] = sql.NullFloat64{Float64: issue.Evidence.ActualValue, Valid: true}
			expecteds[i] = sql.NullFloat64{Float64: issue.Evidence.ExpectedValue, Valid: true}
			units[i] = sql.NullFloat64{Float64: issue.Evidence.AffectedUnits, Valid: true}
			unitTypes[i] = sql.NullString{String: string(issue.Evidence.Unit), Valid: true}
			contextLabels[i] = sql.NullString{String: issue.Evidence.ContextLabel, Valid: true}
		}
		warnings[i] = nullString(issue.Warning)
		createdAts[i] = issue.CreatedAt
	}
	query := `
		INSERT INTO compliance_issues (
			id, run_id, record_id, employee_id, category, severity, impact_amount,
			actual_value, expected_value, affected_units, unit_type, context_label,
			warning, created_at
		)
		SELECT * FROM unnest(
			$1::uuid[], $2::uuid[], $3::uuid[], $4::uuid[], $5::text[], $6::int[], $7::float8[],
			$8::float8[], $9::float8[], $10::float8[], $11::text[], $12::text[],
			$13::text[], $14::timestamptz[]
		)
	`
	_, err := s.q.ExecContext(ctx, query,
		pq.Array(ids), pq.Array(runIDs), pq.Array(recordIDs), pq.Array(employeeIDs),
		pq.Array(categories), pq.Array(severities), pq.Array(impacts),
		pq.Array(actuals), pq.Array(expecteds), pq.Array(units), pq.Array(unitTypes), pq.Array(contextLabels),
		pq.Array(warnings), pq.Array(createdAts),
	)
	if err != nil {
		return fmt.Errorf("insert issues batch: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListIssues(ctx context.Context, runID domain.RunID) ([]compliance.Issue, error) {
	query := `
		SELECT id, run_id, record_id, employee_id, category, severity, impact_amount,
			actual_value, expected_value, affected_units, unit_type, context_label,
			warning, created_at
		FROM compliance_issues WHERE run_id = $1 ORDER BY created_at, id
	`
	rows, err := s.q.QueryContext(ctx, query, uuid.UUID(runID))
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	var out []compliance.Issue
	for rows.Next() {
		var (
			issue                  compliance.Issue
			issueID, rid           uuid.UUID
			recordID, employeeID   uuid.NullUUID
			category               string
			severity               int
			actual, expected       sql.NullFloat64
			units                  sql.NullFloat64
			unitType, contextLabel sql.NullString
			warning                sql.NullString
		)
		if err := rows.Scan(
			&issueID, &rid, &recordID, &employeeID, &category, &severity, &issue.ImpactAmount,
			&actual, &expected, &units, &unitType, &contextLabel,
			&warning, &issue.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issue.ID = domain.IssueID(issueID)
		issue.RunID = domain.RunID(rid)
		issue.RecordID = recordID.UUID
		issue.EmployeeID = domain.EmployeeID(employeeID.UUID)
		issue.Category = compliance.IssueCategory(category)
		issue.Severity = compliance.Severity(severity)
		if unitType.Valid {
			issue.Evidence = &compliance.Evidence{
				ActualValue:   actual.Float64,
				ExpectedValue: expected.Float64,
				AffectedUnits: units.Float64,
				Unit:          compliance.UnitType(unitType.String),
				ContextLabel:  contextLabel.String,
			}
		}
		issue.Warning = warning.String
		out = append(out, issue)
	}
	return out, rows.Err()
}

// RunInTx executes fn inside one database transaction.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(Store) error) error {
	if s.db == nil {
		// Already inside a transaction; run against the same view.
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txStore := &PostgresStore{q: tx}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func nullUUID(u uuid.UUID) sql.NullString {
	if u == uuid.Nil {
		return sql.NullString{}
	}
	return sql.NullString{String: u.String(), Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
