package validation

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fairworkly/internal/audit"
	"fairworkly/internal/awards"
	"fairworkly/internal/compliance"
	"fairworkly/internal/validation/metrics"
	"fairworkly/internal/validation/ports"
	"fairworkly/pkg/attrs"
	"fairworkly/pkg/domain"
	dErrors "fairworkly/pkg/domain-errors"
	"fairworkly/pkg/platform/sentinel"
	"fairworkly/pkg/requestcontext"
)

// AuditPublisher is the audit boundary the orchestrator emits through.
type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// ValidateRequest is one payroll file submission.
type ValidateRequest struct {
	TenantID domain.TenantID
	Filename string
	Input    io.Reader
	Flags    compliance.Flags
}

// Service orchestrates a validation run end to end: store the upload, parse,
// resolve employees, gate and evaluate each record, persist atomically, and
// aggregate the result.
type Service struct {
	store     Store
	parser    ports.Parser
	directory ports.EmployeeDirectory
	files     ports.FileStore

	capabilities []compliance.Capability
	gate         *compliance.PreValidator
	aggregator   *Aggregator

	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	cache          *ResultCache
	tracer         trace.Tracer
	now            func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithResultCache(cache *ResultCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New constructs a Service. The capability table is built once from the rate
// provider; flags select from it per run.
func New(store Store, parser ports.Parser, directory ports.EmployeeDirectory, files ports.FileStore, provider *awards.Provider, opts ...Option) *Service {
	s := &Service{
		store:        store,
		parser:       parser,
		directory:    directory,
		files:        files,
		capabilities: compliance.Capabilities(provider),
		gate:         compliance.NewPreValidator(),
		aggregator:   NewAggregator(),
		tracer:       otel.Tracer("fairworkly/internal/validation"),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate runs the full pipeline for one submission and returns the
// aggregated result. Rule findings never fail the call; only infrastructure
// and configuration faults do.
func (s *Service) Validate(ctx context.Context, req ValidateRequest) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "validation.Validate")
	defer span.End()
	started := s.now()

	if req.TenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "tenant id is required")
	}
	if req.Filename == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "filename is required")
	}
	if req.Input == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "file content is required")
	}

	// Buffer once: the upload is read twice (blob store, then parser).
	data, err := io.ReadAll(req.Input)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read upload")
	}

	location, err := s.storeUpload(ctx, data, req.Filename)
	if err != nil {
		return nil, err
	}

	run, err := NewValidationRun(req.TenantID, req.Filename, location, req.Flags, started)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("validation.run_id", run.ID.String()))

	if err := s.store.CreateRun(ctx, run); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create validation run")
	}
	s.logAudit(ctx, string(audit.EventValidationStarted),
		"tenant_id", req.TenantID.String(),
		"run_id", run.ID.String(),
		"filename", req.Filename)

	rows, parseErrors, err := s.parseUpload(ctx, data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 && len(parseErrors) > 0 {
		return s.failParse(ctx, run, parseErrors, started)
	}

	records, err := s.materialize(ctx, run, rows)
	if err != nil {
		return nil, err
	}

	issues, err := s.evaluate(run, records, req.Flags)
	if err != nil {
		return nil, err
	}
	for _, msg := range parseErrors {
		issue, err := compliance.NewWarningIssue(compliance.CategoryPreValidation, msg)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record parse warning")
		}
		issues = append(issues, issue.Attach(run.ID, uuid.Nil, domain.EmployeeID{}))
	}

	if err := run.Complete(s.counts(records, issues), s.now()); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to complete validation run")
	}

	if err := s.persist(ctx, run, records, issues); err != nil {
		return nil, err
	}

	result := s.aggregator.Aggregate(run, records, issues)
	s.cache.Set(ctx, run.ID, result)

	s.logAudit(ctx, string(audit.EventValidationCompleted),
		"tenant_id", req.TenantID.String(),
		"run_id", run.ID.String(),
		"filename", req.Filename,
		"decision", result.Status)
	s.metrics.IncrementRun(string(run.Status))
	s.metrics.ObserveRun(s.now().Sub(started))

	return result, nil
}

// GetResult returns the aggregated result for a completed run.
func (s *Service) GetResult(ctx context.Context, runID domain.RunID) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "validation.GetResult",
		trace.WithAttributes(attribute.String("validation.run_id", runID.String())))
	defer span.End()

	if cached, ok := s.cache.Get(ctx, runID); ok {
		return cached, nil
	}

	run, err := s.store.FindRun(ctx, runID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "validation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load validation run")
	}
	if !run.Status.IsTerminal() {
		return nil, dErrors.New(dErrors.CodeConflict, "validation is still in progress")
	}

	records, err := s.store.ListRecords(ctx, runID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load pay records")
	}
	issues, err := s.store.ListIssues(ctx, runID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load issues")
	}

	var result *Result
	if run.Counts.TotalRecords == 0 && len(issues) > 0 {
		result = s.aggregator.AggregateParseFailure(run, issues)
	} else {
		result = s.aggregator.Aggregate(run, records, issues)
	}
	s.cache.Set(ctx, runID, result)
	return result, nil
}

func (s *Service) storeUpload(ctx context.Context, data []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	start := s.now()
	location, err := s.files.Store(ctx, bytes.NewReader(data), filename)
	s.metrics.ObserveCollaborator("file_store", s.now().Sub(start))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to store upload")
	}
	return location, nil
}

func (s *Service) parseUpload(ctx context.Context, data []byte) ([]ports.Row, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	start := s.now()
	rows, parseErrors, err := s.parser.Parse(ctx, bytes.NewReader(data))
	s.metrics.ObserveCollaborator("parser", s.now().Sub(start))
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to parse upload")
	}
	return rows, parseErrors, nil
}

// failParse short-circuits a run whose file yielded no rows at all. The run
// still completes, as failed, with one warning per parse error.
func (s *Service) failParse(ctx context.Context, run *ValidationRun, parseErrors []string, started time.Time) (*Result, error) {
	issues := make([]compliance.Issue, 0, len(parseErrors))
	for _, msg := range parseErrors {
		issue, err := compliance.NewWarningIssue(compliance.CategoryPreValidation, msg)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record parse warning")
		}
		issues = append(issues, issue.Attach(run.ID, uuid.Nil, domain.EmployeeID{}))
	}

	if err := run.Complete(RunCounts{TotalIssues: len(issues)}, s.now()); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to complete validation run")
	}
	if err := s.persist(ctx, run, nil, issues); err != nil {
		return nil, err
	}

	result := s.aggregator.AggregateParseFailure(run, issues)
	s.cache.Set(ctx, run.ID, result)

	s.logAudit(ctx, string(audit.EventValidationParseFailed),
		"tenant_id", run.TenantID.String(),
		"run_id", run.ID.String(),
		"filename", run.Filename,
		"reason", parseErrors[0])
	s.metrics.IncrementRun(string(run.Status))
	s.metrics.ObserveRun(s.now().Sub(started))

	return result, nil
}

// materialize resolves employee identities and turns rows into owned records.
func (s *Service) materialize(ctx context.Context, run *ValidationRun, rows []ports.Row) ([]compliance.PayRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(rows))
	refs := make([]ports.EmployeeRef, 0, len(rows))
	for _, row := range rows {
		key := row.NaturalKey()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		refs = append(refs, ports.EmployeeRef{
			Key:    key,
			Email:  row.EmployeeEmail,
			Number: row.EmployeeNumber,
			Name:   row.EmployeeName,
		})
	}

	identities := map[string]ports.Identity{}
	if len(refs) > 0 {
		start := s.now()
		var err error
		identities, err = s.directory.Resolve(ctx, run.TenantID, refs)
		s.metrics.ObserveCollaborator("directory", s.now().Sub(start))
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to resolve employees")
		}
	}

	records := make([]compliance.PayRecord, 0, len(rows))
	for _, row := range rows {
		identity := identities[row.NaturalKey()]
		name := row.EmployeeName
		if name == "" {
			name = identity.Name
		}
		number := row.EmployeeNumber
		if number == "" {
			number = identity.Number
		}
		records = append(records, compliance.PayRecord{
			ID:             uuid.New(),
			RunID:          run.ID,
			EmployeeID:     identity.ID,
			EmployeeName:   name,
			EmployeeNumber: number,

			Award:          row.Award,
			Classification: row.Classification,
			Level:          row.Level,
			Category:       row.Category,

			HourlyRate: row.HourlyRate,

			OrdinaryHours:      row.OrdinaryHours,
			OrdinaryPay:        row.OrdinaryPay,
			SaturdayHours:      row.SaturdayHours,
			SaturdayPay:        row.SaturdayPay,
			SundayHours:        row.SundayHours,
			SundayPay:          row.SundayPay,
			PublicHolidayHours: row.PublicHolidayHours,
			PublicHolidayPay:   row.PublicHolidayPay,

			GrossPay:  row.GrossPay,
			SuperPaid: row.SuperPaid,

			PeriodStart: row.PeriodStart,
			PeriodEnd:   row.PeriodEnd,
		})
	}
	return records, nil
}

// evaluate gates each record and walks the enabled capabilities in table
// order. A gated record produces exactly one warning and skips every rule.
func (s *Service) evaluate(run *ValidationRun, records []compliance.PayRecord, flags compliance.Flags) ([]compliance.Issue, error) {
	var issues []compliance.Issue
	for i := range records {
		rec := &records[i]

		if warning := s.gate.Check(rec); warning != nil {
			issues = append(issues, warning.Attach(run.ID, rec.ID, rec.EmployeeID))
			s.metrics.IncrementIssue(string(warning.Category), warning.Severity.String())
			continue
		}

		for _, capability := range s.capabilities {
			if !capability.Enabled(flags) {
				continue
			}
			found, err := capability.Rule.Evaluate(rec)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "rule evaluation failed")
			}
			for _, issue := range found {
				issues = append(issues, issue.Attach(run.ID, rec.ID, rec.EmployeeID))
				s.metrics.IncrementIssue(string(issue.Category), issue.Severity.String())
			}
		}
	}
	return issues, nil
}

func (s *Service) counts(records []compliance.PayRecord, issues []compliance.Issue) RunCounts {
	counts := RunCounts{
		TotalRecords: len(records),
		TotalIssues:  len(issues),
	}

	failedRecords := make(map[uuid.UUID]struct{})
	affected := make(map[domain.EmployeeID]struct{})
	for _, issue := range issues {
		if issue.RecordID != uuid.Nil {
			failedRecords[issue.RecordID] = struct{}{}
		}
		if !issue.EmployeeID.IsNil() {
			affected[issue.EmployeeID] = struct{}{}
		}
		if issue.Severity == compliance.SeverityCritical {
			counts.CriticalIssues++
		}
	}
	counts.FailedRecords = len(failedRecords)
	counts.PassedRecords = counts.TotalRecords - len(affected)
	return counts
}

// persist writes records, issues, and the terminal run state in one
// transaction so a crash cannot strand a run half-written.
func (s *Service) persist(ctx context.Context, run *ValidationRun, records []compliance.PayRecord, issues []compliance.Issue) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := s.now()
	err := s.store.RunInTx(ctx, func(tx Store) error {
		if len(records) > 0 {
			if err := tx.AddRecords(ctx, records); err != nil {
				return err
			}
		}
		if len(issues) > 0 {
			if err := tx.AddIssues(ctx, issues); err != nil {
				return err
			}
		}
		return tx.UpdateRun(ctx, run)
	})
	s.metrics.ObserveCollaborator("persistence", s.now().Sub(start))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist validation run")
	}
	return nil
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	args := append(attributes, "event", event, "log_type", "audit")
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		args = append(args, "request_id", requestID)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, args...)
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		TenantID: attrs.ExtractString(attributes, "tenant_id"),
		RunID:    attrs.ExtractString(attributes, "run_id"),
		Action:   event,
		Subject:  attrs.ExtractString(attributes, "filename"),
		Decision: attrs.ExtractString(attributes, "decision"),
		Reason:   attrs.ExtractString(attributes, "reason"),
	})
}
