// Package integrationtests exercises the full validation pipeline through the
// HTTP surface: multipart upload, parsing, employee resolution, rule
// evaluation, persistence, audit trail, and result retrieval. Everything runs
// against in-memory stores and a temp-dir file store, so these tests need no
// external services.
package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"fairworkly/internal/audit"
	"fairworkly/internal/awards"
	"fairworkly/internal/employees"
	"fairworkly/internal/filestore"
	"fairworkly/internal/parser"
	"fairworkly/internal/platform/middleware"
	"fairworkly/internal/ratelimit"
	"fairworkly/internal/validation"
	validationhandler "fairworkly/internal/validation/handler"
)

type capturingSink struct {
	events []audit.Event
}

func (s *capturingSink) Write(_ context.Context, e audit.Event) error {
	s.events = append(s.events, e)
	return nil
}

func (s *capturingSink) runID(action audit.AuditAction) string {
	for _, e := range s.events {
		if e.Action == string(action) {
			return e.RunID
		}
	}
	return ""
}

type ValidationFlowSuite struct {
	suite.Suite
	router   chi.Router
	sink     *capturingSink
	tenantID string
}

func TestValidationFlowSuite(t *testing.T) {
	suite.Run(t, new(ValidationFlowSuite))
}

func (s *ValidationFlowSuite) SetupTest() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.sink = &capturingSink{}
	s.tenantID = uuid.NewString()

	files, err := filestore.NewLocal(s.T().TempDir())
	s.Require().NoError(err)

	service := validation.New(
		validation.NewMemoryStore(),
		parser.NewCSVParser(),
		employees.NewDirectory(employees.NewMemoryStore(), employees.WithLogger(log)),
		files,
		awards.DefaultProvider(),
		validation.WithLogger(log),
		validation.WithAuditPublisher(audit.NewPublisher(audit.NewMemoryStore(), s.sink)),
	)

	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), 100, time.Minute)

	s.router = chi.NewRouter()
	s.router.Use(middleware.Recovery(log))
	s.router.Use(middleware.RequestID)
	s.router.Group(func(r chi.Router) {
		r.Use(ratelimit.Middleware(limiter))
		validationhandler.New(service, log).Register(r)
	})
}

func (s *ValidationFlowSuite) upload(csv string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "payroll.csv")
	s.Require().NoError(err)
	_, err = fw.Write([]byte(csv))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/validations", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Tenant-ID", s.tenantID)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

const header = "Employee Email,Employee Name,Award,Classification,Employment Category,Hourly Rate,Ordinary Hours,Ordinary Pay,Saturday Hours,Saturday Pay,Gross Pay,Super Paid,Period Start,Period End\n"

func (s *ValidationFlowSuite) TestUnderpaidSaturdayShiftFailsTheRun() {
	// Alice is owed 8h x 26.55 x 1.25 = 265.50 for Saturday but was paid flat
	// rate; Carla's casual line is fully compliant.
	csv := header +
		"alice@example.com,Alice Wu,retail,Level 1,permanent,26.55,38,1008.90,8,212.40,1221.30,146.56,2026-07-06,2026-07-12\n" +
		"carla@example.com,Carla Reyes,retail,Level 1,casual,33.19,38,1261.22,0,0,1261.22,151.35,2026-07-06,2026-07-12\n"

	rec := s.upload(csv)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var result validation.Result
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&result))
	s.Equal("Failed", result.Status)
	s.Equal(1, result.Summary.TotalIssues)
	s.Equal(1, result.Summary.AffectedEmployees)
	s.Equal(1, result.Summary.PassedCount)
	s.InDelta(53.10, result.Summary.TotalUnderpayment, 0.001)

	s.Require().Len(result.Issues, 1)
	issue := result.Issues[0]
	s.Equal("penalty_rate", issue.CategoryType)
	s.Equal("Alice Wu", issue.EmployeeName)
	s.InDelta(53.10, issue.ImpactAmount, 0.001)
	s.Require().NotNil(issue.Description)
	s.InDelta(33.19, issue.Description.ExpectedValue, 0.005)
	s.InDelta(26.55, issue.Description.ActualValue, 0.005)
	s.Equal(8.0, issue.Description.AffectedUnits)

	// The compliance audit trail records start and completion for the run.
	runID := s.sink.runID(audit.EventValidationCompleted)
	s.Require().NotEmpty(runID)
	s.Equal(runID, s.sink.runID(audit.EventValidationStarted))

	getRec := httptest.NewRecorder()
	s.router.ServeHTTP(getRec, httptest.NewRequest(http.MethodGet, "/v1/validations/"+runID, nil))
	s.Require().Equal(http.StatusOK, getRec.Code)

	var fetched validation.Result
	s.Require().NoError(json.NewDecoder(getRec.Body).Decode(&fetched))
	s.Equal(result.ValidationID, fetched.ValidationID)
	s.Equal(result.Summary, fetched.Summary)
}

func (s *ValidationFlowSuite) TestCompliantFilePasses() {
	csv := header +
		"carla@example.com,Carla Reyes,retail,Level 1,casual,33.19,38,1261.22,0,0,1261.22,151.35,2026-07-06,2026-07-12\n"

	rec := s.upload(csv)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var result validation.Result
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&result))
	s.Equal("Passed", result.Status)
	s.Zero(result.Summary.TotalIssues)
	s.Equal(1, result.Summary.PassedCount)
	s.Empty(result.Issues)
}

func (s *ValidationFlowSuite) TestUnparseableFileIsAuditedAsParseFailure() {
	rec := s.upload("Employee Email,Hourly Rate\nalice@example.com,26.55\n")
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var result validation.Result
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&result))
	s.Equal("Failed", result.Status)
	s.Require().NotEmpty(result.Issues)

	s.NotEmpty(s.sink.runID(audit.EventValidationParseFailed))
}

func (s *ValidationFlowSuite) TestUnknownRunReturnsNotFound() {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/validations/"+uuid.NewString(), nil))
	s.Equal(http.StatusNotFound, rec.Code)
}
