// Package handler exposes the validation pipeline over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fairworkly/internal/compliance"
	"fairworkly/internal/validation"
	"fairworkly/pkg/domain"
	dErrors "fairworkly/pkg/domain-errors"
	"fairworkly/pkg/platform/httputil"
	"fairworkly/pkg/requestcontext"
)

// Service defines the validation operations the handler exposes.
type Service interface {
	Validate(ctx context.Context, req validation.ValidateRequest) (*validation.Result, error)
	GetResult(ctx context.Context, runID domain.RunID) (*validation.Result, error)
}

const maxUploadBytes = 32 << 20 // 32 MiB

// Handler handles validation endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the validation routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/validations", h.handleCreateValidation)
	r.Get("/v1/validations/{id}", h.handleGetValidation)
}

// handleCreateValidation accepts a multipart payroll upload under the "file"
// field, runs the pipeline synchronously, and returns the aggregated result.
// Rule flags arrive as form or query booleans; with no flag present every
// rule runs.
func (h *Handler) handleCreateValidation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := domain.ParseTenantID(r.Header.Get("X-Tenant-ID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "missing or invalid X-Tenant-ID header"))
		return
	}
	ctx = requestcontext.WithTenantID(ctx, tenantID)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid multipart request"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "file field is required"))
		return
	}
	defer file.Close()

	result, err := h.service.Validate(ctx, validation.ValidateRequest{
		TenantID: tenantID,
		Filename: header.Filename,
		Input:    file,
		Flags:    parseFlags(r),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "validation failed",
			"tenant_id", tenantID.String(),
			"filename", header.Filename,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, result)
}

// handleGetValidation returns the aggregated result for a completed run. The
// path id is the full run UUID.
func (h *Handler) handleGetValidation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	runID, err := domain.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid validation id"))
		return
	}

	result, err := h.service.GetResult(ctx, runID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) && !dErrors.HasCode(err, dErrors.CodeConflict) {
			h.logger.ErrorContext(ctx, "result lookup failed",
				"run_id", runID.String(),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// parseFlags reads the rule switches. Absent all flags, every rule is on.
func parseFlags(r *http.Request) compliance.Flags {
	form := r.Form
	names := []string{"base_rate", "penalty_rate", "casual_loading", "superannuation"}
	present := false
	for _, name := range names {
		if form.Has(name) {
			present = true
			break
		}
	}
	if !present {
		return compliance.AllEnabled()
	}
	boolParam := func(name string) bool {
		v, err := strconv.ParseBool(form.Get(name))
		return err == nil && v
	}
	return compliance.Flags{
		BaseRate:       boolParam("base_rate"),
		PenaltyRate:    boolParam("penalty_rate"),
		CasualLoading:  boolParam("casual_loading"),
		Superannuation: boolParam("superannuation"),
	}
}
