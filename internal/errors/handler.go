package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// ErrorHandler provides centralized error handling for the HTTP layer. It
// maps domain errors to RFC 7807 problem responses and logs every failure
// with request context.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	problem := h.ErrorToProblem(err, r)
	if reqID != "" {
		problem.WithExtension("trace_id", reqID)
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	var missingCols *MissingColumnsError
	if errors.As(err, &missingCols) {
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeMissingColumns,
			"Required Columns Missing",
			err.Error(),
			r.URL.Path,
		).WithExtension("missing_columns", missingCols.Missing).
			WithExtension("found_columns", missingCols.Found)
	}

	var malformed *MalformedInputError
	if errors.As(err, &malformed) {
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeMalformedInput,
			"Workbook Unreadable",
			err.Error(),
			r.URL.Path,
		)
	}

	var insufficient *InsufficientDataError
	if errors.As(err, &insufficient) {
		return NewProblemDetails(
			http.StatusNotFound,
			TypeInsufficientData,
			"Insufficient Data",
			err.Error(),
			r.URL.Path,
		).WithExtension("technician", insufficient.Technician).
			WithExtension("weeks_observed", insufficient.Have).
			WithExtension("weeks_required", insufficient.Want)
	}

	var notFound *TechnicianNotFoundError
	if errors.As(err, &notFound) {
		return NewProblemDetails(
			http.StatusNotFound,
			TypeNotFound,
			"Technician Not Found",
			err.Error(),
			r.URL.Path,
		)
	}

	var noReport *NoReportError
	if errors.As(err, &noReport) {
		return NewProblemDetails(
			http.StatusNotFound,
			TypeNoReport,
			"No Report Available",
			err.Error(),
			r.URL.Path,
		)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, r)
	}

	// Unknown error: do not leak internals
	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing the request",
		r.URL.Path,
	)
}

func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.StatusCode {
	case http.StatusBadRequest:
		problemType = TypeValidation
	case http.StatusNotFound:
		problemType = TypeNotFound
	case http.StatusRequestEntityTooLarge:
		problemType = TypePayloadTooLarge
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		r.URL.Path,
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}
	return problem
}

// Fatal wraps an error with a stage name for CLI reporting.
func Fatal(stage string, err error) error {
	return fmt.Errorf("%s: %w", stage, err)
}
