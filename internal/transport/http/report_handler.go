// Package http exposes the report pipeline over a JSON API. It is a pure
// rendering collaborator: every computation lives in the service layer and
// handlers only translate between HTTP and domain types.
package http

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/errors"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/services"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/pkg/contracts/domain"
)

// acceptedExtensions are the workbook formats the upload endpoint takes.
var acceptedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
}

// trendQuery holds the validated query parameters of the trend endpoint.
type trendQuery struct {
	Window int `validate:"omitempty,min=2,max=52"`
}

// ReportHandler handles report and analysis HTTP requests
type ReportHandler struct {
	service      *services.ReportService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
	maxUpload    int64
}

// NewReportHandler creates a report handler
func NewReportHandler(service *services.ReportService, logger *slog.Logger, maxUpload int64) *ReportHandler {
	return &ReportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: apierrors.NewErrorHandler(logger),
		validate:     validator.New(),
		maxUpload:    maxUpload,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/reports", h.UploadReport)
	r.Get("/reports/latest", h.GetLatestReport)
	r.Get("/alerts", h.GetAlerts)
	r.Get("/streaks", h.GetStreaks)

	r.Route("/technicians/{technician}", func(r chi.Router) {
		r.Use(h.TechnicianCtx)
		r.Get("/trend", h.GetTrend)
		r.Get("/forecast", h.GetForecast)
	})

	return r
}

// TechnicianCtx validates the technician URL parameter
func (h *ReportHandler) TechnicianCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		technician := chi.URLParam(r, "technician")
		if strings.TrimSpace(technician) == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("technician", "Technician name is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UploadReport handles POST /api/reports: multipart workbook upload that
// rebuilds the snapshot.
func (h *ReportHandler) UploadReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusRequestEntityTooLarge,
			"PAYLOAD_TOO_LARGE",
			"Workbook exceeds the maximum upload size",
		))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A workbook file is required in the 'file' field"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !acceptedExtensions[ext] {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Unsupported file type; upload an Excel workbook"))
		return
	}

	h.logger.InfoContext(ctx, "workbook upload received",
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
	)

	snapshot, err := h.service.IngestUpload(ctx, header.Filename, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, snapshot)
}

// GetLatestReport handles GET /api/reports/latest
func (h *ReportHandler) GetLatestReport(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, snapshot)
}

// GetTrend handles GET /api/technicians/{technician}/trend?window=N
func (h *ReportHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	technician := chi.URLParam(r, "technician")

	query := trendQuery{}
	if raw := r.URL.Query().Get("window"); raw != "" {
		window, err := strconv.Atoi(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("window", "window must be an integer"))
			return
		}
		query.Window = window
	}
	if err := h.validate.Struct(query); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("window", "window must be between 2 and 52"))
		return
	}

	result, err := h.service.TrendFor(r.Context(), technician, query.Window)
	if err != nil {
		// An insufficient-data result still carries the technician and
		// status; report it as a response rather than a failure.
		if result != nil && result.Status == domain.TrendStatusInsufficient {
			render.JSON(w, r, result)
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// GetForecast handles GET /api/technicians/{technician}/forecast?model=
func (h *ReportHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	technician := chi.URLParam(r, "technician")

	model := domain.ForecastModel(r.URL.Query().Get("model"))
	switch model {
	case "", domain.ForecastMovingAverage:
		model = domain.ForecastMovingAverage
	case domain.ForecastRegression:
	default:
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("model", "model must be moving_average or regression"))
		return
	}

	result, err := h.service.ForecastFor(r.Context(), technician, model)
	if err != nil {
		if result != nil && result.Status == domain.TrendStatusInsufficient {
			render.JSON(w, r, result)
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// GetAlerts handles GET /api/alerts
func (h *ReportHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.service.Alerts(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	render.JSON(w, r, alerts)
}

// GetStreaks handles GET /api/streaks
func (h *ReportHandler) GetStreaks(w http.ResponseWriter, r *http.Request) {
	streaks, err := h.service.Streaks(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if streaks == nil {
		streaks = []domain.StreakStats{}
	}
	render.JSON(w, r, streaks)
}
