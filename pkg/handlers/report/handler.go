package report

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/moodvestor/report-relay/pkg/handlers/respond"
	"github.com/moodvestor/report-relay/pkg/models/api"
	"github.com/moodvestor/report-relay/pkg/models/domain"
	"github.com/moodvestor/report-relay/pkg/services/intake"
	"github.com/moodvestor/report-relay/pkg/store/archive"
	"github.com/rs/zerolog"
)

const (
	maxBodyBytes = 10 << 20

	defaultListLimit = 10
	maxListLimit     = 50
)

type Processor interface {
	Process(ctx context.Context, report domain.Report) intake.Receipt
}

type Handler struct {
	processor Processor
	archiver  archive.Archiver
}

func NewHandler(processor Processor, archiver archive.Archiver) *Handler {
	return &Handler{
		processor: processor,
		archiver:  archiver,
	}
}

// Receive accepts a data pipeline report. Only an unreadable body or a fault in the
// orchestration itself is visible to the caller; delivery and archival failures are
// logged by the processor.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	report, err := domain.DecodeReport(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if errors.Is(err, domain.ErrEmptyReport) {
		respond.Error(w, r, http.StatusBadRequest, api.MsgNoJSON)
		return
	}
	if err != nil {
		logger.Warn().Err(err).Msg("rejected report body")
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	receipt, err := h.process(ctx, report)
	if err != nil {
		logger.Error().Err(err).Msg("Error processing webhook")
		respond.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	respond.JSON(w, r, http.StatusOK, api.Acknowledgement{
		Status:   api.StatusReceived,
		ReportID: receipt.ReportID,
	})
}

func (h *Handler) process(ctx context.Context, report domain.Report) (receipt intake.Receipt, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	return h.processor.Process(ctx, report), nil
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond.Error(w, r, http.StatusBadRequest, "invalid 'limit'. Expected a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	response := api.ReportList{Reports: []api.ArchivedReport{}}
	if h.archiver == nil {
		respond.JSON(w, r, http.StatusOK, response)
		return
	}

	entries, err := h.archiver.List(ctx, limit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list archived reports")
		respond.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	for _, e := range entries {
		response.Reports = append(response.Reports, api.ArchivedReport{
			Name:       e.Name,
			ReportID:   e.ReportID,
			ArchivedAt: e.ArchivedAt,
			Size:       e.Size,
		})
	}
	respond.JSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	name := chi.URLParam(r, "name")

	if h.archiver == nil {
		respond.Error(w, r, http.StatusNotFound, archive.ErrNotFound.Error())
		return
	}

	data, err := h.archiver.Open(ctx, name)
	if errors.Is(err, archive.ErrNotFound) {
		respond.Error(w, r, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("name", name).Msg("failed to open archived report")
		respond.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		logger.Error().Err(err).Str("name", name).Msg("failed to write archived report")
	}
}
