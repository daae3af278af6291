package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/bongdaha/livescore/internal/engine"
	"github.com/bongdaha/livescore/internal/platform/logging"
	"github.com/bongdaha/livescore/internal/snapshot"
	"github.com/bongdaha/livescore/internal/view"
)

const maxCommandBodySize = 16 << 10

type Handler struct {
	engine    *engine.Engine
	snapshots *snapshot.Service
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(eng *engine.Engine, snapshots *snapshot.Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		engine:    eng,
		snapshots: snapshots,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// FixturesByDate serves the day snapshot. A missing or malformed date
// falls back to today, matching what the dashboard asks for on boot.
func (h *Handler) FixturesByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FixturesByDate")
	defer span.End()

	ymd := strings.TrimSpace(r.URL.Query().Get("date"))
	if _, err := time.Parse("2006-01-02", ymd); err != nil {
		ymd = view.DayKey(time.Now())
	}

	writeJSON(ctx, w, http.StatusOK, h.snapshots.FixturesForDay(ctx, ymd))
}

func (h *Handler) LiveFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LiveFixtures")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, h.snapshots.Live(ctx))
}

func (h *Handler) News(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.News")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, h.snapshots.News(ctx))
}

// FixtureDetail serves the provider envelope for one fixture id. Without a
// usable id the body is an empty object, which pollers treat as absence.
func (h *Handler) FixtureDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FixtureDetail")
	defer span.End()

	id, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("id")), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(ctx, w, http.StatusOK, map[string]any{})
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{
		"response": h.snapshots.Detail(ctx, id),
	})
}

func (h *Handler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DashboardPage")
	defer span.End()

	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	regions, err := h.engine.Snapshot(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "dashboard snapshot failed", "error", err)
		writeError(ctx, w, fmt.Errorf("%w: %v", ErrUnavailable, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := writeDashboardPage(w, regions); err != nil {
		h.logger.ErrorContext(ctx, "dashboard page render failed", "error", err)
	}
}

func (h *Handler) Regions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Regions")
	defer span.End()

	regions, err := h.engine.Snapshot(ctx)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", ErrUnavailable, err))
		return
	}
	writeSuccess(ctx, w, http.StatusOK, regions)
}

type commandRequest struct {
	Type  string `json:"type" validate:"required,oneof=selectTab selectDay shiftDay selectCompetition toggleFavorite carouselStep openDetail closeDetail selectDetailTab"`
	Tab   string `json:"tab,omitempty"`
	Day   string `json:"day,omitempty"`
	Days  int    `json:"days,omitempty"`
	ID    int64  `json:"id,omitempty"`
	Delta int    `json:"delta,omitempty"`
}

// Command applies one interaction and answers with the regions rendered
// from the new state.
func (h *Handler) Command(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Command")
	defer span.End()

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxCommandBodySize))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read body: %v", ErrInvalidInput, err))
		return
	}

	var req commandRequest
	if err := sonic.Unmarshal(raw, &req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode body: %v", ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", ErrInvalidInput, err))
		return
	}

	cmd, err := req.toCommand()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	regions, err := h.engine.Dispatch(ctx, cmd)
	if err != nil {
		h.logger.ErrorContext(ctx, "command dispatch failed", "type", req.Type, "error", err)
		writeError(ctx, w, fmt.Errorf("%w: %v", ErrUnavailable, err))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, regions)
}

func (r commandRequest) toCommand() (engine.Command, error) {
	switch r.Type {
	case "selectTab":
		return engine.SelectTab{Tab: view.ParseTab(r.Tab)}, nil
	case "selectDay":
		day, err := time.Parse("2006-01-02", strings.TrimSpace(r.Day))
		if err != nil {
			return nil, fmt.Errorf("%w: day must be YYYY-MM-DD", ErrInvalidInput)
		}
		return engine.SelectDay{Day: day}, nil
	case "shiftDay":
		return engine.ShiftDay{Days: r.Days}, nil
	case "selectCompetition":
		return engine.SelectCompetition{ID: r.ID}, nil
	case "toggleFavorite":
		if r.ID <= 0 {
			return nil, fmt.Errorf("%w: id must be greater than zero", ErrInvalidInput)
		}
		return engine.ToggleFavorite{FixtureID: r.ID}, nil
	case "carouselStep":
		return engine.CarouselStep{Delta: r.Delta}, nil
	case "openDetail":
		if r.ID <= 0 {
			return nil, fmt.Errorf("%w: id must be greater than zero", ErrInvalidInput)
		}
		return engine.OpenDetail{FixtureID: r.ID}, nil
	case "closeDetail":
		return engine.CloseDetail{}, nil
	case "selectDetailTab":
		return engine.SelectDetailTab{Tab: view.ParseDetailTab(r.Tab)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown command type %q", ErrInvalidInput, r.Type)
	}
}
