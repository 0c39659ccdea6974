package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dhabedank/idea-blueprint/internal/core"
	"github.com/dhabedank/idea-blueprint/internal/history"
	"github.com/dhabedank/idea-blueprint/internal/output"
	"github.com/dhabedank/idea-blueprint/internal/service"
)

// User-safe messages for the history and export endpoints.
const (
	MsgIndexOutOfRange = "History index out of range"
	MsgNoHistory       = "No blueprint has been generated yet"
	MsgUnknownFormat   = "Unknown export format"
)

const maxBodyBytes = 1 << 20

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	svc     *service.Service
	history *history.Store
	export  output.Config
	logger  *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(svc *service.Service, store *history.Store, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, history: store, export: output.DefaultConfig(), logger: logger}
}

// Routes returns the API mux wrapped in CORS.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return CORS(mux)
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Health)

	// Generation
	mux.HandleFunc("POST /api/breakdown", h.Breakdown)
	mux.HandleFunc("POST /api/explore-component", h.ExploreComponent)

	// History
	mux.HandleFunc("GET /api/history", h.ListHistory)
	mux.HandleFunc("GET /api/history/current", h.CurrentHistory)
	mux.HandleFunc("POST /api/history/{index}/select", h.SelectHistory)

	// Export
	mux.HandleFunc("GET /api/export", h.Export)
	mux.HandleFunc("GET /api/diagram", h.Diagram)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.InfoContext(r.Context(), "rejected request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, core.MsgInvalidInput)
		return false
	}
	return true
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"adapter": h.svc.Adapter().Name(),
	})
}

// Breakdown generates a blueprint from an idea and appends it to history.
func (h *Handler) Breakdown(w http.ResponseWriter, r *http.Request) {
	var req core.GenerationRequest
	if !h.decode(w, r, &req) {
		return
	}

	out := h.svc.Run(r.Context(), req)
	if !out.OK() {
		writeError(w, out.HTTPStatus, out.Error)
		return
	}

	index, _ := h.history.Append(req.Normalize(), out.Blueprint)
	w.Header().Set("X-History-Index", strconv.Itoa(index))
	writeJSON(w, http.StatusOK, out.Blueprint)
}

// ExploreComponent returns a detailed breakdown of one component or service.
func (h *Handler) ExploreComponent(w http.ResponseWriter, r *http.Request) {
	var req core.ComponentRequest
	if !h.decode(w, r, &req) {
		return
	}

	breakdown, err := h.svc.Explore(r.Context(), req)
	if err != nil {
		msg, status := core.PublicError(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

type historySummary struct {
	Index     int       `json:"index"`
	ID        string    `json:"id"`
	ParentID  string    `json:"parentId,omitempty"`
	Label     string    `json:"label"`
	Idea      string    `json:"idea"`
	FocusArea *string   `json:"focusArea"`
	CreatedAt time.Time `json:"createdAt"`
}

type listHistoryResponse struct {
	Entries      []historySummary `json:"entries"`
	CurrentIndex int              `json:"currentIndex"`
}

type historyEntryResponse struct {
	Index int `json:"index"`
	history.Entry
	Label string `json:"label"`
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	entries, current := h.history.Snapshot()
	resp := listHistoryResponse{
		Entries:      make([]historySummary, len(entries)),
		CurrentIndex: current,
	}
	for i, e := range entries {
		resp.Entries[i] = historySummary{
			Index:     i,
			ID:        e.ID,
			ParentID:  e.ParentID,
			Label:     e.Label(),
			Idea:      e.Request.Idea,
			FocusArea: e.Request.FocusArea,
			CreatedAt: e.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CurrentHistory(w http.ResponseWriter, r *http.Request) {
	index, e, ok := h.history.Cursor()
	if !ok {
		writeError(w, http.StatusNotFound, MsgNoHistory)
		return
	}
	writeJSON(w, http.StatusOK, historyEntryResponse{Index: index, Entry: e, Label: e.Label()})
}

// SelectHistory moves the history cursor. Later entries are kept.
func (h *Handler) SelectHistory(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err == nil {
		err = h.history.Navigate(index)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, MsgIndexOutOfRange)
		return
	}

	e, _ := h.history.Get(index)
	writeJSON(w, http.StatusOK, historyEntryResponse{Index: index, Entry: e, Label: e.Label()})
}

// entryFor resolves the optional ?index= query parameter, defaulting to the
// current entry. It writes the error response itself.
func (h *Handler) entryFor(w http.ResponseWriter, r *http.Request) (history.Entry, bool) {
	raw := r.URL.Query().Get("index")
	if raw == "" {
		e, ok := h.history.Current()
		if !ok {
			writeError(w, http.StatusNotFound, MsgNoHistory)
		}
		return e, ok
	}

	index, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, MsgIndexOutOfRange)
		return history.Entry{}, false
	}
	e, err := h.history.Get(index)
	if err != nil {
		if errors.Is(err, core.ErrIndexOutOfRange) {
			writeError(w, http.StatusBadRequest, MsgIndexOutOfRange)
		} else {
			writeError(w, http.StatusInternalServerError, core.MsgUnexpected)
		}
		return history.Entry{}, false
	}
	return e, true
}

// Export renders a history entry as json, markdown or paginated text.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	adapter, err := output.NewAdapter(format, h.export)
	if err != nil {
		writeError(w, http.StatusBadRequest, MsgUnknownFormat)
		return
	}

	e, ok := h.entryFor(w, r)
	if !ok {
		return
	}

	data, err := adapter.Render(e.Blueprint)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "export failed", "format", adapter.Name(), "error", err)
		writeError(w, http.StatusInternalServerError, core.MsgUnexpected)
		return
	}

	w.Header().Set("Content-Type", adapter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="blueprint.%s"`, extension(adapter.Name())))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func extension(format string) string {
	switch format {
	case "markdown":
		return "md"
	case "text":
		return "txt"
	}
	return format
}

// Diagram returns the architecture graph of a history entry.
func (h *Handler) Diagram(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entryFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, output.Diagram(e.Blueprint))
}
