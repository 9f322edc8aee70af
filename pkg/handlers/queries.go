package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/dataquill-io/dataquill-engine/pkg/apperrors"
	"github.com/dataquill-io/dataquill-engine/pkg/datasource"
	"github.com/dataquill-io/dataquill-engine/pkg/services"
	enginesql "github.com/dataquill-io/dataquill-engine/pkg/sql"
)

// QueryHandler executes SELECT statements and generates queries from
// natural-language questions.
type QueryHandler struct {
	state     *datasource.State
	generator *services.QueryGenerator
	logger    *zap.Logger
}

// NewQueryHandler creates the handler.
func NewQueryHandler(state *datasource.State, generator *services.QueryGenerator, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{state: state, generator: generator, logger: logger.Named("queries")}
}

// RegisterRoutes registers the handler's routes on the given mux.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/query", h.Execute)
	mux.HandleFunc("POST /api/generate-query", h.Generate)
}

// Execute handles POST /api/query. Statements pass through the read-only
// guard before touching the datasource; rejection there is a hard invariant,
// not a validation hint.
func (h *QueryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Current()
	if !snap.Connected() {
		_ = ErrorResponse(w, http.StatusBadRequest, "Not connected to a database")
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	guarded, err := enginesql.Guard(req.Query)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotSelect) {
			_ = ErrorResponse(w, http.StatusBadRequest, "Only SELECT queries are allowed for safety")
			return
		}
		_ = ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := snap.Source.Query(r.Context(), guarded.NormalizedSQL)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"columns":   result.Columns,
		"data":      result.Rows,
		"row_count": result.RowCount,
	})
}

// Generate handles POST /api/generate-query: render context, generate a
// candidate statement (remote or pattern), and score it against the
// question. Remote failures never surface here; only the method field tells
// the strategies apart.
func (h *QueryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Current()
	if !snap.Connected() {
		_ = ErrorResponse(w, http.StatusBadRequest, "Not connected to a database")
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "Question is required")
		return
	}

	if check := enginesql.CheckInputForInjection(question); check != nil {
		h.logger.Warn("question rejected by injection check",
			zap.String("fingerprint", check.Fingerprint))
		_ = ErrorResponse(w, http.StatusBadRequest, apperrors.ErrInjectionDetected.Error())
		return
	}

	generated := h.generator.Generate(r.Context(), question, snap.Schema, snap.Documentation)
	validation := services.ValidateQuery(question, generated.Query, snap.Schema)

	_ = WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"query":      generated.Query,
		"method":     generated.Method,
		"validation": validation,
	})
}
