package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/dataquill-io/dataquill-engine/pkg/datasource"
)

// SchemaHandler rebuilds the schema from the connected datasource.
type SchemaHandler struct {
	state  *datasource.State
	logger *zap.Logger
}

// NewSchemaHandler creates the handler.
func NewSchemaHandler(state *datasource.State, logger *zap.Logger) *SchemaHandler {
	return &SchemaHandler{state: state, logger: logger.Named("schema")}
}

// RegisterRoutes registers the handler's routes on the given mux.
func (h *SchemaHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/explore", h.Explore)
}

// Explore handles GET /api/explore. The schema is always rebuilt wholesale,
// never patched, and installed in a fresh snapshot that keeps the current
// documentation overlay.
func (h *SchemaHandler) Explore(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Current()
	if !snap.Connected() {
		_ = ErrorResponse(w, http.StatusBadRequest, "Not connected to a database")
		return
	}

	schema, err := snap.Source.Introspect(r.Context())
	if err != nil {
		h.logger.Error("introspection failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	h.state.Update(func(cur datasource.Snapshot) datasource.Snapshot {
		cur.Schema = schema
		return cur
	})

	h.logger.Info("schema explored", zap.Int("tables", schema.Len()))

	_ = WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"schema":  schema,
	})
}
