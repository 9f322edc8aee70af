package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/dataquill-io/dataquill-engine/pkg/datasource"
	"github.com/dataquill-io/dataquill-engine/pkg/models"
)

// DatasourceHandler manages the active connection: connect and status.
type DatasourceHandler struct {
	state   *datasource.State
	docSeed models.Documentation // overlay applied on every connect, may be nil
	logger  *zap.Logger
}

// NewDatasourceHandler creates the handler. docSeed may be nil.
func NewDatasourceHandler(state *datasource.State, docSeed models.Documentation, logger *zap.Logger) *DatasourceHandler {
	return &DatasourceHandler{state: state, docSeed: docSeed, logger: logger.Named("datasource")}
}

// RegisterRoutes registers the handler's routes on the given mux.
func (h *DatasourceHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/connect", h.Connect)
	mux.HandleFunc("GET /api/status", h.Status)
}

// Connect handles POST /api/connect. A successful connect installs a fresh
// snapshot: new source, no schema, documentation reset to the configured
// seed overlay. The previous source is closed after the swap.
func (h *DatasourceHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConnectionString string `json:"connection_string"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	connString := strings.TrimSpace(req.ConnectionString)
	if connString == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "Connection string is required")
		return
	}

	src, err := datasource.Open(r.Context(), connString, h.logger)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := src.Ping(r.Context()); err != nil {
		src.Close()
		_ = ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// The previous source must be captured inside the mutate callback: it
	// runs under the writer mutex, so concurrent connects each see the
	// source they actually replaced and close it exactly once.
	var old datasource.Source
	h.state.Update(func(cur datasource.Snapshot) datasource.Snapshot {
		old = cur.Source
		return datasource.Snapshot{
			Source:           src,
			ConnectionString: connString,
			Documentation:    h.docSeed,
		}
	})
	if old != nil {
		old.Close()
	}

	h.logger.Info("connected to datasource", zap.String("kind", src.Kind()))

	_ = WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Successfully connected to the database",
	})
}

// Status handles GET /api/status.
func (h *DatasourceHandler) Status(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Current()
	_ = WriteJSON(w, http.StatusOK, map[string]any{
		"connected":         snap.Connected(),
		"has_schema":        snap.Schema != nil,
		"has_documentation": snap.Documentation != nil,
	})
}
