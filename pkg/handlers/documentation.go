package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dataquill-io/dataquill-engine/pkg/datasource"
	"github.com/dataquill-io/dataquill-engine/pkg/models"
)

// DocumentationHandler gets and sets the documentation overlay.
type DocumentationHandler struct {
	state  *datasource.State
	logger *zap.Logger
}

// NewDocumentationHandler creates the handler.
func NewDocumentationHandler(state *datasource.State, logger *zap.Logger) *DocumentationHandler {
	return &DocumentationHandler{state: state, logger: logger.Named("documentation")}
}

// RegisterRoutes registers the handler's routes on the given mux.
func (h *DocumentationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/documentation", h.Save)
	mux.HandleFunc("GET /api/documentation", h.Get)
}

// Save handles POST /api/documentation. The overlay is replaced wholesale in
// a fresh snapshot; the schema it is paired with stays the one the snapshot
// already holds.
func (h *DocumentationHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Documentation models.Documentation `json:"documentation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	docs := req.Documentation
	if docs == nil {
		docs = models.Documentation{}
	}

	h.state.Update(func(cur datasource.Snapshot) datasource.Snapshot {
		cur.Documentation = docs
		return cur
	})

	h.logger.Info("documentation saved", zap.Int("tables", len(docs)))

	_ = WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Documentation saved successfully",
	})
}

// Get handles GET /api/documentation.
func (h *DocumentationHandler) Get(w http.ResponseWriter, r *http.Request) {
	docs := h.state.Current().Documentation
	if docs == nil {
		docs = models.Documentation{}
	}
	_ = WriteJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"documentation": docs,
	})
}
