package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reconbattery/pos/internal/catalog"
	"github.com/reconbattery/pos/internal/importer"
)

type Handler struct {
	importSvc  *importer.Service
	catalogSvc *catalog.Service
}

func NewHandler(importSvc *importer.Service, catalogSvc *catalog.Service) *Handler {
	return &Handler{importSvc: importSvc, catalogSvc: catalogSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/products", h.importProducts)
}

type importSuccessResponse struct {
	Imported int `json:"imported"`
}

// importProducts ingests a product CSV (raw body) and upserts every row into
// the catalog.
func (h *Handler) importProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.importSvc.Import(importer.FormatCatalogCSV, r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.catalogSvc.PutBatch(r.Context(), products); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(importSuccessResponse{Imported: len(products)}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
