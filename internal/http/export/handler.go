package export

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reconbattery/pos/internal/export"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{table}", h.exportTable)
}

func (h *Handler) exportTable(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	csv, err := h.svc.Export(r.Context(), table)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filename := fmt.Sprintf("%s_export_%s.csv", table, time.Now().Format(time.DateOnly))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	_, _ = w.Write([]byte(csv))
}
