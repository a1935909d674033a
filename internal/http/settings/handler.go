package settings

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reconbattery/pos/internal/cart"
	"github.com/reconbattery/pos/internal/money"
	"github.com/reconbattery/pos/internal/settings"
)

type Handler struct {
	store *settings.Store
}

func NewHandler(store *settings.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/taxrate", h.getTaxRate)
	r.Put("/taxrate", h.putTaxRate)
}

type taxRateBody struct {
	RatePercent string `json:"rate_percent"`
}

func (h *Handler) getTaxRate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	resp := taxRateBody{RatePercent: h.store.TaxRatePercent().String()}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) putTaxRate(w http.ResponseWriter, r *http.Request) {
	var req taxRateBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rate, err := money.Parse(req.RatePercent)
	if err != nil {
		http.Error(w, "invalid rate", http.StatusBadRequest)
		return
	}

	if err := h.store.SetTaxRatePercent(rate); err != nil {
		if errors.Is(err, cart.ErrInvalidTaxRate) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
