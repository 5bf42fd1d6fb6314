package api

import (
	"net/http"

	"tokoponsel/m/internal/ledger"
)

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	f := parseFilter(r)
	sales, total, err := h.sales.List(r.Context(), f)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondList(w, sales, f, total)
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req ledger.SaleInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, profit, err := h.coord.RecordSale(r.Context(), req, currentUsername(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": id, "profit": profit})
}

func (h *Handler) updateSale(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	var req ledger.SalePatch
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.coord.UpdateSale(r.Context(), id, req); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "admin") {
		return
	}
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	if err := h.coord.DeleteSale(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

// profitReport aggregates the ledger over an optional from/to range for the
// back-office profit history screen.
func (h *Handler) profitReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	summary, err := h.sales.ProfitReport(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"count":   summary.Count,
		"revenue": summary.Revenue,
		"profit":  summary.Profit,
	})
}
