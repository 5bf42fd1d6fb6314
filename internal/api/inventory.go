package api

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"tokoponsel/m/internal/store"
)

var validate = newValidator()

// newValidator reports field names by json tag so validation messages match
// the wire format.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// Unit handlers

type unitRequest struct {
	ProductName string `json:"product_name" validate:"required"`
	SerialNo    string `json:"serial_no" validate:"required"`
	IMEI        string `json:"imei"`
	Storage     string `json:"storage"`
	Color       string `json:"color"`
	Warranty    string `json:"warranty"`
	Origin      string `json:"origin"`
	CostPrice   int64  `json:"cost_price" validate:"gte=0"`
	IntakeDate  string `json:"intake_date" validate:"omitempty,datetime=2006-01-02"`
}

type unitPatchRequest struct {
	ProductName *string `json:"product_name"`
	SerialNo    *string `json:"serial_no"`
	IMEI        *string `json:"imei"`
	Storage     *string `json:"storage"`
	Color       *string `json:"color"`
	Warranty    *string `json:"warranty"`
	Origin      *string `json:"origin"`
	CostPrice   *int64  `json:"cost_price" validate:"omitempty,gte=0"`
	IntakeDate  *string `json:"intake_date" validate:"omitempty,datetime=2006-01-02"`
	Status      *string `json:"status" validate:"omitempty,oneof=READY SOLD"`
}

func (h *Handler) listUnits(w http.ResponseWriter, r *http.Request) {
	f := parseFilter(r)
	units, total, err := h.inventory.ListUnits(r.Context(), f)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondList(w, units, f, total)
}

func (h *Handler) createUnit(w http.ResponseWriter, r *http.Request) {
	var req unitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		respondDomainError(w, err)
		return
	}
	id, err := h.inventory.CreateUnit(r.Context(), store.UnitInput{
		ProductName: req.ProductName,
		SerialNo:    req.SerialNo,
		IMEI:        req.IMEI,
		Storage:     req.Storage,
		Color:       req.Color,
		Warranty:    req.Warranty,
		Origin:      req.Origin,
		CostPrice:   req.CostPrice,
		IntakeDate:  req.IntakeDate,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": id})
}

func (h *Handler) updateUnit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid unit id")
		return
	}
	var req unitPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		respondDomainError(w, err)
		return
	}
	err := h.inventory.UpdateUnit(r.Context(), id, store.UnitPatch{
		ProductName: req.ProductName,
		SerialNo:    req.SerialNo,
		IMEI:        req.IMEI,
		Storage:     req.Storage,
		Color:       req.Color,
		Warranty:    req.Warranty,
		Origin:      req.Origin,
		CostPrice:   req.CostPrice,
		IntakeDate:  req.IntakeDate,
		Status:      req.Status,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

func (h *Handler) deleteUnit(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "admin") {
		return
	}
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid unit id")
		return
	}
	if err := h.inventory.DeleteUnit(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

// Accessory handlers

type accessoryRequest struct {
	SKU         string `json:"sku" validate:"required"`
	ProductName string `json:"product_name" validate:"required"`
	Storage     string `json:"storage"`
	Color       string `json:"color"`
	Warranty    string `json:"warranty"`
	Origin      string `json:"origin"`
	CostPrice   int64  `json:"cost_price" validate:"required,gt=0"`
	Quantity    int64  `json:"quantity" validate:"gte=0"`
	IntakeDate  string `json:"intake_date" validate:"required,datetime=2006-01-02"`
}

type accessoryPatchRequest struct {
	SKU         *string `json:"sku"`
	ProductName *string `json:"product_name"`
	Storage     *string `json:"storage"`
	Color       *string `json:"color"`
	Warranty    *string `json:"warranty"`
	Origin      *string `json:"origin"`
	CostPrice   *int64  `json:"cost_price" validate:"omitempty,gt=0"`
	Quantity    *int64  `json:"quantity" validate:"omitempty,gte=0"`
	IntakeDate  *string `json:"intake_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) listAccessories(w http.ResponseWriter, r *http.Request) {
	f := parseFilter(r)
	accessories, total, err := h.inventory.ListAccessories(r.Context(), f)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondList(w, accessories, f, total)
}

func (h *Handler) createAccessory(w http.ResponseWriter, r *http.Request) {
	var req accessoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		respondDomainError(w, err)
		return
	}
	id, err := h.inventory.CreateAccessory(r.Context(), store.AccessoryInput{
		SKU:         req.SKU,
		ProductName: req.ProductName,
		Storage:     req.Storage,
		Color:       req.Color,
		Warranty:    req.Warranty,
		Origin:      req.Origin,
		CostPrice:   req.CostPrice,
		Quantity:    req.Quantity,
		IntakeDate:  req.IntakeDate,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": id})
}

func (h *Handler) updateAccessory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid accessory id")
		return
	}
	var req accessoryPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		respondDomainError(w, err)
		return
	}
	err := h.inventory.UpdateAccessory(r.Context(), id, store.AccessoryPatch{
		SKU:         req.SKU,
		ProductName: req.ProductName,
		Storage:     req.Storage,
		Color:       req.Color,
		Warranty:    req.Warranty,
		Origin:      req.Origin,
		CostPrice:   req.CostPrice,
		Quantity:    req.Quantity,
		IntakeDate:  req.IntakeDate,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

func (h *Handler) deleteAccessory(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "admin") {
		return
	}
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid accessory id")
		return
	}
	if err := h.inventory.DeleteAccessory(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}
