package api

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"

	"git.0xdad.com/tblyler/medicate/db"
	"github.com/go-chi/chi/v5"
)

func validMedicine(in db.MedicineInput) string {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return "name is required"
	case in.Dose < 0 || math.IsNaN(in.Dose):
		return "dose must not be negative"
	case in.Stock < 0 || math.IsNaN(in.Stock):
		return "stock must not be negative"
	}

	return ""
}

func (h *handlers) createMedicine(w http.ResponseWriter, r *http.Request) {
	var in db.MedicineInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	if msg := validMedicine(in); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	id, err := h.repos.Medicines.Create(r.Context(), in)
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, in.WithID(id))
}

func (h *handlers) listMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.repos.Medicines.List(r.Context())
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, medicines)
}

func (h *handlers) getMedicine(w http.ResponseWriter, r *http.Request) {
	medicine, err := h.repos.Medicines.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}

	if medicine == nil {
		writeError(w, r, http.StatusNotFound, "medicine not found")
		return
	}

	writeJSON(w, r, http.StatusOK, medicine)
}

func (h *handlers) updateMedicine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in db.MedicineInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	if msg := validMedicine(in); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	existing, err := h.repos.Medicines.GetByID(r.Context(), id)
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}

	if existing == nil {
		writeError(w, r, http.StatusNotFound, "medicine not found")
		return
	}

	if err = h.repos.Medicines.Update(r.Context(), id, in); err != nil {
		h.storeFailure(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, in.WithID(id))
}

func (h *handlers) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.repos.Medicines.GetByID(r.Context(), id)
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}

	if existing == nil {
		writeError(w, r, http.StatusNotFound, "medicine not found")
		return
	}

	if err = h.repos.Medicines.Delete(r.Context(), id); err != nil {
		h.storeFailure(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) addStock(w http.ResponseWriter, r *http.Request) {
	h.changeStock(w, r, h.repos.Medicines.AddStock)
}

func (h *handlers) reduceStock(w http.ResponseWriter, r *http.Request) {
	h.changeStock(w, r, h.repos.Medicines.ReduceStock)
}

func (h *handlers) changeStock(w http.ResponseWriter, r *http.Request, change func(ctx context.Context, id string, amount float64) (bool, error)) {
	id := chi.URLParam(r, "id")

	amount, err := amountParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "amount query parameter must be a non negative number")
		return
	}

	found, err := change(r.Context(), id, amount)
	if errors.Is(err, db.ErrInsufficientStock) {
		writeError(w, r, http.StatusConflict, "insufficient stock")
		return
	}

	if err != nil {
		h.storeFailure(w, r, err)
		return
	}

	if !found {
		writeError(w, r, http.StatusNotFound, "medicine not found")
		return
	}

	h.getMedicine(w, r)
}
