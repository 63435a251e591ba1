package api

import (
	"math"
	"net/http"

	"git.0xdad.com/tblyler/medicate/daily"
	"git.0xdad.com/tblyler/medicate/db"
	"github.com/go-chi/chi/v5"
)

func (h *handlers) createDosage(w http.ResponseWriter, r *http.Request) {
	var in db.DosageHistoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	switch {
	case !daily.ValidDate(in.Date):
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	case !daily.ValidTime(in.Time):
		writeError(w, r, http.StatusBadRequest, "time must be HH:MM")
		return
	case in.MedicineID == "":
		writeError(w, r, http.StatusBadRequest, "medicine_id is required")
		return
	case in.Amount < 0 || math.IsNaN(in.Amount):
		writeError(w, r, http.StatusBadRequest, "amount must not be negative")
		return
	}

	id, err := h.repos.Dosages.Create(r.Context(), in)
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, in.WithID(id))
}

func (h *handlers) listDosages(w http.ResponseWriter, r *http.Request) {
	history, err := h.repos.Dosages.List(r.Context())
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, history)
}

func (h *handlers) getDosage(w http.ResponseWriter, r *http.Request) {
	entry, err := h.repos.Dosages.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}

	if entry == nil {
		writeError(w, r, http.StatusNotFound, "dosage history entry not found")
		return
	}

	writeJSON(w, r, http.StatusOK, entry)
}

func (h *handlers) deleteDosage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.repos.Dosages.GetByID(r.Context(), id)
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}

	if existing == nil {
		writeError(w, r, http.StatusNotFound, "dosage history entry not found")
		return
	}

	if err = h.repos.Dosages.Delete(r.Context(), id); err != nil {
		h.storeFailure(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
