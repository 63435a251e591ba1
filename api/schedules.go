package api

import (
	"math"
	"net/http"

	"git.0xdad.com/tblyler/medicate/daily"
	"git.0xdad.com/tblyler/medicate/db"
	"github.com/go-chi/chi/v5"
)

func validSchedule(in db.ScheduleInput) string {
	switch {
	case !daily.ValidTime(in.Time):
		return "time must be HH:MM"
	case in.MedicineID == "":
		return "medicine_id is required"
	case in.Amount < 0 || math.IsNaN(in.Amount):
		return "amount must not be negative"
	}

	return ""
}

func (h *handlers) createSchedule(w http.ResponseWriter, r *http.Request) {
	var in db.ScheduleInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	if msg := validSchedule(in); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	id, err := h.repos.Schedules.Create(r.Context(), in)
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, in.WithID(id))
}

func (h *handlers) listSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.repos.Schedules.List(r.Context())
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, schedules)
}

func (h *handlers) getSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.repos.Schedules.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}

	if schedule == nil {
		writeError(w, r, http.StatusNotFound, "schedule not found")
		return
	}

	writeJSON(w, r, http.StatusOK, schedule)
}

func (h *handlers) updateSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in db.ScheduleInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	if msg := validSchedule(in); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	existing, err := h.repos.Schedules.GetByID(r.Context(), id)
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}

	if existing == nil {
		writeError(w, r, http.StatusNotFound, "schedule not found")
		return
	}

	if err = h.repos.Schedules.Update(r.Context(), id, in); err != nil {
		h.storeFailure(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, in.WithID(id))
}

func (h *handlers) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.repos.Schedules.GetByID(r.Context(), id)
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}

	if existing == nil {
		writeError(w, r, http.StatusNotFound, "schedule not found")
		return
	}

	if err = h.repos.Schedules.Delete(r.Context(), id); err != nil {
		h.storeFailure(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) dailySchedule(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if !daily.ValidDate(date) {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	view, err := daily.GetDailySchedule(r.Context(), date, h.repos.Schedules, h.repos.Medicines)
	if err != nil {
		h.storeFailure(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, view)
}
