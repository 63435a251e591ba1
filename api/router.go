// Package api exposes the repositories and the daily schedule over HTTP.
package api

import (
	"net/http"

	"git.0xdad.com/tblyler/medicate/db"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Options for NewRouter
type Options struct {
	Repositories *db.Repositories
	Logger       zerolog.Logger
}

// NewRouter with every route registered
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(RequestLogger(opts.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	h := &handlers{
		repos:  opts.Repositories,
		logger: opts.Logger,
	}

	r.Route("/medicines", func(mr chi.Router) {
		mr.Post("/", h.createMedicine)
		mr.Get("/", h.listMedicines)
		mr.Get("/{id}", h.getMedicine)
		mr.Put("/{id}", h.updateMedicine)
		mr.Delete("/{id}", h.deleteMedicine)
		mr.Post("/{id}/addStock", h.addStock)
		mr.Post("/{id}/reduceStock", h.reduceStock)
	})

	r.Route("/schedules", func(sr chi.Router) {
		sr.Post("/", h.createSchedule)
		sr.Get("/", h.listSchedules)
		sr.Get("/daily/{date}", h.dailySchedule)
		sr.Get("/{id}", h.getSchedule)
		sr.Put("/{id}", h.updateSchedule)
		sr.Delete("/{id}", h.deleteSchedule)
	})

	r.Route("/dosage-history", func(dr chi.Router) {
		dr.Post("/", h.createDosage)
		dr.Get("/", h.listDosages)
		dr.Get("/{id}", h.getDosage)
		dr.Delete("/{id}", h.deleteDosage)
	})

	return r
}

type handlers struct {
	repos  *db.Repositories
	logger zerolog.Logger
}
