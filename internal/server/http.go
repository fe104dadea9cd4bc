// Package server wires the HTTP routes to their handlers.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	identityhandler "cell-community/backend/internal/identity/handler"
	leadershiphandler "cell-community/backend/internal/leadership/handler"
	memberhandler "cell-community/backend/internal/member/handler"
)

// New builds the router with all application routes mounted.
func New(members *memberhandler.Handler, leadership *leadershiphandler.Handler, identity *identityhandler.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(allowCORS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/usuarios", members.List)
	r.Post("/usuarios", members.Create)
	r.Get("/usuarios/{id}", members.Get)
	r.Put("/usuarios/{id}", members.Update)
	r.Delete("/usuarios/{id}", members.Delete)
	r.Get("/celulas/{idCelula}/usuarios", members.ListByCell)

	r.Put("/usuarios/{id}/tornar-lider", leadership.Promote)
	r.Put("/usuarios/{id}/rebaixar-lider", leadership.Demote)

	r.Post("/login", identity.Login)

	return r
}

// allowCORS mirrors the permissive CORS policy the browser clients rely on.
func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
