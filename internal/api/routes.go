package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(corsMiddleware)

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Post("/chess/new-game", s.handleNewGame)
		r.Post("/chess/make-move", s.handleMakeMove)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/auth/me", s.handleMe)
			r.Post("/link", s.handleLinkAccount)
			r.Delete("/unlink/{platform}", s.handleUnlinkAccount)
			r.Get("/games/{platform}", s.handleFetchGames)
		})
	})

	return r
}
