package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Get("/user", s.handleUser)

		r.Get("/settings", s.handleSettings)
		r.Put("/settings", s.handleUpdateSettings)

		r.Get("/progress", s.handleProgress)
		r.Get("/stats", s.handleStats)
		r.Post("/session", s.handleStartSession)

		r.Get("/daily", s.handleDaily)
		r.Post("/daily/answer", s.handleDailyAnswer)
		r.Post("/daily/close", s.handleDailyClose)
		r.Post("/practice", s.handlePractice)

		r.Get("/report/weekly", s.handleWeeklyReport)
		r.Get("/level", s.handleLevel)
		r.Get("/difficulty/next", s.handleNextDifficulty)

		r.Get("/events", s.handleEvents)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   s.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
	})
	return c.Handler(r)
}
