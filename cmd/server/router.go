package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/lingua-bot/internal/api"
	apiMiddleware "github.com/phrazzld/lingua-bot/internal/api/middleware"
	"github.com/rs/cors"
)

// setupRouter registers the public health probe and the authenticated game
// and listening endpoints.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	// An empty origin list would make cors allow every origin.
	if origins := app.config.Server.AllowedOrigins; len(origins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			ExposedHeaders: []string{apiMiddleware.TraceHeader},
		}).Handler)
	}

	var pinger api.Pinger
	if app.db != nil {
		pinger = app.db
	}
	r.Get("/health", api.NewHealthHandler(pinger).Health)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokens)
	turnHandler := api.NewTurnHandler(app.game, app.logger)
	listenHandler := api.NewListenHandler(app.listen, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/turns", turnHandler.HandleTurn)
		r.Post("/listen", listenHandler.ListenWords)
		r.Get("/words/{id}/listen", listenHandler.ListenWord)
	})

	return r
}
