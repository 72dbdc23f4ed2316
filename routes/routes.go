package routes

import (
	"net/http"

	_ "github.com/Dosada05/tournament-brackets/docs"
	"github.com/Dosada05/tournament-brackets/handlers"
	"github.com/Dosada05/tournament-brackets/middleware"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Tournament *handlers.TournamentHandler
	Bracket    *handlers.BracketHandler
	WebSocket  *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Live-обновления сетки; авторизация не нужна, сетка публичная
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	authenticate := middleware.Authenticate(opts.JWTSecret)
	organizerOnly := middleware.Authorize(models.RoleOrganizer, models.RoleAdmin)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		r.Route("/tournaments", func(r chi.Router) {
			// Публичные маршруты для просмотра турниров
			r.Get("/", h.Tournament.ListHandler)
			r.Get("/{tournamentID}", h.Tournament.GetByIDHandler)
			r.Get("/{tournamentID}/bracket", h.Bracket.GetBracket)
			r.Get("/{tournamentID}/bracket/versions/{version}", h.Bracket.GetBracketVersion)

			// Защищенные маршруты только для организаторов
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Use(organizerOnly)

				r.Post("/", h.Tournament.CreateHandler)
				r.Post("/{tournamentID}/matches/{matchID}/result", h.Bracket.RecordResult)
				r.Delete("/{tournamentID}/matches/{matchID}/result", h.Bracket.ClearResult)
				r.Post("/{tournamentID}/reset", h.Bracket.Reset)
			})
		})
	})
}
