package routes

import (
	"net/http"

	"github.com/Dosada05/rotation-players/handlers"
	"github.com/Dosada05/rotation-players/middleware"
	"github.com/Dosada05/rotation-players/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers собирает все HTTP-обработчики приложения.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Participant *handlers.ParticipantHandler
	Session     *handlers.SessionHandler
	Clock       *handlers.ClockHandler
	Bracket     *handlers.BracketHandler
	WebSocket   *handlers.WebSocketHandler
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
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	organizerOnly := func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret))
		r.Use(middleware.Authorize(services.RoleOrganizer))
	}

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Post("/auth/login", h.Auth.Login)

	router.Get("/ws/sessions/{sessionID}", h.WebSocket.ServeWs)

	router.Route("/participants", func(r chi.Router) {
		// Публичные маршруты
		r.Get("/", h.Participant.List)
		r.Get("/{participantID}", h.Participant.GetByID)
		r.Get("/{participantID}/history", h.Participant.History)

		r.Group(func(r chi.Router) {
			organizerOnly(r)

			r.Post("/", h.Participant.Create)
			r.Post("/recalculate", h.Participant.Recalculate)
			r.Put("/{participantID}", h.Participant.Rename)
			r.Delete("/{participantID}", h.Participant.Delete)
		})
	})

	router.Route("/sessions", func(r chi.Router) {
		r.Get("/", h.Session.List)

		r.Group(func(r chi.Router) {
			organizerOnly(r)
			r.Post("/", h.Session.Create)
		})

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.Session.Get)
			r.Get("/results", h.Session.ListResults)
			r.Get("/clocks", h.Clock.Status)
			r.Get("/bracket", h.Bracket.Get)

			// Управление сессией только для организатора
			r.Group(func(r chi.Router) {
				organizerOnly(r)

				r.Put("/", h.Session.Update)
				r.Put("/courts", h.Session.SetCourts)
				r.Post("/courts/allocate", h.Session.AllocateCourts)
				r.Post("/courts/rotate", h.Session.RotateCourts)
				r.Post("/results", h.Session.RecordResults)
				r.Post("/clocks/{clock}/{command}", h.Clock.Command)
				r.Post("/bracket", h.Bracket.Create)
				r.Post("/bracket/matches/{matchID}", h.Bracket.AdvanceMatch)
			})
		})
	})
}
