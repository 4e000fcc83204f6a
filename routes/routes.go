package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/roel-sundiam/tennis-tournament-management/auth"
	"github.com/roel-sundiam/tennis-tournament-management/handlers"
	"github.com/roel-sundiam/tennis-tournament-management/middleware"
)

// SetupRoutes mounts the tournament engine's API. Reads are public;
// everything that mutates tournament state requires an organizer or admin
// principal.
func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	authorizer auth.Authorizer,
	bracketHandler *handlers.BracketHandler,
	matchHandler *handlers.MatchHandler,
	scheduleHandler *handlers.ScheduleHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID", "X-User-Role"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	manage := func(r chi.Router) {
		r.Use(middleware.Authenticate(authorizer))
		r.Use(middleware.RequireRole(auth.RoleOrganizer, auth.RoleAdmin))
	}

	router.Route("/tournaments/{tournamentID}", func(r chi.Router) {
		r.Get("/bracket", bracketHandler.GetBracketHandler)
		r.Get("/matches", matchHandler.ListTournamentMatchesHandler)
		r.Get("/schedule", scheduleHandler.GetScheduleHandler)
		r.Get("/slots", scheduleHandler.ListSlotsHandler)

		r.Group(func(r chi.Router) {
			manage(r)
			r.Post("/bracket", bracketHandler.GenerateBracketHandler)
			r.Post("/schedule", scheduleHandler.GenerateScheduleHandler)
			r.Post("/schedule/assign", scheduleHandler.AssignMatchesHandler)
			r.Post("/schedule/swap", scheduleHandler.SwapSlotsHandler)
		})
	})

	router.Route("/matches/{matchID}", func(r chi.Router) {
		r.Get("/", matchHandler.GetMatchHandler)

		r.Group(func(r chi.Router) {
			manage(r)
			r.Post("/start", matchHandler.StartMatchHandler)
			r.Post("/points", matchHandler.AwardPointHandler)
			r.Put("/slot", scheduleHandler.RescheduleMatchHandler)
		})
	})
}
