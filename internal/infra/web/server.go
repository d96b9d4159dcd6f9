package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"alcocontrol/internal/usecase"
)

type Server struct {
	userUC  usecase.UserUseCase
	drinkUC usecase.DrinkUseCase
	soberUC usecase.SoberUseCase
	goalUC  usecase.GoalUseCase
	statsUC usecase.StatsUseCase

	auth          *AuthManager
	adminPassword string
	log           *zerolog.Logger
}

func NewServer(
	userUC usecase.UserUseCase,
	drinkUC usecase.DrinkUseCase,
	soberUC usecase.SoberUseCase,
	goalUC usecase.GoalUseCase,
	statsUC usecase.StatsUseCase,
	auth *AuthManager,
	adminPassword string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		userUC:        userUC,
		drinkUC:       drinkUC,
		soberUC:       soberUC,
		goalUC:        goalUC,
		statsUC:       statsUC,
		auth:          auth,
		adminPassword: adminPassword,
		log:           logger,
	}
}

// Router builds the chi router with the full middleware chain.
func (s *Server) Router(requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()
	r.Use(TraceID())
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))
	r.Use(Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.userCreateHandler())
		r.Get("/", s.usersListHandler())
		r.Get("/{id}", s.userGetHandler())
		r.Put("/{id}/settings", s.userSettingsHandler())
		r.Get("/{id}/drinks", s.userDrinksHandler())
		r.Get("/{id}/sober-periods", s.userSoberPeriodsHandler())
		r.Get("/{id}/sober-periods/current", s.currentSoberPeriodHandler())
		r.Get("/{id}/goals", s.userGoalsHandler())
	})

	r.Route("/drinks", func(r chi.Router) {
		r.Post("/", s.drinkCreateHandler())
		r.Get("/", s.drinksListHandler())
	})

	r.Route("/sober-periods", func(r chi.Router) {
		r.Post("/", s.soberOpenHandler())
		r.Get("/", s.soberListHandler())
		r.Post("/{id}/close", s.soberCloseHandler())
	})

	r.Route("/goals", func(r chi.Router) {
		r.Post("/", s.goalCreateHandler())
		r.Get("/", s.goalsListHandler())
	})

	r.Get("/statistics/", s.statisticsHandler())

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", s.adminLoginHandler())
		r.Method(http.MethodGet, "/stats", s.auth.RequireAdmin(s.adminStatsHandler()))
	})

	return r
}
