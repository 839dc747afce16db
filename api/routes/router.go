package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wfjournal/wfj-backend/api/controllers"
	"github.com/wfjournal/wfj-backend/api/middleware"
	"github.com/wfjournal/wfj-backend/internal/auth"
	"github.com/wfjournal/wfj-backend/internal/countrycounts"
	"github.com/wfjournal/wfj-backend/internal/images"
	"github.com/wfjournal/wfj-backend/internal/meals"
	"github.com/wfjournal/wfj-backend/pkg/auth/session"
	"github.com/wfjournal/wfj-backend/pkg/config"
	"github.com/wfjournal/wfj-backend/pkg/logger"
	"github.com/wfjournal/wfj-backend/pkg/metrics"
)

// Params bundles everything NewRouter mounts. ReadinessDeps is keyed by the
// dependency name reported from /health/ready.
type Params struct {
	Config        *config.Config
	Logger        *logger.Logger
	Metrics       *metrics.HTTPMetrics
	Sessions      session.AccessSessionChecker
	ReadinessDeps map[string]controllers.Pinger
	AuthService   auth.Service
	MealService   meals.Service
	CountService  countrycounts.Service
	ImageService  images.Service
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)
	if p.Metrics != nil {
		r.Use(middleware.Metrics(p.Metrics))
		r.Method(http.MethodGet, "/metrics", p.Metrics.Handler())
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, p.ReadinessDeps))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(p.AuthService, logg))
		r.Post("/login", controllers.AuthLogin(p.AuthService, cfg.JWT, logg))
		r.With(middleware.Auth(cfg.JWT, p.Sessions, logg)).
			Post("/logout", controllers.AuthLogout(p.AuthService, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/meals", func(r chi.Router) {
			r.Get("/", controllers.MealList(p.MealService, logg))
			r.Get("/countries/{cntryCd}", controllers.MealListByCountry(p.MealService, logg))
			r.Get("/entities/{id}", controllers.MealGet(p.MealService, logg))
			r.Delete("/entities/{id}", controllers.MealDelete(p.MealService, logg))

			r.Route("/kind/{kind}", func(r chi.Router) {
				r.Get("/", controllers.MealListByKind(p.MealService, logg))
				r.Post("/", controllers.MealCreate(p.MealService, logg))
				r.Put("/entities/{id}", controllers.MealUpdate(p.MealService, logg))
			})
		})

		r.Route("/country-counts", func(r chi.Router) {
			r.Get("/", controllers.CountryCountList(p.CountService, logg))
			r.Get("/{cntryCd}", controllers.CountryCountGet(p.CountService, logg))
		})

		r.Route("/images", func(r chi.Router) {
			r.Post("/{kind}/{id}", controllers.ImageUpload(p.ImageService, cfg.Images, logg))
			r.Delete("/{kind}/{id}/{index}", controllers.ImageDelete(p.ImageService, logg))
		})
	})

	return r
}
