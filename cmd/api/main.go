package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/wfjournal/wfj-backend/api/controllers"
	"github.com/wfjournal/wfj-backend/api/routes"
	"github.com/wfjournal/wfj-backend/internal/auth"
	"github.com/wfjournal/wfj-backend/internal/countrycounts"
	"github.com/wfjournal/wfj-backend/internal/images"
	"github.com/wfjournal/wfj-backend/internal/meals"
	"github.com/wfjournal/wfj-backend/internal/users"
	"github.com/wfjournal/wfj-backend/pkg/auth/session"
	"github.com/wfjournal/wfj-backend/pkg/config"
	"github.com/wfjournal/wfj-backend/pkg/db"
	"github.com/wfjournal/wfj-backend/pkg/logger"
	"github.com/wfjournal/wfj-backend/pkg/metrics"
	"github.com/wfjournal/wfj-backend/pkg/migrate"
	"github.com/wfjournal/wfj-backend/pkg/redis"
	"github.com/wfjournal/wfj-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap blob storage", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	mealRepo := meals.NewRepository(dbClient.DB())
	countRepo := countrycounts.NewRepository(dbClient.DB())

	mealService, err := meals.NewService(meals.ServiceParams{
		TxRunner:  dbClient,
		MealRepo:  mealRepo,
		CountRepo: countRepo,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create meal service", err)
		os.Exit(1)
	}

	countService, err := countrycounts.NewService(countRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create country count service", err)
		os.Exit(1)
	}

	imageService, err := images.NewService(images.ServiceParams{
		Meals:  mealRepo,
		Blobs:  gcsClient,
		Logger: logg,
		Config: cfg.Images,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create image service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:   cfg,
			Logger:   logg,
			Metrics:  httpMetrics,
			Sessions: sessionManager,
			ReadinessDeps: map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
				"gcs":      gcsClient,
			},
			AuthService:  authService,
			MealService:  mealService,
			CountService: countService,
			ImageService: imageService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
