package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"lifeboard/internal/accounts"
	"lifeboard/internal/adapter/repo"
	"lifeboard/internal/domain"
	"lifeboard/internal/http/handlers"
	httpapi "lifeboard/internal/http/httpapi"
	"lifeboard/internal/infra"
	"lifeboard/internal/infra/geoip"
	"lifeboard/internal/infra/google"
	"lifeboard/internal/middleware"
	"lifeboard/internal/progress"
	"lifeboard/internal/security"
	"lifeboard/internal/storage"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		users domain.UserRepository
		store progress.Store
	)
	if cfg.InMemory() {
		logger.Warn().Msg("DATABASE_URL=memory, accounts are not persisted")
		mem := repo.NewMemory()
		users, store = mem, mem
	} else {
		dbpool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()
		if cfg.AutoMigrate {
			if err := infra.MigratePool(ctx, dbpool, infra.MigrateUp); err != nil {
				logger.Fatal().Err(err).Msg("failed to migrate database")
			}
		}
		runner := infra.NewSQLRunner(dbpool, logger)
		users = repo.NewUserRepository(runner)
		store = repo.NewProgressStore(runner, logger)
	}

	photos, staticDir, err := newPhotoStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init photo storage")
	}

	var verifier accounts.IdentityVerifier
	if cfg.GoogleClientID != "" {
		verifier = google.NewVerifier(cfg.GoogleIssuer, cfg.GoogleClientID)
	}

	var country middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		defer resolver.Close()
		country = resolver.CountryCode
	}

	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	accountSvc := accounts.NewService(users, security.NewHasher(cfg.BcryptCost), tokens, verifier, logger)
	app := handlers.NewApp(accountSvc, progress.NewService(store, photos), logger)
	app.MaxUploadBytes = cfg.MaxUploadBytes

	router := httpapi.NewRouter(app, httpapi.Options{
		Tokens:          tokens,
		Logger:          logger,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		DefaultLocale:   cfg.DefaultLocale,
		Country:         country,
		StaticDir:       staticDir,
	})
	server := infra.NewHTTPServer(cfg, router, logger)
	if err := server.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("http server failed")
	}
}

// newPhotoStore selects the diary photo backend. The returned directory is
// served under /static when photos live on the local filesystem.
func newPhotoStore(ctx context.Context, cfg *infra.Config) (progress.PhotoUploader, string, error) {
	if cfg.StorageDriver == infra.StorageS3 {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		s3store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, "", err
		}
		return s3store, "", nil
	}
	fs, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		return nil, "", err
	}
	return fs, fs.BasePath(), nil
}
