package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Varun5711/devcamper/internal/auth"
	"github.com/Varun5711/devcamper/internal/cache"
	"github.com/Varun5711/devcamper/internal/config"
	"github.com/Varun5711/devcamper/internal/database"
	"github.com/Varun5711/devcamper/internal/geocoder"
	"github.com/Varun5711/devcamper/internal/handlers"
	"github.com/Varun5711/devcamper/internal/lock"
	"github.com/Varun5711/devcamper/internal/logger"
	"github.com/Varun5711/devcamper/internal/mailer"
	"github.com/Varun5711/devcamper/internal/middleware"
	"github.com/Varun5711/devcamper/internal/photostore"
	"github.com/Varun5711/devcamper/internal/redis"
	"github.com/Varun5711/devcamper/internal/service"
	"github.com/Varun5711/devcamper/internal/storage"
)

func main() {
	log := logger.New("api-server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]handlers.Pinger{}

	var (
		users     service.UserRepository
		bootcamps service.BootcampRepository
	)
	switch cfg.App.Storage {
	case "memory":
		log.Warn("Using in-memory storage, data will not survive a restart")
		users = storage.NewMemoryUserStorage()
		bootcamps = storage.NewMemoryBootcampStorage()
	default:
		dbManager, err := database.NewDBManager(ctx, database.Config{
			PrimaryDSN:      cfg.Database.PrimaryDSN,
			ReplicaDSNs:     cfg.Database.ReplicaDSNs,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer dbManager.Close()

		log.Info("Connected to database with %d replica(s)", len(cfg.Database.ReplicaDSNs))
		users = storage.NewUserStorage(dbManager)
		bootcamps = storage.NewBootcampStorage(dbManager)
		checks["database"] = dbManager
	}

	var redisRaw *goredis.Client
	redisClient, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, rate limiting and the shared geocode cache are off: %v", err)
	} else {
		defer redisClient.Close()
		redisRaw = redisClient.Raw()
		checks["redis"] = redisClient
	}

	geo := geocoder.NewCached(
		geocoder.NewMapQuest(geocoder.Config{
			ProviderURL: cfg.Geocoder.ProviderURL,
			APIKey:      cfg.Geocoder.APIKey,
			Timeout:     cfg.Geocoder.Timeout,
		}),
		cache.NewTiered("geocode:", cfg.Cache.L1Capacity, redisRaw, cfg.Cache.L2TTL),
	)

	photos, err := newPhotoStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to set up photo store: %v", err)
	}

	mail := mailer.NewMailer(mailer.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Email:     cfg.SMTP.Email,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	})

	authService := service.NewAuthService(
		users,
		auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpire),
		mail,
		service.AuthConfig{
			ResetTokenExpire: cfg.Auth.ResetTokenExpire,
			BaseURL:          cfg.App.BaseURL,
		},
	)
	bootcampService := service.NewBootcampService(bootcamps, geo, photos, service.BootcampConfig{
		MaxPhotoSize: cfg.Upload.MaxFileSize,
	})
	if redisRaw != nil {
		bootcampService.UseLocker(lock.NewRedis(redisRaw))
	}

	proxies, err := middleware.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
	if err != nil {
		log.Fatal("Invalid TRUSTED_PROXIES: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	mux := http.NewServeMux()
	protect := middleware.NewAuthMiddleware(authService).Protect

	handlers.NewAuthHandler(authService, handlers.CookieConfig{
		Expire: cfg.Auth.CookieExpire,
		Secure: cfg.App.Production(),
	}).RegisterRoutes(mux, protect)
	handlers.NewBootcampHandler(bootcampService, cfg.Upload.MaxFileSize).RegisterRoutes(mux, protect)
	handlers.NewHealthHandler(checks, registry).RegisterRoutes(mux)

	if cfg.Upload.Store != "s3" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Upload.Path))))
	}

	var handler http.Handler = metrics.Middleware(mux)
	handler = middleware.Recovery(log)(handler)
	if redisRaw != nil {
		handler = middleware.NewRateLimiter(redisRaw, cfg.RateLimit.Requests, cfg.RateLimit.Window, proxies).Middleware(handler)
	}
	handler = middleware.Logging(logger.New("http"), proxies)(handler)

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Listening on :%s (%s)", cfg.App.Port, cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed: %v", err)
	}
}

func newPhotoStore(ctx context.Context, cfg *config.Config) (service.PhotoStore, error) {
	if cfg.Upload.Store == "s3" {
		return photostore.NewS3(ctx, photostore.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
	}
	return photostore.NewLocal(cfg.Upload.Path)
}
