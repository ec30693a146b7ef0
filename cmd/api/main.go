// Package main is the entrypoint for the piadas API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/piadas/piadas/internal/auth"
	"github.com/piadas/piadas/internal/cache"
	"github.com/piadas/piadas/internal/config"
	"github.com/piadas/piadas/internal/handler"
	"github.com/piadas/piadas/internal/joke"
	"github.com/piadas/piadas/internal/metrics"
	"github.com/piadas/piadas/internal/middleware"
	"github.com/piadas/piadas/internal/repository"
	"github.com/piadas/piadas/internal/server"
	"github.com/piadas/piadas/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if cfg.MigrateOnStart {
		if err := repository.Migrate(ctx, cfg.DatabaseURL); err != nil {
			logger.Error("failed to run migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		version, err := repository.MigrationVersion(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("could not read migration version", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
		}
		logger.Info("migrations applied", slog.Int64("version", version))
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Left as nil interfaces when Redis is not configured.
	var (
		userCache   service.UserCache
		cacheHealth handler.HealthChecker
		cacheClient *cache.Cache
	)
	if cfg.CacheEnabled() {
		cacheClient, err = cache.New(ctx, cfg.RedisURL, cfg.UserCacheTTL)
		if err != nil {
			logger.Error("failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			repo.Close()
			os.Exit(1)
		}
		userCache = cacheClient
		cacheHealth = cacheClient
		logger.Info("connected to Redis")
	} else {
		logger.Info("user cache disabled")
	}

	hasher, err := auth.NewHasher(cfg.PasswordHasher)
	if err != nil {
		logger.Error("invalid password hasher", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.IsProduction() && hasher.Name() == config.HasherSHA256 {
		logger.Warn("sha256 password digests are unsalted; set PASSWORD_HASHER=argon2id for new registrations")
	}

	recorder := metrics.NewInMemory()
	tokens := auth.NewTokenService([]byte(cfg.SecretKey), cfg.TokenTTL)
	store := service.NewCredentialStore(repo, userCache, hasher, recorder, logger)
	jokes := joke.NewClient(cfg.JokeAPIURL, joke.NewHTTPClient(), cfg.JokeAPITimeout)

	router := setupRouter(routerDeps{
		auth:     service.NewAuthService(store, tokens, cfg.TokenTTL, logger),
		jokes:    service.NewJokeService(jokes, recorder),
		tokens:   tokens,
		recorder: recorder,
		dbHealth: repo,
		cache:    cacheHealth,
		cfg:      cfg,
		logger:   logger,
	})

	srv := server.New(router, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("postgres", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		slog.Int("port", cfg.AppPort),
		slog.String("env", cfg.AppEnv),
		slog.String("password_hasher", hasher.Name()),
		slog.Duration("token_ttl", cfg.TokenTTL),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// initLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	auth     *service.AuthService
	jokes    *service.JokeService
	tokens   middleware.TokenParser
	recorder *metrics.InMemoryRecorder
	dbHealth handler.HealthChecker
	cache    handler.HealthChecker
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	h := handler.New()
	healthHandler := handler.NewHealthHandler(d.dbHealth, d.cache)
	metricsHandler := handler.NewMetricsHandler(d.recorder)
	authHandler := handler.NewAuthHandler(d.auth, d.logger)
	jokeHandler := handler.NewJokeHandler(d.jokes, d.logger)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = d.cfg.GetCORSAllowedOrigins()

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: d.cfg.IsDevelopment()}))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)
	r.Get("/", h.Hello)

	r.Post("/registrar", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Get("/jokes/programming", jokeHandler.Random)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(middleware.AuthConfig{
			Logger:  d.logger,
			Tokens:  d.tokens,
			Metrics: d.recorder,
		}))
		r.Get("/consultar", jokeHandler.Random)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

// redactURL strips the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			username = "redacted"
		}
		parsed.User = url.User(username)
	}

	return parsed.String()
}

// sanitizeError replaces any secret URL appearing in err with its redacted form.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
