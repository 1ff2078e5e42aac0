package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gorilla/handlers"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/auth"
	"github.com/kahvecikaan/ecommerce-api/internal/cache"
	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"github.com/kahvecikaan/ecommerce-api/internal/events"
	"github.com/kahvecikaan/ecommerce-api/internal/mail"
	"github.com/kahvecikaan/ecommerce-api/internal/repository"
	"github.com/kahvecikaan/ecommerce-api/internal/service"
	"github.com/kahvecikaan/ecommerce-api/internal/storage"
	httpTransport "github.com/kahvecikaan/ecommerce-api/internal/transport/http"
	websocketTransport "github.com/kahvecikaan/ecommerce-api/internal/transport/websocket"
	"github.com/nicholasjackson/env"
)

const shutdownTimeout = 30 * time.Second

// Environment variables
var (
	bindAddress = env.String("BIND_ADDRESS", false,
		":9090", "Bind address for the server")
	logLevel = env.String("LOG_LEVEL", false,
		"debug", "Log output level for the server [debug, info, trace]")

	dbDriver = env.String("DB_DRIVER", false,
		repository.DriverSQLite, "Database driver [sqlite, postgres]")
	databaseURL = env.String("DATABASE_URL", false,
		"ecommerce.db", "Database DSN, or the file path for sqlite")

	jwtSecret = env.String("JWT_SECRET", false,
		"change-me", "Secret used to sign access tokens")
	jwtTTL = env.String("JWT_TTL", false,
		"24h", "Lifetime of an access token")
	verificationTTL = env.String("VERIFICATION_TTL", false,
		"24h", "Lifetime of an email verification token")

	redisAddr = env.String("REDIS_ADDR", false,
		"", "Redis address for the product cache, empty disables caching")
	cacheTTL = env.String("CACHE_TTL", false,
		"10m", "Lifetime of cached products")

	imageDir = env.String("IMAGE_DIR", false,
		"./imagestore", "Directory where product images are stored")
	imageBaseURL = env.String("IMAGE_BASE_URL", false,
		"/images", "Public URL prefix of stored images")
	maxImageSize = env.String("MAX_IMAGE_SIZE", false,
		"5242880", "Maximum image size in bytes")

	smtpHost = env.String("SMTP_HOST", false,
		"", "SMTP host, empty logs emails instead of sending them")
	smtpPort = env.String("SMTP_PORT", false,
		"587", "SMTP port")
	smtpUser = env.String("SMTP_USER", false,
		"", "SMTP username")
	smtpPassword = env.String("SMTP_PASSWORD", false,
		"", "SMTP password")
	mailFrom = env.String("MAIL_FROM", false,
		"no-reply@ecommerce.local", "Sender address of outgoing emails")

	appBaseURL = env.String("APP_BASE_URL", false,
		"http://localhost:9090", "Public base URL used in email links")
	corsOrigins = env.String("CORS_ORIGINS", false,
		"http://localhost:3000", "Comma separated list of allowed origins")
)

func main() {
	env.Parse()

	// Initialize the logger
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "ecommerce-api",
		Level: hclog.LevelFromString(*logLevel),
	})

	// Create a standard logger for the HTTP server
	standardLogger := logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})

	tokenTTL := mustDuration(logger, "JWT_TTL", *jwtTTL)
	verifyTTL := mustDuration(logger, "VERIFICATION_TTL", *verificationTTL)
	productTTL := mustDuration(logger, "CACHE_TTL", *cacheTTL)
	maxImage := mustInt(logger, "MAX_IMAGE_SIZE", *maxImageSize)
	port := mustInt(logger, "SMTP_PORT", *smtpPort)

	// Database
	db, err := repository.Open(*dbDriver, *databaseURL, logger.Named("database"))
	if err != nil {
		logger.Error("Failed to open database", "driver", *dbDriver, "error", err)
		os.Exit(1)
	}
	if err := repository.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	products := repository.NewProductRepository(db)
	categories := repository.NewCategoryRepository(db)
	orders := repository.NewOrderRepository(db)
	users := repository.NewUserRepository(db)
	addresses := repository.NewAddressRepository(db)
	tx := repository.NewTxManager(db)

	// Optional product cache; a nil interface keeps the service on the database
	var productCache service.ProductCache
	var redisCache *cache.Cache
	if *redisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err = cache.Connect(ctx, cache.Config{
			Addr:   *redisAddr,
			Prefix: "ecommerce:",
			TTL:    productTTL,
		})
		cancel()
		if err != nil {
			logger.Error("Failed to connect to redis", "address", *redisAddr, "error", err)
			os.Exit(1)
		}
		productCache = redisCache
		logger.Info("Product cache enabled", "address", *redisAddr, "ttl", productTTL)
	}

	images, err := storage.NewLocal(*imageDir, *imageBaseURL, int64(maxImage))
	if err != nil {
		logger.Error("Failed to create image store", "path", *imageDir, "error", err)
		os.Exit(1)
	}

	// Initialize the event bus - this will be shared between services
	eventBus := events.NewEventBus[any]()

	var mailer mail.Mailer
	if *smtpHost != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     *smtpHost,
			Port:     port,
			Username: *smtpUser,
			Password: *smtpPassword,
			From:     *mailFrom,
		}, logger.Named("mailer"))
	} else {
		logger.Warn("SMTP_HOST not set, emails will only be logged")
		mailer = mail.NewLogMailer(logger.Named("mailer"))
	}

	tokens := auth.NewJWTManager(auth.JWTConfig{
		SecretKey:     *jwtSecret,
		TokenDuration: tokenTTL,
		Issuer:        "ecommerce-api",
	})

	// Services
	ps := service.NewProductService(products, categories, orders, tx, images, productCache, eventBus, logger.Named("product-service"))
	cs := service.NewCategoryService(categories, products, tx, productCache, logger.Named("category-service"))
	ordersSvc := service.NewOrderService(orders, products, tx, eventBus, logger.Named("order-service"))
	us := service.NewUserService(users, auth.NewPasswordHasher(), tokens, tokenTTL, verifyTTL, eventBus, logger.Named("user-service"))
	as := service.NewAddressService(addresses, logger.Named("address-service"))
	ns := service.NewNotificationService(mailer, eventBus, *appBaseURL, logger.Named("notification-service"))

	// HTTP layer
	origins := splitList(*corsOrigins)
	corsConfig := httpTransport.DefaultCORSConfig()
	corsConfig.AllowedOrigins = origins

	handlerLogger := logger.Named("http-handler")
	mw := httpTransport.NewMiddleware(handlerLogger, domain.NewValidation(), tokens, corsConfig)

	router := httpTransport.NewRouter(httpTransport.Handlers{
		Products:   httpTransport.NewProductHandler(ps, mw, handlerLogger),
		Categories: httpTransport.NewCategoryHandler(cs, mw, handlerLogger),
		Users:      httpTransport.NewUserHandler(us, as, mw, handlerLogger),
		Orders:     httpTransport.NewOrderHandler(ordersSvc, mw, handlerLogger),
		Images:     httpTransport.NewImageHandler(logger.Named("image-handler"), images),
		WebSocket:  websocketTransport.NewHandler(logger.Named("websocket-handler"), eventBus, origins),
	}, mw)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(standardLogger),
		handlers.PrintRecoveryStack(true),
	)

	// Create the HTTP Server
	server := &http.Server{
		Addr:         *bindAddress,
		Handler:      recovery(handlers.CompressHandler(router)),
		ErrorLog:     standardLogger,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start the server in a new goroutine
	go func() {
		logger.Info("Starting server", "bind_address", *bindAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Error starting server", "error", err)
			os.Exit(1)
		}
	}()

	// The order matters: stop accepting requests before closing what they use
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"ecommerce-api": func(ctx context.Context) error {
				logger.Info("Shutting down server")
				if err := server.Shutdown(ctx); err != nil {
					logger.Error("Error shutting down server", "error", err)
				}
				if err := ns.Close(); err != nil {
					logger.Error("Error closing notification service", "error", err)
				}
				if redisCache != nil {
					stats := redisCache.Stats()
					logger.Info("Product cache statistics",
						"hits", stats.Hits, "misses", stats.Misses, "hit_rate", stats.HitRate, "errors", stats.Errors)
					if err := redisCache.Close(); err != nil {
						logger.Error("Error closing cache", "error", err)
					}
				}
				return repository.Close(db)
			},
		},
	)

	exitCode := <-wait
	logger.Info("Server stopped", "exit_code", exitCode)
	os.Exit(exitCode)
}

func mustDuration(logger hclog.Logger, name, value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Error("Invalid duration", "variable", name, "value", value, "error", err)
		os.Exit(1)
	}
	return d
}

func mustInt(logger hclog.Logger, name, value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		logger.Error("Invalid number", "variable", name, "value", value, "error", err)
		os.Exit(1)
	}
	return n
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
