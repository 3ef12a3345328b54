package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"offer-ticketing-platform/internal/cart"
	"offer-ticketing-platform/internal/config"
	"offer-ticketing-platform/internal/database"
	"offer-ticketing-platform/internal/events"
	"offer-ticketing-platform/internal/handlers"
	"offer-ticketing-platform/internal/logging"
	"offer-ticketing-platform/internal/middleware"
	"offer-ticketing-platform/internal/repositories"
	"offer-ticketing-platform/internal/services"

	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logging.Init(cfg.Log.Level, cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logrus.WithError(err).Fatal("Server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logrus.WithField("env", cfg.Server.Env)
	ctx = logging.ToContext(ctx, log)

	db, err := database.NewConnection(ctx, database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("Database connection established")

	if err := db.RunMigrations(ctx); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db.DB)
	offerRepo := repositories.NewOfferRepository(db.DB)
	ticketRepo := services.NewTicketRepository(repositories.NewTicketRepository(db.DB))

	storage, err := services.NewStorageService(ctx, cfg)
	if err != nil {
		return err
	}

	orderCfg := services.OrderServiceConfig{AllowRepeatPurchase: cfg.Checkout.AllowRepeatPurchase}
	if cfg.Events.Enabled {
		if redisClient == nil {
			log.Warn("Events enabled but REDIS_ADDR is empty, not publishing")
		} else {
			publisher, err := events.NewRedisStreamPublisher(redisClient, events.NewLogrusAdapter(log))
			if err != nil {
				return err
			}
			defer publisher.Close()
			orderCfg.Events = publisher
		}
	}

	// Services
	authService := services.NewAuthService(userRepo, cfg.Session.Lifetime)
	catalog := services.NewCatalogService(offerRepo)
	issuer := services.NewTicketService(ticketRepo, services.NewQRCodeService(), storage)
	orderService := services.NewOrderService(catalog, ticketRepo, issuer, storage, orderCfg)
	cartService := services.NewCartService(catalog)
	checkoutService := services.NewCheckoutService(cartService, orderService)

	if err := authService.CleanupExpiredSessions(ctx); err != nil {
		log.WithError(err).Warn("Failed to clean up expired sessions")
	}

	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.Lifetime.Seconds()),
		HttpOnly: true,
		Secure:   !cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	}

	var cartBackend cart.Backend = cart.NewSessionBackend(sessionStore)
	if cfg.Cart.Backend == "redis" {
		if redisClient == nil {
			log.Warn("CART_BACKEND=redis but REDIS_ADDR is empty, keeping carts in the session")
		} else {
			cartBackend = cart.NewRedisStore(redisClient, cfg.Cart.TTL)
			log.Info("Carts are stored in Redis")
		}
	}

	checks := map[string]handlers.HealthCheck{
		"database": db.PingContext,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	router := handlers.Router{
		Public:         handlers.NewPublicHandler(catalog, sessionStore),
		Auth:           handlers.NewAuthHandler(authService, sessionStore),
		Cart:           handlers.NewCartHandler(catalog, cartService, checkoutService, cartBackend, sessionStore),
		Orders:         handlers.NewOrderHandler(catalog, orderService, checkoutService, sessionStore),
		Health:         handlers.NewHealthHandler(checks),
		AuthMiddleware: middleware.NewAuthMiddleware(authService, sessionStore),
		CSRF:           middleware.NewCSRFMiddleware(sessionStore),
		LoginLimiter:   middleware.NewLoginRateLimiter(5, 15*time.Minute),
		// local storage backs every setup, alone or as the R2 fallback
		MediaDir:       cfg.Media.Dir,
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server stopped")
	return nil
}
