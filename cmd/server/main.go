package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/missio-app/missio/internal/alerts"
	"github.com/missio-app/missio/internal/auth"
	"github.com/missio-app/missio/internal/cache"
	"github.com/missio-app/missio/internal/config"
	"github.com/missio-app/missio/internal/db"
	"github.com/missio-app/missio/internal/httpx"
	"github.com/missio-app/missio/internal/memstore"
	mware "github.com/missio-app/missio/internal/middleware"
	"github.com/missio-app/missio/internal/mission"
	"github.com/missio-app/missio/internal/payment"
	"github.com/missio-app/missio/internal/rating"
	"github.com/missio-app/missio/internal/user"
	"github.com/missio-app/missio/internal/wallet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	// Stores: Postgres when DATABASE_URL is set, otherwise an in-memory
	// fallback for local development.
	var (
		pool         *pgxpool.Pool
		userStore    user.Store
		missionStore mission.Store
		paymentStore payment.Store
		walletStore  wallet.Store
		ratingStore  rating.Store
	)
	if cfg.DatabaseURL != "" {
		pool, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		if err := db.EnsureSchema(ctx, pool); err != nil {
			log.Fatalf("schema: %v", err)
		}
		userStore = user.NewPostgresStore(pool)
		missionStore = mission.NewPostgresStore(pool)
		paymentStore = payment.NewPostgresStore(pool)
		walletStore = wallet.NewPostgresStore(pool)
		ratingStore = rating.NewPostgresStore(pool)
	} else {
		log.Println("WARNING: no DATABASE_URL, using in-memory store (data is lost on restart)")
		mem := memstore.New()
		userStore = mem.Users()
		missionStore = mem.Missions()
		paymentStore = mem.Payments()
		walletStore = mem.Wallets()
		ratingStore = mem.Ratings()
	}

	profileCache := cache.New(ctx, cfg.RedisAddr, 5*time.Minute)
	mailer := alerts.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	notifier := alerts.Init(cfg.RedisAddr, mailer)

	missionSvc := mission.NewService(missionStore, userStore)
	paymentSvc := payment.NewService(paymentStore, missionStore, userStore)
	walletSvc := wallet.NewService(walletStore)
	ratingSvc := rating.NewService(ratingStore, userStore)

	authHandler := auth.NewHandler(userStore, cfg.JWTSecret, notifier)
	userHandler := user.NewHandler(userStore, profileCache)
	missionHandler := mission.NewHandler(missionSvc, notifier)
	paymentHandler := payment.NewHandler(paymentSvc, userStore, notifier)
	walletHandler := wallet.NewHandler(walletSvc)
	ratingHandler := rating.NewHandler(ratingSvc, profileCache)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpx.NewValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "missio"})
	})
	e.GET("/health/detailed", func(c echo.Context) error {
		storeStatus := "memory"
		if pool != nil {
			storeStatus = "ok"
			if err := pool.Ping(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "database": "unreachable"})
			}
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "database": storeStatus})
	})

	api := e.Group("/api/v1")
	authn := mware.Authenticate(cfg.JWTSecret)

	// Auth routes with per-IP rate limiting to slow down credential abuse.
	authGroup := api.Group("/auth")
	authGroup.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/sign-up", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/verify-token", authHandler.VerifyToken, authn)

	users := api.Group("/users")
	users.GET("", userHandler.ListProviders)
	users.GET("/:userId", userHandler.GetProfile)
	users.PATCH("/:userId", userHandler.UpdateProfile, authn)
	users.POST("/:userId/rate", ratingHandler.Rate, authn)

	missions := api.Group("/missions")
	missions.GET("", missionHandler.List)
	missions.GET("/:missionId", missionHandler.GetByID)
	missions.POST("/create", missionHandler.Create, authn, mware.RequireRoles(user.RoleClient))
	missions.POST("/:missionId/accept", missionHandler.Accept, authn, mware.RequireRoles(user.RoleProvider))
	missions.POST("/:missionId/complete", missionHandler.Complete, authn)

	payments := api.Group("/payments", authn)
	payments.GET("/wallet/balance", walletHandler.GetBalance)
	payments.POST("/wallet/withdraw", walletHandler.Withdraw)
	payments.POST("/create", paymentHandler.Create)
	payments.GET("/:paymentId", paymentHandler.GetByID)
	payments.POST("/:paymentId/release", paymentHandler.Release)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	notifier.Close()
	profileCache.Close()
	if pool != nil {
		pool.Close()
	}
}
