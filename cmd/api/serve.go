package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/db"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/handlers"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/admin"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/applications"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/auth"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/jobs"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/messages"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/notify"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/payments"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/profiles"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/reviews"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gdb, err := db.Connect(cfg.DBDSN, cfg.IsProduction())
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		return err
	}
	store := repository.New(gdb)

	// Redis is optional; without it queue, revocations and realtime stay in-process.
	var (
		rdb     *redis.Client
		queue   notify.Queue
		revoker auth.Revoker
	)
	if cfg.RedisURL != "" {
		rdb, err = realtime.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		queue = notify.NewRedisQueue(rdb)
		revoker = auth.NewRedisRevoker(rdb)
	} else {
		log.Println("[redis] REDIS_URL not set, using in-memory queue and revocations")
		queue = notify.NewMemoryQueue(1024)
		revoker = auth.NewMemoryRevoker()
	}

	hub := realtime.NewHub(rdb)
	go hub.Run(ctx)
	go hub.Subscribe(ctx)

	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.Mail.APIURL != "" {
		mailer = notify.NewHTTPMailer(cfg.Mail.APIURL, cfg.Mail.APIKey, cfg.Mail.From)
	}
	worker := notify.NewWorker(store, queue, mailer, cfg.FrontendBaseURL)
	go worker.Run(ctx)

	sweeper := notify.NewSweeper(store, queue, cfg.Notify.SweepSpec, cfg.Notify.MaxAttempts)
	if err := sweeper.Start(ctx); err != nil {
		return err
	}
	defer sweeper.Stop()

	notifier := notify.NewNotifier(store, queue, hub)
	authSvc := auth.NewService(store, cfg.JWTSecret, cfg.JWTExpiresMin, revoker)
	authH := &handlers.AuthHandler{Auth: authSvc, Secure: cfg.IsProduction()}

	app := fiber.New(fiber.Config{
		AppName:      "devhire",
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    4 * 1024 * 1024,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))
	app.Use(healthcheck.New())
	app.Use(middleware.RateLimiter(cfg.RateLimitMax, time.Minute))

	app.Static("/uploads", cfg.UploadDir)

	handlers.Register(app, handlers.Deps{
		JWTSecret:     cfg.JWTSecret,
		Revocations:   revoker,
		AuthRateLimit: 10,
		Auth:          authH,
		Google: &handlers.GoogleOAuthHandler{
			Auth:            authSvc,
			Session:         authH,
			GoogleClientID:  cfg.GoogleClientID,
			GoogleSecret:    cfg.GoogleSecret,
			GoogleRedirect:  cfg.GoogleRedirect,
			FrontendBaseURL: cfg.FrontendBaseURL,
		},
		Skills:        handlers.NewSkillHandler(store),
		Jobs:          handlers.NewJobHandler(jobs.NewService(store)),
		Applications:  handlers.NewApplicationHandler(applications.NewService(store, notifier)),
		Profiles:      handlers.NewProfileHandler(profiles.NewService(store), cfg.UploadDir, cfg.AppBaseURL),
		Messages:      handlers.NewMessageHandler(messages.NewService(store, hub), hub),
		Reviews:       handlers.NewReviewHandler(reviews.NewService(store)),
		Payments:      handlers.NewPaymentHandler(payments.NewService(store, notifier)),
		Notifications: handlers.NewNotificationHandler(notify.NewInbox(store)),
		Admin:         handlers.NewAdminHandler(admin.NewService(store)),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[http] listening on :%s", cfg.AppPort)
		errCh <- app.Listen(":" + cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("[http] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
