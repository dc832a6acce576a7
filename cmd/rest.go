package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/nicdemeagbeve-afk/synapse/pkg/security"
	"github.com/nicdemeagbeve-afk/synapse/ui/rest"
	"github.com/nicdemeagbeve-afk/synapse/ui/rest/middleware"
	"github.com/nicdemeagbeve-afk/synapse/ui/websocket"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the webhook endpoint and the dashboard API over http",
	Run:   restServer,
}

func init() {
	rootCmd.AddCommand(restCmd)
}

func restServer(_ *cobra.Command, _ []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initApp(ctx)

	fiberConfig := fiber.Config{
		EnableTrustedProxyCheck: len(cfg.App.TrustedProxies) > 0,
		Network:                 "tcp",
		AppName:                 "Synapse",
		ServerHeader:            "Hidden",
		DisableStartupMessage:   !cfg.App.Debug,
	}
	if len(cfg.App.TrustedProxies) > 0 {
		fiberConfig.TrustedProxies = cfg.App.TrustedProxies
		fiberConfig.ProxyHeader = fiber.HeaderXForwardedFor
	}

	app := fiber.New(fiberConfig)

	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.App.CorsAllowedOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.Recovery())
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        1000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		// gateway deliveries come in bursts from a single address
		Next: func(c *fiber.Ctx) bool {
			return strings.HasSuffix(c.Path(), "/webhook/evolution")
		},
	}))

	if cfg.App.Debug {
		app.Use(logger.New())
	}

	apiGroup := app.Group(cfg.App.BasePath + "/api")

	// Public routes
	rest.InitRestHealth(apiGroup, cfg.App.Version, healthChecks())
	rest.InitRestWebhook(apiGroup, webhookUsecase, cfg.Webhook.Token)
	if cfg.Webhook.Token == "" {
		logrus.Warn("[REST] WEBHOOK_TOKEN is empty, the webhook endpoint accepts unauthenticated deliveries")
	}

	// Authenticated routes
	verifier := security.NewVerifier(cfg.Auth.SupabaseJWTSecret)
	if !verifier.Configured() {
		logrus.Warn("[REST] SUPABASE_JWT_SECRET is empty, every dashboard request will be rejected")
	}
	protected := apiGroup.Group("", middleware.Auth(verifier))
	rest.InitRestChatHistory(protected, chatUsecase)
	rest.InitRestPrompt(protected, promptUsecase)
	rest.InitRestProfile(protected, profileUsecase)
	rest.InitRestWhatsApp(protected, instanceUsecase)
	rest.InitRestAdmin(protected, adminUsecase, profileUsecase)

	websocket.RegisterRoutes(protected, hub, profileUsecase)
	go hub.Run(ctx)

	apiGroup.All("/*", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "API Endpoint not found",
			"path":  c.Path(),
		})
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[REST] Reception of termination signal, shutting down gracefully...")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logrus.Errorf("[REST] Error during Fiber shutdown: %v", err)
		}
	}()

	logrus.Infof("[REST] listening on :%s (server %s)", cfg.App.Port, serverID)
	if err := app.Listen(":" + cfg.App.Port); err != nil {
		logrus.Fatalln("Failed to start: ", err.Error())
	}
	StopApp()
}

func healthChecks() map[string]rest.Check {
	checks := map[string]rest.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if vkClient != nil {
		checks["valkey"] = vkClient.Ping
	}
	return checks
}
