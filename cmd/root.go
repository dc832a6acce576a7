package cmd

import (
	"context"
	"os"
	"time"

	"github.com/nicdemeagbeve-afk/synapse/core/config"
	"github.com/nicdemeagbeve-afk/synapse/core/database"
	domainAdmin "github.com/nicdemeagbeve-afk/synapse/domains/admin"
	domainChat "github.com/nicdemeagbeve-afk/synapse/domains/chat"
	domainInstance "github.com/nicdemeagbeve-afk/synapse/domains/instance"
	domainProfile "github.com/nicdemeagbeve-afk/synapse/domains/profile"
	domainPrompt "github.com/nicdemeagbeve-afk/synapse/domains/prompt"
	domainWebhook "github.com/nicdemeagbeve-afk/synapse/domains/webhook"
	"github.com/nicdemeagbeve-afk/synapse/infrastructure/cache"
	"github.com/nicdemeagbeve-afk/synapse/infrastructure/storage"
	"github.com/nicdemeagbeve-afk/synapse/infrastructure/valkey"
	"github.com/nicdemeagbeve-afk/synapse/integrations/ai"
	"github.com/nicdemeagbeve-afk/synapse/integrations/evolution"
	"github.com/nicdemeagbeve-afk/synapse/pkg/logbuffer"
	"github.com/nicdemeagbeve-afk/synapse/pkg/utils"
	"github.com/nicdemeagbeve-afk/synapse/ui/websocket"
	"github.com/nicdemeagbeve-afk/synapse/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

var (
	cfg       *config.Config
	logBuffer *logbuffer.Buffer

	db         *gorm.DB
	vkClient   *valkey.Client
	cacheStore cache.Store
	gateway    *evolution.Client
	hub        *websocket.Hub
	serverID   string

	chatStore       *storage.ChatGormRepository
	chatUsecase     domainChat.IChatUsecase
	promptUsecase   domainPrompt.IPromptUsecase
	profileUsecase  domainProfile.IProfileUsecase
	instanceUsecase domainInstance.IInstanceUsecase
	adminUsecase    domainAdmin.IAdminUsecase
	webhookUsecase  domainWebhook.IWebhookUsecase
)

var rootCmd = &cobra.Command{
	Use:   "synapse",
	Short: "WhatsApp AI auto-responder backend",
	Long: `Synapse receives Evolution API webhooks, records conversations and answers
client messages with a generated reply. It also serves the dashboard API.`,
}

func init() {
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initEnvConfig)
}

func initFlags() {
	rootCmd.PersistentFlags().StringP("port", "p", "", "change port number with --port <number> | example: --port=8080")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "enable debug logging with --debug=true")

	_ = viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

// initEnvConfig builds the configuration from the environment, then applies
// command line overrides.
func initEnvConfig() {
	loaded, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("[CONFIG] %v", err)
	}
	if port := viper.GetString("port"); port != "" {
		loaded.App.Port = port
	}
	if viper.GetBool("debug") {
		loaded.App.Debug = true
	}
	cfg = loaded

	initLogger()
}

func initLogger() {
	if cfg.App.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetOutput(os.Stdout)

	logrus.SetLevel(logrus.InfoLevel)
	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	logBuffer = logbuffer.Install(cfg.Logs.BufferSize)
}

// initApp opens the stores and wires every service.
func initApp(ctx context.Context) {
	var err error

	db, err = database.NewDatabase(cfg)
	if err != nil {
		logrus.Fatalf("[DATABASE] %v", err)
	}
	if cfg.Database.AutoMigrate {
		if err := storage.AutoMigrate(ctx, db); err != nil {
			logrus.Fatalf("[DATABASE] migration failed: %v", err)
		}
	}

	serverID = utils.GetPersistentServerID(cfg.App.ServerID, cfg.Paths.Storages)

	if cfg.Database.ValkeyEnabled {
		vkClient, err = valkey.NewClient(valkey.Config{
			Address:   cfg.Database.ValkeyAddress,
			Password:  cfg.Database.ValkeyPassword,
			DB:        cfg.Database.ValkeyDB,
			KeyPrefix: cfg.Database.ValkeyKeyPrefix,
		})
		if err != nil {
			logrus.Errorf("[VALKEY] %v, falling back to the in-memory cache", err)
			vkClient = nil
		} else {
			logrus.Infof("[VALKEY] connected to %s", cfg.Database.ValkeyAddress)
		}
	}

	if vkClient != nil {
		cacheStore = cache.NewValkeyStore(vkClient)
	} else {
		memory := cache.NewMemoryStore()
		memory.StartCleanup(ctx, time.Minute)
		cacheStore = memory
	}

	gateway = evolution.NewClient(cfg.Evolution.BaseURL, cfg.Evolution.APIKey)
	var sender domainWebhook.MessageSender
	if gateway.Configured() {
		sender = gateway
	} else {
		logrus.Warn("[EVOLUTION] EVOLUTION_API_URL or EVOLUTION_API_KEY is empty, replies and instance management are disabled")
	}

	generator, err := ai.NewGenerator(ctx, cfg.AI)
	if err != nil {
		logrus.Warnf("[AI] %v, automatic replies are disabled", err)
		generator = nil
	}

	hub = websocket.NewHub(vkClient, serverID)

	chatStore = storage.NewChatGormRepository(db)
	chatUsecase = usecase.NewChatService(chatStore, cfg.Quota.MonthlyMessages)
	promptUsecase = usecase.NewPromptService(storage.NewPromptGormRepository(db), cacheStore, gateway, cfg.AI.DefaultPrompt)
	profileUsecase = usecase.NewProfileService(storage.NewProfileGormRepository(db))
	instanceUsecase = usecase.NewInstanceService(gateway, cacheStore, cfg.WebhookURL())
	adminUsecase = usecase.NewAdminService(gateway, chatStore, profileUsecase, logBuffer, cfg.GetAllSettings)
	webhookUsecase = usecase.NewWebhookService(chatStore, promptUsecase, generator, sender, cacheStore, hub, usecase.WebhookOptions{
		FallbackReply: cfg.AI.FallbackReply,
		AITimeout:     cfg.AI.Timeout,
	})
}

// StopApp releases the connections opened by initApp.
func StopApp() {
	if vkClient != nil {
		vkClient.Close()
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	logrus.Info("[APP] stopped")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
