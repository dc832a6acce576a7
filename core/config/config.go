package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App       AppConfig
	Paths     PathsConfig
	Database  DatabaseConfig
	Evolution EvolutionConfig
	Webhook   WebhookConfig
	Auth      AuthConfig
	AI        AIConfig
	Quota     QuotaConfig
	Logs      LogsConfig
}

type AppConfig struct {
	Version            string
	Port               string
	Debug              bool
	Environment        string
	BasePath           string
	TrustedProxies     []string
	CorsAllowedOrigins []string
	ServerID           string
}

type PathsConfig struct {
	Storages string
}

type DatabaseConfig struct {
	Driver      string
	URI         string // full DSN, wins over the discrete fields
	Host        string
	Port        int
	User        string
	Password    string
	Name        string // file path for SQLite, database name for Postgres
	SSLMode     string
	AutoMigrate bool

	ValkeyEnabled   bool
	ValkeyAddress   string
	ValkeyPassword  string
	ValkeyDB        int
	ValkeyKeyPrefix string
}

type EvolutionConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Enabled reports whether the gateway can be called at all.
func (c EvolutionConfig) Enabled() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

type WebhookConfig struct {
	PublicURL string
	Token     string
}

type AuthConfig struct {
	SupabaseJWTSecret string
}

type AIConfig struct {
	Provider      string
	Model         string
	Timeout       time.Duration
	DefaultPrompt string
	FallbackReply string
	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

type QuotaConfig struct {
	MonthlyMessages int
}

type LogsConfig struct {
	BufferSize int
}

const DefaultSystemPrompt = "Vous êtes un assistant IA amical et serviable pour Synapse AI. Votre rôle est de répondre aux questions des utilisateurs sur nos services, de les guider à travers le tableau de bord et de fournir un support de base. Soyez concis et précis."

const DefaultFallbackReply = "Désolé, je ne peux pas répondre pour le moment. Un conseiller reviendra vers vous rapidement."

// LoadConfig loads configuration from environment variables or defaults.
func LoadConfig() (*Config, error) {
	debug := getEnvBool("APP_DEBUG", false)

	corsOrigins := []string{"http://localhost:3000"}
	if v := os.Getenv("APP_CORS_ALLOWED_ORIGINS"); v != "" {
		corsOrigins = splitCSV(v)
	}

	appCfg := AppConfig{
		Version:            "v1.0.0",
		Port:               getEnv("APP_PORT", "3000"),
		Debug:              debug,
		Environment:        getEnv("APP_ENV", "development"),
		BasePath:           strings.TrimRight(getEnv("APP_BASE_PATH", ""), "/"),
		TrustedProxies:     splitCSV(os.Getenv("APP_TRUSTED_PROXIES")),
		CorsAllowedOrigins: corsOrigins,
		ServerID:           getEnv("SERVER_ID", ""),
	}

	pathsCfg := PathsConfig{Storages: getEnv("APP_STORAGE_DIR", "storages")}

	dbCfg := DatabaseConfig{
		Driver:          strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		URI:             getEnv("DB_URI", os.Getenv("SUPABASE_DB_URL")),
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", filepath.Join(pathsCfg.Storages, "synapse.db")),
		SSLMode:         getEnv("DB_SSLMODE", "require"),
		AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		ValkeyEnabled:   getEnvBool("VALKEY_ENABLED", false),
		ValkeyAddress:   getEnv("VALKEY_ADDRESS", "localhost:6379"),
		ValkeyPassword:  getEnv("VALKEY_PASSWORD", ""),
		ValkeyDB:        getEnvInt("VALKEY_DB", 0),
		ValkeyKeyPrefix: getEnv("VALKEY_KEY_PREFIX", "synapse:"),
	}
	if dbCfg.Driver == "supabase" {
		dbCfg.Driver = "postgres"
	}

	// Legacy dashboard variable names are still honoured.
	evoCfg := EvolutionConfig{
		BaseURL: strings.TrimRight(firstEnv("EVOLUTION_API_URL", "NEXT_PUBLIC_EVOLUTION_API_URL", "NEXT_PUBLIC_API_SERVER_URL"), "/"),
		APIKey:  firstEnv("EVOLUTION_API_KEY", "NEXT_PUBLIC_EVOLUTION_API_KEY", "NEXT_PUBLIC_API_KEY"),
		Timeout: time.Duration(getEnvInt("EVOLUTION_TIMEOUT_SECONDS", 15)) * time.Second,
	}

	aiCfg := AIConfig{
		Provider:      strings.ToLower(getEnv("AI_PROVIDER", "gemini")),
		Model:         getEnv("AI_MODEL", ""),
		Timeout:       time.Duration(getEnvInt("AI_TIMEOUT_SECONDS", 30)) * time.Second,
		DefaultPrompt: getEnv("AI_DEFAULT_PROMPT", DefaultSystemPrompt),
		FallbackReply: getEnv("AI_FALLBACK_REPLY", DefaultFallbackReply),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
	}
	if aiCfg.Provider != "gemini" && aiCfg.Provider != "openai" {
		return nil, fmt.Errorf("unsupported AI_PROVIDER %q (expected gemini or openai)", aiCfg.Provider)
	}

	cfg := &Config{
		App:       appCfg,
		Paths:     pathsCfg,
		Database:  dbCfg,
		Evolution: evoCfg,
		Webhook: WebhookConfig{
			PublicURL: strings.TrimRight(getEnv("WEBHOOK_PUBLIC_URL", ""), "/"),
			Token:     getEnv("WEBHOOK_TOKEN", ""),
		},
		Auth:  AuthConfig{SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", "")},
		AI:    aiCfg,
		Quota: QuotaConfig{MonthlyMessages: getEnvInt("QUOTA_MESSAGES", 50000)},
		Logs:  LogsConfig{BufferSize: getEnvInt("LOG_BUFFER_SIZE", 500)},
	}

	return cfg, nil
}

// WebhookURL is the callback address registered on new gateway instances.
func (c *Config) WebhookURL() string {
	if c.Webhook.PublicURL == "" {
		return ""
	}
	url := c.Webhook.PublicURL + c.App.BasePath + "/api/webhook/evolution"
	if c.Webhook.Token != "" {
		url += "?token=" + c.Webhook.Token
	}
	return url
}
