package config

import (
	"os"
	"strconv"
	"strings"
)

// GetAllSettings returns the non-secret settings currently loaded, for the
// admin overview.
func (c *Config) GetAllSettings() map[string]any {
	return map[string]any{
		"app_version":        c.App.Version,
		"app_environment":    c.App.Environment,
		"app_debug":          c.App.Debug,
		"db_driver":          c.Database.Driver,
		"valkey_enabled":     c.Database.ValkeyEnabled,
		"evolution_enabled":  c.Evolution.Enabled(),
		"webhook_registered": c.Webhook.PublicURL != "",
		"ai_provider":        c.AI.Provider,
		"ai_model":           c.AI.Model,
		"quota_messages":     c.Quota.MonthlyMessages,
	}
}

// Helpers
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		vLower := strings.ToLower(v)
		return vLower == "1" || vLower == "true" || vLower == "yes" || vLower == "on"
	}
	return fallback
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
