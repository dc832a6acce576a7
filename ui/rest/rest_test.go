package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	domainChat "github.com/nicdemeagbeve-afk/synapse/domains/chat"
	domainProfile "github.com/nicdemeagbeve-afk/synapse/domains/profile"
	"github.com/nicdemeagbeve-afk/synapse/infrastructure/storage"
	"github.com/nicdemeagbeve-afk/synapse/pkg/security"
	"github.com/nicdemeagbeve-afk/synapse/pkg/utils"
	"github.com/nicdemeagbeve-afk/synapse/ui/rest/middleware"
	"github.com/nicdemeagbeve-afk/synapse/usecase"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "rest-test-secret-0123456789abcdef"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, storage.AutoMigrate(context.Background(), db))
	return db
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := security.GenerateToken(testSecret, userID, userID+"@example.com", time.Hour)
	require.NoError(t, err)
	return token
}

// dashboard mounts the authenticated routes the same way cmd/rest.go does.
type dashboard struct {
	app      *fiber.App
	chats    *storage.ChatGormRepository
	profiles *storage.ProfileGormRepository
}

func newDashboard(t *testing.T) *dashboard {
	t.Helper()
	db := newTestDB(t)
	chats := storage.NewChatGormRepository(db)
	profileRepo := storage.NewProfileGormRepository(db)
	profiles := usecase.NewProfileService(profileRepo)

	app := fiber.New()
	app.Use(middleware.Recovery())
	api := app.Group("/api")
	InitRestHealth(api, "test", nil)
	protected := api.Group("", middleware.Auth(security.NewVerifier(testSecret)))
	InitRestChatHistory(protected, usecase.NewChatService(chats, 100))
	InitRestProfile(protected, profiles)
	InitRestAdmin(protected, usecase.NewAdminService(nil, chats, profiles, nil, nil), profiles)

	return &dashboard{app: app, chats: chats, profiles: profileRepo}
}

func (d *dashboard) do(t *testing.T, method, path, token string, body any) (int, utils.ResponseData) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return doRequest(t, d.app, req)
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, utils.ResponseData) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope utils.ResponseData
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &envelope), string(raw))
	}
	return resp.StatusCode, envelope
}

func (d *dashboard) seed(t *testing.T, user, number string) domainChat.Conversation {
	t.Helper()
	conv, err := d.chats.UpsertConversation(context.Background(), domainChat.ConversationUpsert{
		UserID: user, InstanceID: user, ContactNumber: number, ContactName: number, FromClient: true,
	})
	require.NoError(t, err)
	require.NoError(t, d.chats.InsertMessage(context.Background(), &domainChat.Message{
		ConversationID: conv.ID, Sender: domainChat.SenderClient, Text: "Bonjour",
	}))
	return conv
}

func (d *dashboard) promote(t *testing.T, user string) {
	t.Helper()
	_, err := d.profiles.Upsert(context.Background(), domainProfile.Profile{ID: user, Role: domainProfile.RoleAdmin})
	require.NoError(t, err)
}
