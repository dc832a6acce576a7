package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	domainWebhook "github.com/nicdemeagbeve-afk/synapse/domains/webhook"
	"github.com/nicdemeagbeve-afk/synapse/infrastructure/storage"
	"github.com/nicdemeagbeve-afk/synapse/integrations/evolution"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

// MockGateway records calls to the Evolution API.
type MockGateway struct {
	mock.Mock
}

var _ Gateway = (*MockGateway)(nil)

func (m *MockGateway) Configured() bool {
	return true
}

func (m *MockGateway) CreateInstance(ctx context.Context, req evolution.CreateInstanceRequest) (evolution.CreateInstanceResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(evolution.CreateInstanceResponse), args.Error(1)
}

func (m *MockGateway) Connect(ctx context.Context, instance string) (evolution.QRCode, error) {
	args := m.Called(ctx, instance)
	return args.Get(0).(evolution.QRCode), args.Error(1)
}

func (m *MockGateway) ConnectionState(ctx context.Context, instance string) (string, error) {
	args := m.Called(ctx, instance)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) Restart(ctx context.Context, instance string) error {
	return m.Called(ctx, instance).Error(0)
}

func (m *MockGateway) Logout(ctx context.Context, instance string) error {
	return m.Called(ctx, instance).Error(0)
}

func (m *MockGateway) DeleteInstance(ctx context.Context, instance string) error {
	return m.Called(ctx, instance).Error(0)
}

func (m *MockGateway) FetchInstances(ctx context.Context) ([]evolution.InstanceInfo, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]evolution.InstanceInfo)
	return list, args.Error(1)
}

func (m *MockGateway) SetSettings(ctx context.Context, instance string, s evolution.Settings) error {
	return m.Called(ctx, instance, s).Error(0)
}

func (m *MockGateway) FindSettings(ctx context.Context, instance string) (evolution.Settings, error) {
	args := m.Called(ctx, instance)
	return args.Get(0).(evolution.Settings), args.Error(1)
}

func (m *MockGateway) SetProxy(ctx context.Context, instance string, p evolution.Proxy) error {
	return m.Called(ctx, instance, p).Error(0)
}

func (m *MockGateway) FindProxy(ctx context.Context, instance string) (evolution.Proxy, error) {
	args := m.Called(ctx, instance)
	return args.Get(0).(evolution.Proxy), args.Error(1)
}

func (m *MockGateway) SendText(ctx context.Context, instance, number, text string) (string, error) {
	args := m.Called(ctx, instance, number, text)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CreateGroup(ctx context.Context, instance string, req evolution.CreateGroupRequest) (evolution.GroupInfo, error) {
	args := m.Called(ctx, instance, req)
	return args.Get(0).(evolution.GroupInfo), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, systemPrompt, userText string) (string, error) {
	args := m.Called(ctx, systemPrompt, userText)
	return args.String(0), args.Error(1)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []domainWebhook.LiveEvent
}

func (p *capturePublisher) Publish(_ context.Context, evt domainWebhook.LiveEvent) {
	p.mu.Lock()
	p.events = append(p.events, evt)
	p.mu.Unlock()
}

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
