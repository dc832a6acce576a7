package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	domainChat "github.com/nicdemeagbeve-afk/synapse/domains/chat"
	domainProfile "github.com/nicdemeagbeve-afk/synapse/domains/profile"
	domainPrompt "github.com/nicdemeagbeve-afk/synapse/domains/prompt"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(context.Background(), db))
	return db
}

func TestChatStore_UpsertConversation(t *testing.T) {
	ctx := context.Background()
	repo := NewChatGormRepository(newTestDB(t))

	first, err := repo.UpsertConversation(ctx, domainChat.ConversationUpsert{
		UserID: "user_123", InstanceID: "user_123", ContactNumber: "33612345678", ContactName: "Alice", FromClient: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.UnreadMessages)
	assert.Equal(t, domainChat.StatusInProgress, first.Status)
	assert.Equal(t, "Alice", first.ContactName)

	require.NoError(t, repo.SetStatus(ctx, "user_123", first.ID, domainChat.StatusClosed))

	second, err := repo.UpsertConversation(ctx, domainChat.ConversationUpsert{
		UserID: "user_123", InstanceID: "user_123", ContactNumber: "33612345678", ContactName: "Renamed", FromClient: true,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.UnreadMessages)
	assert.Equal(t, domainChat.StatusInProgress, second.Status)
	assert.Equal(t, "Alice", second.ContactName)

	third, err := repo.UpsertConversation(ctx, domainChat.ConversationUpsert{
		UserID: "user_123", InstanceID: "user_123", ContactNumber: "33612345678", FromClient: false,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, third.UnreadMessages)
}

func TestChatStore_NewBotConversationStartsRead(t *testing.T) {
	repo := NewChatGormRepository(newTestDB(t))

	conv, err := repo.UpsertConversation(context.Background(), domainChat.ConversationUpsert{
		UserID: "u1", InstanceID: "u1", ContactNumber: "2250700000000",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, conv.UnreadMessages)
	assert.Equal(t, "2250700000000", conv.ContactName)
}

func TestChatStore_InsertMessageDeduplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewChatGormRepository(newTestDB(t))

	conv, err := repo.UpsertConversation(ctx, domainChat.ConversationUpsert{UserID: "u1", InstanceID: "u1", ContactNumber: "1"})
	require.NoError(t, err)

	msg := &domainChat.Message{ConversationID: conv.ID, Sender: domainChat.SenderClient, Text: "hi", EvolutionMessageID: "MSGID1"}
	require.NoError(t, repo.InsertMessage(ctx, msg))
	assert.NotEmpty(t, msg.ID)

	err = repo.InsertMessage(ctx, &domainChat.Message{ConversationID: conv.ID, Sender: domainChat.SenderClient, Text: "hi", EvolutionMessageID: "MSGID1"})
	require.Error(t, err)
	assert.True(t, pkgError.IsDuplicate(err))

	// rows without a dedup id never collide
	require.NoError(t, repo.InsertMessage(ctx, &domainChat.Message{ConversationID: conv.ID, Sender: domainChat.SenderAI, Text: "a"}))
	require.NoError(t, repo.InsertMessage(ctx, &domainChat.Message{ConversationID: conv.ID, Sender: domainChat.SenderAI, Text: "b"}))

	msgs, err := repo.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
}

func TestChatStore_TransactionRollsBackOnDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewChatGormRepository(newTestDB(t))

	deliver := func() error {
		return repo.Transaction(ctx, func(tx domainChat.IChatStore) error {
			conv, err := tx.UpsertConversation(ctx, domainChat.ConversationUpsert{
				UserID: "u1", InstanceID: "u1", ContactNumber: "33612345678", FromClient: true,
			})
			if err != nil {
				return err
			}
			return tx.InsertMessage(ctx, &domainChat.Message{
				ConversationID: conv.ID, Sender: domainChat.SenderClient, Text: "Bonjour", EvolutionMessageID: "MSGID1",
			})
		})
	}

	require.NoError(t, deliver())
	err := deliver()
	require.Error(t, err)
	assert.True(t, pkgError.IsDuplicate(err))

	convs, err := repo.ListConversations(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, 1, convs[0].UnreadMessages)
}

func TestChatStore_ListAndOwnership(t *testing.T) {
	ctx := context.Background()
	repo := NewChatGormRepository(newTestDB(t))
	base := time.Now().UTC().Add(-time.Hour)

	older, err := repo.UpsertConversation(ctx, domainChat.ConversationUpsert{UserID: "u1", InstanceID: "u1", ContactNumber: "1", At: base})
	require.NoError(t, err)
	newer, err := repo.UpsertConversation(ctx, domainChat.ConversationUpsert{UserID: "u1", InstanceID: "u1", ContactNumber: "2", At: base.Add(time.Minute), FromClient: true})
	require.NoError(t, err)
	_, err = repo.UpsertConversation(ctx, domainChat.ConversationUpsert{UserID: "u2", InstanceID: "u2", ContactNumber: "1"})
	require.NoError(t, err)

	convs, err := repo.ListConversations(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, newer.ID, convs[0].ID)
	assert.Equal(t, older.ID, convs[1].ID)

	_, err = repo.GetConversation(ctx, "u2", older.ID)
	assert.True(t, pkgError.IsNotFound(err))

	assert.True(t, pkgError.IsNotFound(repo.MarkRead(ctx, "u2", newer.ID)))
	require.NoError(t, repo.MarkRead(ctx, "u1", newer.ID))
	got, err := repo.GetConversation(ctx, "u1", newer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.UnreadMessages)

	require.NoError(t, repo.SetStatus(ctx, "u1", older.ID, domainChat.StatusUnanswered))
	filtered, err := repo.ListConversations(ctx, "u1", domainChat.StatusUnanswered)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, older.ID, filtered[0].ID)
}

func TestChatStore_MessagesOrderedAndCounted(t *testing.T) {
	ctx := context.Background()
	repo := NewChatGormRepository(newTestDB(t))
	conv, err := repo.UpsertConversation(ctx, domainChat.ConversationUpsert{UserID: "u1", InstanceID: "u1", ContactNumber: "1"})
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, repo.InsertMessage(ctx, &domainChat.Message{ConversationID: conv.ID, Sender: domainChat.SenderAI, Text: "second", Timestamp: now}))
	require.NoError(t, repo.InsertMessage(ctx, &domainChat.Message{ConversationID: conv.ID, Sender: domainChat.SenderClient, Text: "first", Timestamp: now.Add(-time.Minute)}))
	require.NoError(t, repo.InsertMessage(ctx, &domainChat.Message{ConversationID: conv.ID, Sender: domainChat.SenderClient, Text: "old", Timestamp: now.Add(-72 * time.Hour)}))

	msgs, err := repo.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "old", msgs[0].Text)
	assert.Equal(t, "second", msgs[2].Text)

	counts, err := repo.CountMessagesBySender(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[domainChat.SenderClient])
	assert.Equal(t, int64(1), counts[domainChat.SenderAI])

	totals, err := repo.Totals(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.Conversations)
	assert.Equal(t, int64(3), totals.Messages)
	assert.Equal(t, int64(2), totals.MessagesSince)
	assert.Equal(t, int64(1), totals.ByStatus[domainChat.StatusInProgress])
}

func TestPromptStore_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewPromptGormRepository(newTestDB(t))

	_, err := repo.Get(ctx, "user_123")
	assert.True(t, pkgError.IsNotFound(err))

	_, err = repo.Upsert(ctx, domainPrompt.Config{InstanceID: "user_123", MainPrompt: "Réponds poliment.", IgnoreGroupMessages: true})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, domainPrompt.Config{InstanceID: "user_123", MainPrompt: "Réponds en anglais.", IgnoreCalls: true})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "user_123")
	require.NoError(t, err)
	assert.Equal(t, "Réponds en anglais.", got.MainPrompt)
	assert.True(t, got.IgnoreCalls)
	assert.False(t, got.IgnoreGroupMessages)
}

func TestProfileStore_UpsertPreservesRole(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewProfileGormRepository(db)

	age := 30
	created, err := repo.Upsert(ctx, domainProfile.Profile{ID: "u1", FirstName: "Ada", Age: &age})
	require.NoError(t, err)
	assert.Equal(t, domainProfile.RoleUser, created.Role)

	require.NoError(t, db.Model(&profileModel{}).Where("id = ?", "u1").Update("role", "admin").Error)

	updated, err := repo.Upsert(ctx, domainProfile.Profile{ID: "u1", FirstName: "Ada", LastName: "Lovelace", Role: domainProfile.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, domainProfile.RoleAdmin, updated.Role)
	assert.Equal(t, "Lovelace", updated.LastName)
	assert.Nil(t, updated.Age)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
