package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	domainChat "github.com/nicdemeagbeve-afk/synapse/domains/chat"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatGormRepository struct {
	db *gorm.DB
}

func NewChatGormRepository(db *gorm.DB) *ChatGormRepository {
	return &ChatGormRepository{db: db}
}

var _ domainChat.IChatStore = (*ChatGormRepository)(nil)

func (r *ChatGormRepository) Transaction(ctx context.Context, fn func(tx domainChat.IChatStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ChatGormRepository{db: tx})
	})
}

// UpsertConversation inserts the conversation or, when (instance, contact)
// already exists, refreshes it. The unique index makes concurrent first
// messages from the same contact converge on one row.
func (r *ChatGormRepository) UpsertConversation(ctx context.Context, in domainChat.ConversationUpsert) (domainChat.Conversation, error) {
	const op = "upsert conversation"

	at := in.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	unread := 0
	if in.FromClient {
		unread = 1
	}
	name := in.ContactName
	if name == "" {
		name = in.ContactNumber
	}

	var out domainChat.Conversation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := conversationModel{
			ID:             uuid.New().String(),
			UserID:         in.UserID,
			InstanceID:     in.InstanceID,
			ContactName:    name,
			ContactNumber:  in.ContactNumber,
			LastActivity:   at,
			Status:         string(domainChat.StatusInProgress),
			UnreadMessages: unread,
		}

		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "instance_id"}, {Name: "contact_number"}},
			DoNothing: true,
		}).Create(&model)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			updates := map[string]interface{}{
				"last_activity": at,
				"status":        string(domainChat.StatusInProgress),
				"updated_at":    time.Now().UTC(),
			}
			if in.FromClient {
				updates["unread_messages"] = gorm.Expr("unread_messages + ?", 1)
			}
			if err := tx.Model(&conversationModel{}).
				Where("instance_id = ? AND contact_number = ?", in.InstanceID, in.ContactNumber).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		var stored conversationModel
		if err := tx.Where("instance_id = ? AND contact_number = ?", in.InstanceID, in.ContactNumber).
			First(&stored).Error; err != nil {
			return err
		}
		out = stored.toDomain()
		return nil
	})
	if err != nil {
		return domainChat.Conversation{}, classify(op, err)
	}
	return out, nil
}

func (r *ChatGormRepository) InsertMessage(ctx context.Context, msg *domainChat.Message) error {
	const op = "insert message"

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	model := messageModel{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Sender:         string(msg.Sender),
		Text:           msg.Text,
		Timestamp:      msg.Timestamp,
	}

	q := r.db.WithContext(ctx)
	if msg.EvolutionMessageID != "" {
		id := msg.EvolutionMessageID
		model.EvolutionMessageID = &id
		// DO NOTHING keeps an enclosing Postgres transaction usable on redelivery.
		q = q.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "evolution_message_id"}},
			DoNothing: true,
		})
	}

	res := q.Create(&model)
	if res.Error != nil {
		return classify(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return pkgError.NewStoreError(pkgError.KindDuplicate, op, ErrDuplicateMessage)
	}
	return nil
}

func (r *ChatGormRepository) TouchConversation(ctx context.Context, conversationID string, at time.Time) error {
	const op = "touch conversation"
	res := r.db.WithContext(ctx).Model(&conversationModel{}).
		Where("id = ?", conversationID).
		Updates(map[string]interface{}{"last_activity": at, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return classify(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(op, ErrConversationNotFound)
	}
	return nil
}

func (r *ChatGormRepository) ListConversations(ctx context.Context, userID string, status domainChat.Status) ([]domainChat.Conversation, error) {
	var models []conversationModel
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	if err := query.Order("last_activity DESC").Find(&models).Error; err != nil {
		return nil, classify("list conversations", err)
	}

	out := make([]domainChat.Conversation, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *ChatGormRepository) GetConversation(ctx context.Context, userID, conversationID string) (domainChat.Conversation, error) {
	var m conversationModel
	if err := r.db.WithContext(ctx).First(&m, "id = ? AND user_id = ?", conversationID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domainChat.Conversation{}, notFound("get conversation", ErrConversationNotFound)
		}
		return domainChat.Conversation{}, classify("get conversation", err)
	}
	return m.toDomain(), nil
}

func (r *ChatGormRepository) ListMessages(ctx context.Context, conversationID string) ([]domainChat.Message, error) {
	var models []messageModel
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC").
		Find(&models).Error; err != nil {
		return nil, classify("list messages", err)
	}

	out := make([]domainChat.Message, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *ChatGormRepository) MarkRead(ctx context.Context, userID, conversationID string) error {
	return r.updateOwned(ctx, "mark read", userID, conversationID, map[string]interface{}{"unread_messages": 0})
}

func (r *ChatGormRepository) SetStatus(ctx context.Context, userID, conversationID string, status domainChat.Status) error {
	return r.updateOwned(ctx, "set status", userID, conversationID, map[string]interface{}{"status": string(status)})
}

func (r *ChatGormRepository) updateOwned(ctx context.Context, op, userID, conversationID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&conversationModel{}).
		Where("id = ? AND user_id = ?", conversationID, userID).
		Updates(updates)
	if res.Error != nil {
		return classify(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(op, ErrConversationNotFound)
	}
	return nil
}

func (r *ChatGormRepository) CountMessagesBySender(ctx context.Context, userID string) (map[domainChat.Sender]int64, error) {
	var rows []struct {
		Sender string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&messageModel{}).
		Select("messages.sender AS sender, COUNT(*) AS total").
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.user_id = ?", userID).
		Group("messages.sender").
		Scan(&rows).Error
	if err != nil {
		return nil, classify("count messages", err)
	}

	out := make(map[domainChat.Sender]int64, len(rows))
	for _, row := range rows {
		out[domainChat.Sender(row.Sender)] = row.Total
	}
	return out, nil
}

func (r *ChatGormRepository) Totals(ctx context.Context, since time.Time) (domainChat.Totals, error) {
	const op = "totals"
	totals := domainChat.Totals{ByStatus: make(map[domainChat.Status]int64)}
	db := r.db.WithContext(ctx)

	if err := db.Model(&conversationModel{}).Count(&totals.Conversations).Error; err != nil {
		return totals, classify(op, err)
	}
	if err := db.Model(&messageModel{}).Count(&totals.Messages).Error; err != nil {
		return totals, classify(op, err)
	}
	if err := db.Model(&messageModel{}).Where("timestamp >= ?", since).Count(&totals.MessagesSince).Error; err != nil {
		return totals, classify(op, err)
	}

	var rows []struct {
		Status string
		Total  int64
	}
	if err := db.Model(&conversationModel{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return totals, classify(op, err)
	}
	for _, row := range rows {
		totals.ByStatus[domainChat.Status(row.Status)] = row.Total
	}
	return totals, nil
}
