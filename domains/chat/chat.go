package chat

import (
	"context"
	"time"
)

type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusClosed     Status = "closed"
	StatusUnanswered Status = "unanswered"
)

// Valid reports whether s is one of the known conversation statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusClosed, StatusUnanswered:
		return true
	}
	return false
}

type Sender string

const (
	SenderClient Sender = "client"
	SenderAI     Sender = "ai"
)

type Conversation struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	InstanceID     string    `json:"instance_id"`
	ContactName    string    `json:"contact_name"`
	ContactNumber  string    `json:"contact_number"`
	LastActivity   time.Time `json:"last_activity"`
	Status         Status    `json:"status"`
	UnreadMessages int       `json:"unread_messages"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Message struct {
	ID                 string    `json:"id"`
	ConversationID     string    `json:"conversation_id"`
	Sender             Sender    `json:"sender"`
	Text               string    `json:"text"`
	Timestamp          time.Time `json:"timestamp"`
	EvolutionMessageID string    `json:"evolution_message_id,omitempty"`
}

// ConversationUpsert identifies a conversation by (InstanceID, ContactNumber)
// and carries what an inbound or outbound message changes on it.
type ConversationUpsert struct {
	UserID        string
	InstanceID    string
	ContactNumber string
	ContactName   string
	FromClient    bool
	At            time.Time
}

type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

type UserStats struct {
	MessagesProcessed int64 `json:"messagesProcessed"`
	TotalQuota        int   `json:"totalQuota"`
	QuotaUsed         int   `json:"quotaUsed"`
	ResponseRate      int   `json:"responseRate"`
	AvgResponseTime   int   `json:"avgResponseTime"`
}

type Totals struct {
	Conversations int64            `json:"conversations"`
	Messages      int64            `json:"messages"`
	ByStatus      map[Status]int64 `json:"by_status"`
	MessagesSince int64            `json:"messages_since"`
}

type IChatStore interface {
	// Transaction runs fn against a store bound to a single database transaction.
	Transaction(ctx context.Context, fn func(tx IChatStore) error) error

	UpsertConversation(ctx context.Context, in ConversationUpsert) (Conversation, error)
	// InsertMessage fails with a duplicate StoreError when the dedup id already exists.
	InsertMessage(ctx context.Context, msg *Message) error
	TouchConversation(ctx context.Context, conversationID string, at time.Time) error

	ListConversations(ctx context.Context, userID string, status Status) ([]Conversation, error)
	GetConversation(ctx context.Context, userID, conversationID string) (Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)
	MarkRead(ctx context.Context, userID, conversationID string) error
	SetStatus(ctx context.Context, userID, conversationID string, status Status) error

	CountMessagesBySender(ctx context.Context, userID string) (map[Sender]int64, error)
	Totals(ctx context.Context, since time.Time) (Totals, error)
}

type IChatUsecase interface {
	ListConversations(ctx context.Context, userID string, status string) ([]Conversation, error)
	ListMessages(ctx context.Context, userID, conversationID string) ([]Message, error)
	MarkRead(ctx context.Context, userID, conversationID string) error
	UpdateStatus(ctx context.Context, userID, conversationID string, req UpdateStatusRequest) error
	UserStats(ctx context.Context, userID string) (UserStats, error)
}
