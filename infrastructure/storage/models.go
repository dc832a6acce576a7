package storage

import (
	"context"
	"time"

	domainChat "github.com/nicdemeagbeve-afk/synapse/domains/chat"
	domainProfile "github.com/nicdemeagbeve-afk/synapse/domains/profile"
	domainPrompt "github.com/nicdemeagbeve-afk/synapse/domains/prompt"
	"gorm.io/gorm"
)

// --- Persistence Models ---

type conversationModel struct {
	ID             string    `gorm:"primaryKey"`
	UserID         string    `gorm:"index:idx_conversations_user;not null"`
	InstanceID     string    `gorm:"uniqueIndex:idx_conversations_contact,priority:1;not null"`
	ContactName    string    `gorm:"not null"`
	ContactNumber  string    `gorm:"uniqueIndex:idx_conversations_contact,priority:2;not null"`
	LastActivity   time.Time `gorm:"index:idx_conversations_activity;not null"`
	Status         string    `gorm:"index;not null"`
	UnreadMessages int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (conversationModel) TableName() string {
	return "conversations"
}

type messageModel struct {
	ID                 string    `gorm:"primaryKey"`
	ConversationID     string    `gorm:"index:idx_messages_conversation,priority:1;not null"`
	Sender             string    `gorm:"not null"`
	Text               string    `gorm:"type:text;not null"`
	Timestamp          time.Time `gorm:"index:idx_messages_conversation,priority:2;not null"`
	EvolutionMessageID *string   `gorm:"uniqueIndex:idx_messages_evolution_id"`
}

func (messageModel) TableName() string {
	return "messages"
}

type promptModel struct {
	InstanceID          string `gorm:"primaryKey"`
	Prompt              string `gorm:"type:text;not null"`
	IgnoreCalls         bool   `gorm:"not null"`
	IgnoreGroupMessages bool   `gorm:"not null"`
	UpdatedAt           time.Time
}

func (promptModel) TableName() string {
	return "ai_prompts"
}

type profileModel struct {
	ID          string `gorm:"primaryKey"`
	FirstName   string
	LastName    string
	PhoneNumber string
	Age         *int
	Country     string
	Role        string `gorm:"not null;default:'user'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (profileModel) TableName() string {
	return "profiles"
}

// AutoMigrate creates or updates every table used by the backend.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(
		&conversationModel{},
		&messageModel{},
		&promptModel{},
		&profileModel{},
	)
}

// --- Mappers ---

func (m conversationModel) toDomain() domainChat.Conversation {
	return domainChat.Conversation{
		ID:             m.ID,
		UserID:         m.UserID,
		InstanceID:     m.InstanceID,
		ContactName:    m.ContactName,
		ContactNumber:  m.ContactNumber,
		LastActivity:   m.LastActivity,
		Status:         domainChat.Status(m.Status),
		UnreadMessages: m.UnreadMessages,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (m messageModel) toDomain() domainChat.Message {
	msg := domainChat.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Sender:         domainChat.Sender(m.Sender),
		Text:           m.Text,
		Timestamp:      m.Timestamp,
	}
	if m.EvolutionMessageID != nil {
		msg.EvolutionMessageID = *m.EvolutionMessageID
	}
	return msg
}

func (m promptModel) toDomain() domainPrompt.Config {
	updated := m.UpdatedAt
	return domainPrompt.Config{
		InstanceID:          m.InstanceID,
		MainPrompt:          m.Prompt,
		IgnoreCalls:         m.IgnoreCalls,
		IgnoreGroupMessages: m.IgnoreGroupMessages,
		UpdatedAt:           &updated,
	}
}

func (m profileModel) toDomain() domainProfile.Profile {
	return domainProfile.Profile{
		ID:          m.ID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		PhoneNumber: m.PhoneNumber,
		Age:         m.Age,
		Country:     m.Country,
		Role:        domainProfile.Role(m.Role),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
