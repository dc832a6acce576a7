package usecase

import (
	"context"
	"math"

	domainChat "github.com/nicdemeagbeve-afk/synapse/domains/chat"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"github.com/nicdemeagbeve-afk/synapse/validations"
)

type chatService struct {
	store      domainChat.IChatStore
	totalQuota int
}

func NewChatService(store domainChat.IChatStore, totalQuota int) domainChat.IChatUsecase {
	if totalQuota <= 0 {
		totalQuota = 50000
	}
	return &chatService{store: store, totalQuota: totalQuota}
}

func (s *chatService) ListConversations(ctx context.Context, userID string, status string) ([]domainChat.Conversation, error) {
	st := domainChat.Status(status)
	if st != "" && !st.Valid() {
		return nil, pkgError.ValidationError("unknown conversation status: " + status)
	}
	return s.store.ListConversations(ctx, userID, st)
}

func (s *chatService) ListMessages(ctx context.Context, userID, conversationID string) ([]domainChat.Message, error) {
	if _, err := s.store.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, conversationID)
}

func (s *chatService) MarkRead(ctx context.Context, userID, conversationID string) error {
	return s.store.MarkRead(ctx, userID, conversationID)
}

func (s *chatService) UpdateStatus(ctx context.Context, userID, conversationID string, req domainChat.UpdateStatusRequest) error {
	if err := validations.ValidateUpdateStatus(ctx, &req); err != nil {
		return err
	}
	return s.store.SetStatus(ctx, userID, conversationID, req.Status)
}

func (s *chatService) UserStats(ctx context.Context, userID string) (domainChat.UserStats, error) {
	counts, err := s.store.CountMessagesBySender(ctx, userID)
	if err != nil {
		return domainChat.UserStats{}, err
	}

	processed := counts[domainChat.SenderClient] + counts[domainChat.SenderAI]
	// AvgResponseTime stays 0, response latency is not tracked.
	stats := domainChat.UserStats{
		MessagesProcessed: processed,
		TotalQuota:        s.totalQuota,
		QuotaUsed:         percent(processed, int64(s.totalQuota)),
		ResponseRate:      percent(counts[domainChat.SenderAI], counts[domainChat.SenderClient]),
	}
	return stats, nil
}

// percent returns round(part*100/whole) capped to [0, 100].
func percent(part, whole int64) int {
	if whole <= 0 || part <= 0 {
		return 0
	}
	p := int(math.Round(float64(part) * 100 / float64(whole)))
	if p > 100 {
		return 100
	}
	return p
}
