package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domainChat "github.com/nicdemeagbeve-afk/synapse/domains/chat"
	domainInstance "github.com/nicdemeagbeve-afk/synapse/domains/instance"
	domainPrompt "github.com/nicdemeagbeve-afk/synapse/domains/prompt"
	domainWebhook "github.com/nicdemeagbeve-afk/synapse/domains/webhook"
	"github.com/nicdemeagbeve-afk/synapse/infrastructure/cache"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"github.com/nicdemeagbeve-afk/synapse/pkg/utils"
	"github.com/sirupsen/logrus"
)

type WebhookOptions struct {
	FallbackReply string
	AITimeout     time.Duration
}

type webhookService struct {
	chats     domainChat.IChatStore
	prompts   domainPrompt.IPromptUsecase
	generator domainWebhook.ReplyGenerator
	sender    domainWebhook.MessageSender
	cache     cache.Store
	publisher domainWebhook.EventPublisher
	opts      WebhookOptions
	now       func() time.Time
}

// NewWebhookService wires the ingestion pipeline. generator and sender may
// be nil, in which case automated replies are skipped.
func NewWebhookService(
	chats domainChat.IChatStore,
	prompts domainPrompt.IPromptUsecase,
	generator domainWebhook.ReplyGenerator,
	sender domainWebhook.MessageSender,
	c cache.Store,
	publisher domainWebhook.EventPublisher,
	opts WebhookOptions,
) domainWebhook.IWebhookUsecase {
	if c == nil {
		c = cache.NewMemoryStore()
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if opts.AITimeout <= 0 {
		opts.AITimeout = 30 * time.Second
	}
	return &webhookService{
		chats:     chats,
		prompts:   prompts,
		generator: generator,
		sender:    sender,
		cache:     c,
		publisher: publisher,
		opts:      opts,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, domainWebhook.LiveEvent) {}

func (s *webhookService) Handle(ctx context.Context, payload domainWebhook.Payload) (domainWebhook.Result, error) {
	payload.Instance = strings.TrimSpace(payload.Instance)
	if payload.Instance == "" || strings.TrimSpace(payload.Event) == "" || !payload.HasData() {
		return domainWebhook.Result{}, pkgError.ValidationError("event, instance and data are required")
	}

	switch domainWebhook.ParseEventType(payload.Event) {
	case domainWebhook.EventMessageUpsert:
		return s.handleMessage(ctx, payload)
	case domainWebhook.EventConnectionUpdate:
		return s.handleConnection(ctx, payload)
	case domainWebhook.EventQRCodeUpdate:
		return s.handleQRCode(ctx, payload)
	case domainWebhook.EventInstanceStatus:
		return s.handleInstanceStatus(ctx, payload)
	default:
		logrus.WithFields(logrus.Fields{"event": payload.Event, "instance_id": payload.Instance}).Debug("[WEBHOOK] unhandled event ignored")
		return domainWebhook.Result{Outcome: domainWebhook.OutcomeIgnored, Message: "event ignored"}, nil
	}
}

func (s *webhookService) handleMessage(ctx context.Context, payload domainWebhook.Payload) (domainWebhook.Result, error) {
	var data domainWebhook.MessageData
	if err := json.Unmarshal(payload.Data, &data); err != nil {
		return domainWebhook.Result{}, pkgError.ValidationError("invalid message payload: " + err.Error())
	}

	text := data.Text()
	if strings.TrimSpace(text) == "" {
		return domainWebhook.Result{Outcome: domainWebhook.OutcomeIgnored, Message: "no text content"}, nil
	}
	if data.Key.RemoteJid == "" || data.Key.ID == "" {
		return domainWebhook.Result{}, pkgError.ValidationError("data.key.remoteJid and data.key.id are required")
	}

	number := utils.ContactNumberFromJID(data.Key.RemoteJid)
	fromClient := !data.Key.FromMe
	at := data.MessageTimestamp.Time(s.now())

	log := logrus.WithFields(logrus.Fields{
		"instance_id": payload.Instance,
		"contact":     number,
		"message_id":  data.Key.ID,
	})

	// pushName on our own messages is the account name, not the contact's.
	contactName := number
	if fromClient && strings.TrimSpace(data.PushName) != "" {
		contactName = strings.TrimSpace(data.PushName)
	}

	var (
		conv domainChat.Conversation
		msg  domainChat.Message
	)
	err := s.chats.Transaction(ctx, func(tx domainChat.IChatStore) error {
		var err error
		conv, err = tx.UpsertConversation(ctx, domainChat.ConversationUpsert{
			UserID:        payload.Instance,
			InstanceID:    payload.Instance,
			ContactNumber: number,
			ContactName:   contactName,
			FromClient:    fromClient,
			At:            at,
		})
		if err != nil {
			return err
		}

		msg = domainChat.Message{
			ConversationID:     conv.ID,
			Sender:             senderOf(fromClient),
			Text:               text,
			Timestamp:          at,
			EvolutionMessageID: data.Key.ID,
		}
		return tx.InsertMessage(ctx, &msg)
	})
	if err != nil {
		if pkgError.IsDuplicate(err) {
			log.Debug("[WEBHOOK] duplicate delivery ignored")
			return domainWebhook.Result{Outcome: domainWebhook.OutcomeDuplicate, Message: "message already processed"}, nil
		}
		log.WithError(err).Error("[WEBHOOK] failed to persist message")
		return domainWebhook.Result{}, pkgError.InternalServerError(fmt.Sprintf("failed to persist message: %v", err))
	}

	liveType := domainWebhook.LiveMessageReceived
	if !fromClient {
		liveType = domainWebhook.LiveMessageSent
	}
	s.publisher.Publish(ctx, domainWebhook.LiveEvent{
		Type:       liveType,
		InstanceID: payload.Instance,
		Data:       map[string]any{"conversation": conv, "message": msg},
	})

	result := domainWebhook.Result{
		Outcome:        domainWebhook.OutcomeSuccess,
		Message:        "message recorded",
		ConversationID: conv.ID,
		MessageID:      msg.ID,
	}
	if fromClient {
		result.Replied = s.autoReply(ctx, payload.Instance, conv, data.Key.RemoteJid, text)
	}
	return result, nil
}

// autoReply generates and sends the answer to a client message. Every
// failure here is logged and swallowed.
func (s *webhookService) autoReply(ctx context.Context, instanceID string, conv domainChat.Conversation, remoteJid, text string) bool {
	log := logrus.WithFields(logrus.Fields{"instance_id": instanceID, "conversation_id": conv.ID})

	cfg := s.prompts.Resolve(ctx, instanceID)
	isGroup := utils.IsGroupJID(remoteJid)
	if isGroup && cfg.IgnoreGroupMessages {
		log.Debug("[WEBHOOK] group message, auto-reply disabled")
		return false
	}
	if s.generator == nil {
		log.Warn("[WEBHOOK] no AI provider configured, skipping reply")
		return false
	}
	if s.sender == nil {
		log.Warn("[WEBHOOK] gateway not configured, skipping reply")
		return false
	}

	reply := s.generateReply(ctx, cfg.MainPrompt, text)
	if reply == "" {
		return false
	}

	target := conv.ContactNumber
	if isGroup {
		target = remoteJid
	}
	gatewayID, err := s.sender.SendText(ctx, instanceID, target, reply)
	if err != nil {
		log.WithError(err).Error("[WEBHOOK] failed to send AI reply")
		return false
	}

	sentAt := s.now()
	aiMsg := domainChat.Message{
		ConversationID:     conv.ID,
		Sender:             domainChat.SenderAI,
		Text:               reply,
		Timestamp:          sentAt,
		EvolutionMessageID: gatewayID,
	}
	if err := s.chats.InsertMessage(ctx, &aiMsg); err != nil && !pkgError.IsDuplicate(err) {
		log.WithError(err).Error("[WEBHOOK] reply sent but not recorded")
	}
	if err := s.chats.TouchConversation(ctx, conv.ID, sentAt); err != nil {
		log.WithError(err).Warn("[WEBHOOK] failed to refresh conversation activity")
	}

	s.publisher.Publish(ctx, domainWebhook.LiveEvent{
		Type:       domainWebhook.LiveMessageSent,
		InstanceID: instanceID,
		Data:       map[string]any{"conversation_id": conv.ID, "message": aiMsg},
	})
	log.Info("[WEBHOOK] AI reply sent")
	return true
}

func (s *webhookService) generateReply(ctx context.Context, systemPrompt, text string) string {
	aiCtx, cancel := context.WithTimeout(ctx, s.opts.AITimeout)
	defer cancel()

	reply, err := s.generator.Generate(aiCtx, systemPrompt, text)
	if err != nil {
		logrus.WithError(err).Warn("[AI] generation failed, using fallback reply")
		return s.opts.FallbackReply
	}
	return reply
}

func (s *webhookService) handleConnection(ctx context.Context, payload domainWebhook.Payload) (domainWebhook.Result, error) {
	var data domainWebhook.ConnectionData
	if err := json.Unmarshal(payload.Data, &data); err != nil || data.State == "" {
		return domainWebhook.Result{Outcome: domainWebhook.OutcomeIgnored, Message: "connection update without state"}, nil
	}

	info := domainInstance.StateInfo{
		InstanceID: payload.Instance,
		State:      domainInstance.StateFromGateway(data.State),
		Raw:        data.State,
		UpdatedAt:  s.now(),
	}
	if err := s.cache.Set(ctx, cache.StateKey(payload.Instance), info, cache.StateTTL); err != nil {
		logrus.WithError(err).Warn("[WEBHOOK] failed to cache connection state")
	}
	if info.State == domainInstance.StateConnected {
		_ = s.cache.Delete(ctx, cache.QRCodeKey(payload.Instance))
	}

	logrus.WithFields(logrus.Fields{"instance_id": payload.Instance, "state": data.State, "reason": data.StatusReason}).Info("[WEBHOOK] connection update")
	s.publisher.Publish(ctx, domainWebhook.LiveEvent{Type: domainWebhook.LiveConnectionUpdate, InstanceID: payload.Instance, Data: info})
	return domainWebhook.Result{Outcome: domainWebhook.OutcomeSuccess, Message: "connection state recorded"}, nil
}

func (s *webhookService) handleQRCode(ctx context.Context, payload domainWebhook.Payload) (domainWebhook.Result, error) {
	var data domainWebhook.QRCodeData
	if err := json.Unmarshal(payload.Data, &data); err != nil {
		return domainWebhook.Result{Outcome: domainWebhook.OutcomeIgnored, Message: "unreadable qrcode payload"}, nil
	}

	qr := domainInstance.QRCode{
		InstanceID:  payload.Instance,
		Base64:      data.QRCode.Base64,
		Code:        data.QRCode.Code,
		PairingCode: data.QRCode.PairingCode,
		Source:      "webhook",
		FetchedAt:   s.now(),
	}
	if qr.Base64 == "" && qr.Code != "" {
		if img, err := RenderQRCode(qr.Code); err == nil {
			qr.Base64 = img
		}
	}
	if qr.Base64 == "" {
		return domainWebhook.Result{Outcome: domainWebhook.OutcomeIgnored, Message: "qrcode update without code"}, nil
	}

	if err := s.cache.Set(ctx, cache.QRCodeKey(payload.Instance), qr, cache.QRCodeTTL); err != nil {
		logrus.WithError(err).Warn("[WEBHOOK] failed to cache QR code")
	}
	s.publisher.Publish(ctx, domainWebhook.LiveEvent{Type: domainWebhook.LiveQRCodeUpdated, InstanceID: payload.Instance, Data: qr})
	return domainWebhook.Result{Outcome: domainWebhook.OutcomeSuccess, Message: "qrcode recorded"}, nil
}

func (s *webhookService) handleInstanceStatus(ctx context.Context, payload domainWebhook.Payload) (domainWebhook.Result, error) {
	var data map[string]any
	if err := json.Unmarshal(payload.Data, &data); err != nil {
		return domainWebhook.Result{Outcome: domainWebhook.OutcomeIgnored, Message: "unreadable status payload"}, nil
	}
	logrus.WithFields(logrus.Fields{"instance_id": payload.Instance, "status": data["status"]}).Info("[WEBHOOK] instance status")
	s.publisher.Publish(ctx, domainWebhook.LiveEvent{Type: domainWebhook.LiveInstanceStatus, InstanceID: payload.Instance, Data: data})
	return domainWebhook.Result{Outcome: domainWebhook.OutcomeSuccess, Message: "status acknowledged"}, nil
}

func senderOf(fromClient bool) domainChat.Sender {
	if fromClient {
		return domainChat.SenderClient
	}
	return domainChat.SenderAI
}
