package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

type EventType string

const (
	EventMessageUpsert    EventType = "messages.upsert"
	EventConnectionUpdate EventType = "connection.update"
	EventQRCodeUpdate     EventType = "qrcode.updated"
	EventInstanceStatus   EventType = "instance.status"
	EventUnknown          EventType = ""
)

// ParseEventType normalises the gateway discriminant. Matching is
// case-insensitive and "_" is treated as ".".
func ParseEventType(raw string) EventType {
	v := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", ".")
	switch v {
	case "messages.upsert":
		return EventMessageUpsert
	case "connection.update":
		return EventConnectionUpdate
	case "qrcode.updated", "qr.code":
		return EventQRCodeUpdate
	case "instance.status", "status.instance":
		return EventInstanceStatus
	}
	return EventUnknown
}

// Payload is the envelope the gateway posts for every event.
type Payload struct {
	Event       string          `json:"event"`
	Instance    string          `json:"instance"`
	Data        json.RawMessage `json:"data"`
	DateTime    string          `json:"date_time,omitempty"`
	Sender      string          `json:"sender,omitempty"`
	ServerURL   string          `json:"server_url,omitempty"`
	APIKey      string          `json:"apikey,omitempty"`
	Destination string          `json:"destination,omitempty"`
}

// HasData reports whether data is present and not JSON null.
func (p Payload) HasData() bool {
	d := bytes.TrimSpace(p.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

type MessageKey struct {
	RemoteJid string `json:"remoteJid"`
	FromMe    bool   `json:"fromMe"`
	ID        string `json:"id"`
}

type ExtendedTextMessage struct {
	Text string `json:"text"`
}

type MessageContent struct {
	Conversation        string               `json:"conversation"`
	ExtendedTextMessage *ExtendedTextMessage `json:"extendedTextMessage"`
}

type MessageData struct {
	Key              MessageKey      `json:"key"`
	PushName         string          `json:"pushName"`
	Message          *MessageContent `json:"message"`
	MessageType      string          `json:"messageType"`
	MessageTimestamp Timestamp       `json:"messageTimestamp"`
}

// Text returns the plain text body of a message, or "" for non-text content.
func (d MessageData) Text() string {
	if d.Message == nil {
		return ""
	}
	if d.Message.Conversation != "" {
		return d.Message.Conversation
	}
	if d.Message.ExtendedTextMessage != nil {
		return d.Message.ExtendedTextMessage.Text
	}
	return ""
}

// Timestamp is a unix time in seconds. The gateway sends it as a number,
// a quoted number, or a protobuf Long object.
type Timestamp int64

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = 0
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*t = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*t = Timestamp(n)
	case '{':
		var long struct {
			Low  uint32 `json:"low"`
			High int32  `json:"high"`
		}
		if err := json.Unmarshal(b, &long); err != nil {
			return err
		}
		*t = Timestamp(int64(long.High)<<32 | int64(long.Low))
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return err
		}
		*t = Timestamp(int64(f))
	}
	return nil
}

// Time converts to time.Time, falling back to fallback when unset.
func (t Timestamp) Time(fallback time.Time) time.Time {
	if t <= 0 {
		return fallback
	}
	return time.Unix(int64(t), 0).UTC()
}

type ConnectionData struct {
	Instance     string `json:"instance"`
	State        string `json:"state"`
	StatusReason int    `json:"statusReason"`
}

type QRCodeData struct {
	Instance string `json:"instance"`
	QRCode   struct {
		Instance    string `json:"instance"`
		PairingCode string `json:"pairingCode"`
		Code        string `json:"code"`
		Base64      string `json:"base64"`
	} `json:"qrcode"`
}

type Outcome string

const (
	OutcomeSuccess   Outcome = "SUCCESS"
	OutcomeIgnored   Outcome = "IGNORED"
	OutcomeDuplicate Outcome = "DUPLICATE"
)

type Result struct {
	Outcome        Outcome `json:"outcome"`
	Message        string  `json:"message"`
	ConversationID string  `json:"conversation_id,omitempty"`
	MessageID      string  `json:"message_id,omitempty"`
	Replied        bool    `json:"replied"`
}

// Live feed event names.
const (
	LiveMessageReceived  = "MESSAGE_RECEIVED"
	LiveMessageSent      = "MESSAGE_SENT"
	LiveConnectionUpdate = "CONNECTION_UPDATE"
	LiveQRCodeUpdated    = "QRCODE_UPDATED"
	LiveInstanceStatus   = "INSTANCE_STATUS"
)

type LiveEvent struct {
	Type       string `json:"type"`
	InstanceID string `json:"instance_id"`
	Data       any    `json:"data"`
}

// EventPublisher pushes pipeline events to connected dashboards.
type EventPublisher interface {
	Publish(ctx context.Context, evt LiveEvent)
}

type IWebhookUsecase interface {
	Handle(ctx context.Context, payload Payload) (Result, error)
}

// ReplyGenerator produces the automated answer to a client message.
type ReplyGenerator interface {
	Generate(ctx context.Context, systemPrompt, userText string) (string, error)
}

// MessageSender delivers text through the gateway and returns its message id.
type MessageSender interface {
	SendText(ctx context.Context, instance, number, text string) (string, error)
}
