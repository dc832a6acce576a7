package websocket

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	domainProfile "github.com/nicdemeagbeve-afk/synapse/domains/profile"
	domainWebhook "github.com/nicdemeagbeve-afk/synapse/domains/webhook"
	"github.com/nicdemeagbeve-afk/synapse/infrastructure/valkey"
	"github.com/nicdemeagbeve-afk/synapse/ui/rest/middleware"
	"github.com/sirupsen/logrus"
)

const broadcastChannel = "ws_broadcast"

type BroadcastMessage struct {
	Code       string `json:"code"`
	InstanceID string `json:"instance_id,omitempty"`
	Result     any    `json:"result"`
	SenderID   string `json:"sender_id,omitempty"`
}

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type subscriber struct {
	instanceID string
	admin      bool
}

type registration struct {
	conn Conn
	sub  subscriber
}

// Hub fans live events out to dashboards. Each connection only sees its own
// instance unless it belongs to an admin. With Valkey configured, events are
// relayed to the hubs of the other servers.
type Hub struct {
	clients    map[Conn]subscriber
	register   chan registration
	unregister chan Conn
	broadcast  chan BroadcastMessage
	remote     chan BroadcastMessage

	done       chan struct{}

	vk       *valkey.Client
	serverID string
}

var _ domainWebhook.EventPublisher = (*Hub)(nil)

func NewHub(vk *valkey.Client, serverID string) *Hub {
	return &Hub{
		clients:    make(map[Conn]subscriber),
		register:   make(chan registration),
		unregister: make(chan Conn),
		broadcast:  make(chan BroadcastMessage, 256),
		remote:     make(chan BroadcastMessage, 256),
		done:       make(chan struct{}),
		vk:         vk,
		serverID:   serverID,
	}
}

// Publish never blocks the caller; events are dropped when the hub is
// saturated.
func (h *Hub) Publish(_ context.Context, evt domainWebhook.LiveEvent) {
	msg := BroadcastMessage{Code: evt.Type, InstanceID: evt.InstanceID, Result: evt.Data}
	select {
	case h.broadcast <- msg:
	default:
		logrus.WithField("code", evt.Type).Warn("[WS] broadcast queue full, event dropped")
	}
}

func (h *Hub) Register(conn Conn, instanceID string, admin bool) {
	select {
	case h.register <- registration{conn: conn, sub: subscriber{instanceID: instanceID, admin: admin}}:
	case <-h.done:
		_ = conn.Close()
	}
}

func (h *Hub) Unregister(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Run owns the client map until ctx is cancelled. It must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	if h.vk != nil {
		go h.subscribe(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			for conn := range h.clients {
				h.closeConnection(conn)
			}
			return

		case reg := <-h.register:
			h.clients[reg.conn] = reg.sub
			logrus.WithField("instance_id", reg.sub.instanceID).Debug("[WS] connection registered")

		case conn := <-h.unregister:
			delete(h.clients, conn)
			logrus.Debug("[WS] connection unregistered")

		case msg := <-h.broadcast:
			h.deliver(msg)
			h.publishRemote(ctx, msg)

		case msg := <-h.remote:
			h.deliver(msg)
		}
	}
}

func (h *Hub) deliver(msg BroadcastMessage) {
	msg.SenderID = ""
	data, err := json.Marshal(msg)
	if err != nil {
		logrus.Errorf("[WS] marshal error: %v", err)
		return
	}

	for conn, sub := range h.clients {
		if !sub.admin && sub.instanceID != msg.InstanceID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logrus.Debugf("[WS] write error: %v", err)
			h.closeConnection(conn)
		}
	}
}

func (h *Hub) publishRemote(ctx context.Context, msg BroadcastMessage) {
	if h.vk == nil {
		return
	}
	msg.SenderID = h.serverID
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := h.vk.Publish(ctx, broadcastChannel, data); err != nil {
		logrus.Errorf("[WS] failed to publish to Valkey: %v", err)
	}
}

func (h *Hub) subscribe(ctx context.Context) {
	logrus.Info("[WS] starting Valkey pub/sub subscriber for cross-server events")
	err := h.vk.Subscribe(ctx, broadcastChannel, func(payload []byte) {
		var msg BroadcastMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			return
		}
		// our own publications come back through the channel
		if msg.SenderID == h.serverID {
			return
		}
		select {
		case h.remote <- msg:
		default:
			logrus.Warn("[WS] remote queue full, event dropped")
		}
	})
	if err != nil && ctx.Err() == nil {
		logrus.Errorf("[WS] Valkey subscriber stopped: %v", err)
	}
}

func (h *Hub) closeConnection(conn Conn) {
	_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
	_ = conn.Close()
	delete(h.clients, conn)
}

// RegisterRoutes mounts GET /ws. It must sit behind middleware.Auth.
func RegisterRoutes(app fiber.Router, hub *Hub, profiles domainProfile.IProfileUsecase) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return c.SendStatus(fiber.StatusUpgradeRequired)
		}
		isAdmin, err := middleware.ResolveAdmin(c, profiles)
		if err != nil {
			logrus.WithError(err).Warn("[WS] could not resolve role, treating caller as a regular user")
		}
		c.Locals("ws_instance_id", middleware.UserID(c))
		c.Locals("ws_admin", isAdmin)
		return c.Next()
	})

	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		instanceID, _ := conn.Locals("ws_instance_id").(string)
		admin, _ := conn.Locals("ws_admin").(bool)

		hub.Register(conn, instanceID, admin)
		defer hub.Unregister(conn)

		// The feed is server to client; reads only detect the close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logrus.Debugf("[WS] read error: %v", err)
				}
				return
			}
		}
	}))
}
