package evolution

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const httpTimeout = 15 * time.Second

var httpClient = &http.Client{Timeout: httpTimeout}

// ErrNotConfigured is returned by every call when URL or key are missing.
var ErrNotConfigured = errors.New("evolution api is not configured")

// DefaultWebhookEvents are subscribed on every instance we create.
var DefaultWebhookEvents = []string{"MESSAGES_UPSERT", "CONNECTION_UPDATE", "QRCODE_UPDATED"}

type Client struct {
	baseURL string
	apiKey  string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

// --- Instance lifecycle ---

func (c *Client) CreateInstance(ctx context.Context, req CreateInstanceRequest) (CreateInstanceResponse, error) {
	if req.Integration == "" {
		req.Integration = "WHATSAPP-BAILEYS"
	}
	var resp CreateInstanceResponse
	err := c.do(ctx, http.MethodPost, "/instance/create", req, &resp)
	return resp, err
}

func (c *Client) Connect(ctx context.Context, instance string) (QRCode, error) {
	var resp QRCode
	err := c.do(ctx, http.MethodGet, "/instance/connect/"+url.PathEscape(instance), nil, &resp)
	return resp, err
}

// ConnectionState returns the raw gateway state: open, connecting or close.
func (c *Client) ConnectionState(ctx context.Context, instance string) (string, error) {
	var resp ConnectionState
	if err := c.do(ctx, http.MethodGet, "/instance/connectionState/"+url.PathEscape(instance), nil, &resp); err != nil {
		return "", err
	}
	return resp.Instance.State, nil
}

func (c *Client) Restart(ctx context.Context, instance string) error {
	return c.do(ctx, http.MethodPut, "/instance/restart/"+url.PathEscape(instance), nil, nil)
}

func (c *Client) Logout(ctx context.Context, instance string) error {
	return c.do(ctx, http.MethodDelete, "/instance/logout/"+url.PathEscape(instance), nil, nil)
}

func (c *Client) DeleteInstance(ctx context.Context, instance string) error {
	return c.do(ctx, http.MethodDelete, "/instance/delete/"+url.PathEscape(instance), nil, nil)
}

func (c *Client) FetchInstances(ctx context.Context) ([]InstanceInfo, error) {
	var raw []InstanceInfo
	if err := c.do(ctx, http.MethodGet, "/instance/fetchInstances", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]InstanceInfo, 0, len(raw))
	for _, inst := range raw {
		out = append(out, inst.Normalize())
	}
	return out, nil
}

// --- Settings & proxy ---

func (c *Client) SetSettings(ctx context.Context, instance string, s Settings) error {
	return c.do(ctx, http.MethodPost, "/settings/set/"+url.PathEscape(instance), s, nil)
}

func (c *Client) FindSettings(ctx context.Context, instance string) (Settings, error) {
	var s Settings
	err := c.do(ctx, http.MethodGet, "/settings/find/"+url.PathEscape(instance), nil, &s)
	return s, err
}

func (c *Client) SetProxy(ctx context.Context, instance string, p Proxy) error {
	return c.do(ctx, http.MethodPost, "/proxy/set/"+url.PathEscape(instance), p, nil)
}

func (c *Client) FindProxy(ctx context.Context, instance string) (Proxy, error) {
	var p Proxy
	err := c.do(ctx, http.MethodGet, "/proxy/find/"+url.PathEscape(instance), nil, &p)
	return p, err
}

// --- Messaging ---

// SendText sends text to number and returns the gateway message id, if any.
func (c *Client) SendText(ctx context.Context, instance, number, text string) (string, error) {
	var resp SendResult
	if err := c.do(ctx, http.MethodPost, "/message/sendText/"+url.PathEscape(instance), sendTextRequest{Number: number, Text: text}, &resp); err != nil {
		return "", err
	}
	return resp.Key.ID, nil
}

func (c *Client) CreateGroup(ctx context.Context, instance string, req CreateGroupRequest) (GroupInfo, error) {
	var resp GroupInfo
	err := c.do(ctx, http.MethodPost, "/group/create/"+url.PathEscape(instance), req, &resp)
	return resp, err
}

// --- HELPERS ---

func (c *Client) do(ctx context.Context, method, path string, body interface{}, dest interface{}) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	start := time.Now()
	err := jsonRequest(ctx, method, c.baseURL+path, c.apiKey, body, dest)
	entry := logrus.WithFields(logrus.Fields{"method": method, "path": path, "duration_ms": time.Since(start).Milliseconds()})
	if err != nil {
		entry.WithError(err).Warn("[EVOLUTION] request failed")
		return err
	}
	entry.Debug("[EVOLUTION] request ok")
	return nil
}

func jsonRequest(ctx context.Context, method, endpoint, apiKey string, body interface{}, dest interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("apikey", apiKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(truncate(data, 512))}
	}

	if dest != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, dest); err != nil {
			return fmt.Errorf("failed to decode evolution response: %w", err)
		}
	}
	return nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
