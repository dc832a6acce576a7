package usecase

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	domainInstance "github.com/nicdemeagbeve-afk/synapse/domains/instance"
	"github.com/nicdemeagbeve-afk/synapse/infrastructure/cache"
	"github.com/nicdemeagbeve-afk/synapse/integrations/evolution"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"github.com/nicdemeagbeve-afk/synapse/pkg/utils"
	"github.com/nicdemeagbeve-afk/synapse/validations"
	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
)

type instanceService struct {
	gateway    Gateway
	cache      cache.Store
	webhookURL string
}

func NewInstanceService(gateway Gateway, c cache.Store, webhookURL string) domainInstance.IInstanceUsecase {
	if c == nil {
		c = cache.NewMemoryStore()
	}
	return &instanceService{gateway: gateway, cache: c, webhookURL: webhookURL}
}

func (s *instanceService) Create(ctx context.Context, instanceID string) (domainInstance.CreateResult, error) {
	req := evolution.CreateInstanceRequest{
		InstanceName: instanceID,
		QRCode:       true,
		Integration:  "WHATSAPP-BAILEYS",
	}
	if s.webhookURL != "" {
		req.Webhook = &evolution.WebhookConfig{
			URL:      s.webhookURL,
			ByEvents: false,
			Base64:   true,
			Events:   evolution.DefaultWebhookEvents,
		}
	} else {
		logrus.WithField("instance_id", instanceID).Warn("[INSTANCE] WEBHOOK_PUBLIC_URL is empty, creating instance without webhook")
	}

	resp, err := s.gateway.CreateInstance(ctx, req)
	if err != nil {
		return domainInstance.CreateResult{}, gatewayError("create instance", err)
	}

	result := domainInstance.CreateResult{
		InstanceID: instanceID,
		Status:     resp.Instance.Status,
		WebhookURL: s.webhookURL,
	}
	if resp.QRCode != nil {
		if qr, err := s.toQRCode(instanceID, *resp.QRCode, "gateway"); err == nil {
			s.cacheQRCode(ctx, qr)
			result.QRCode = &qr
		}
	}
	s.cacheState(ctx, domainInstance.StateInfo{InstanceID: instanceID, State: domainInstance.StatePending, Raw: "connecting", UpdatedAt: time.Now().UTC()})
	return result, nil
}

func (s *instanceService) QRCode(ctx context.Context, instanceID string) (domainInstance.QRCode, error) {
	var cached domainInstance.QRCode
	if found, err := s.cache.Get(ctx, cache.QRCodeKey(instanceID), &cached); err == nil && found && cached.Base64 != "" {
		return cached, nil
	}

	raw, err := s.gateway.Connect(ctx, instanceID)
	if err != nil {
		return domainInstance.QRCode{}, gatewayError("connect instance", err)
	}

	qr, err := s.toQRCode(instanceID, raw, "gateway")
	if err != nil {
		return domainInstance.QRCode{}, err
	}
	s.cacheQRCode(ctx, qr)
	return qr, nil
}

// toQRCode prefers the gateway image and renders one from the pairing
// payload when only that is present.
func (s *instanceService) toQRCode(instanceID string, raw evolution.QRCode, source string) (domainInstance.QRCode, error) {
	qr := domainInstance.QRCode{
		InstanceID:  instanceID,
		Base64:      raw.Base64,
		Code:        raw.Code,
		PairingCode: raw.PairingCode,
		Source:      source,
		FetchedAt:   time.Now().UTC(),
	}
	if qr.Base64 != "" {
		return qr, nil
	}
	if qr.Code == "" {
		return qr, pkgError.NotFoundError("no QR code available, the instance may already be connected")
	}

	img, err := RenderQRCode(qr.Code)
	if err != nil {
		return qr, pkgError.InternalServerError("failed to render QR code: " + err.Error())
	}
	qr.Base64 = img
	qr.Source = "rendered"
	return qr, nil
}

// RenderQRCode encodes content as a PNG data URL.
func RenderQRCode(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

func (s *instanceService) State(ctx context.Context, instanceID string) (domainInstance.StateInfo, error) {
	raw, err := s.gateway.ConnectionState(ctx, instanceID)
	if err != nil {
		var cached domainInstance.StateInfo
		if found, cerr := s.cache.Get(ctx, cache.StateKey(instanceID), &cached); cerr == nil && found {
			cached.Stale = true
			return cached, nil
		}
		return domainInstance.StateInfo{}, gatewayError("connection state", err)
	}

	info := domainInstance.StateInfo{
		InstanceID: instanceID,
		State:      domainInstance.StateFromGateway(raw),
		Raw:        raw,
		UpdatedAt:  time.Now().UTC(),
	}
	s.cacheState(ctx, info)
	return info, nil
}

func (s *instanceService) Restart(ctx context.Context, instanceID string) error {
	if err := s.gateway.Restart(ctx, instanceID); err != nil {
		return gatewayError("restart instance", err)
	}
	return nil
}

func (s *instanceService) Logout(ctx context.Context, instanceID string) error {
	if err := s.gateway.Logout(ctx, instanceID); err != nil {
		return gatewayError("logout instance", err)
	}
	s.forget(ctx, instanceID)
	return nil
}

func (s *instanceService) Delete(ctx context.Context, instanceID string) error {
	if err := s.gateway.DeleteInstance(ctx, instanceID); err != nil {
		return gatewayError("delete instance", err)
	}
	s.forget(ctx, instanceID)
	return nil
}

func (s *instanceService) CreateGroup(ctx context.Context, instanceID string, req domainInstance.CreateGroupRequest) (domainInstance.Group, error) {
	if err := validations.ValidateCreateGroup(ctx, &req); err != nil {
		return domainInstance.Group{}, err
	}

	participants := make([]string, 0, len(req.Participants))
	for _, p := range req.Participants {
		participants = append(participants, utils.NumberToJID(p))
	}

	info, err := s.gateway.CreateGroup(ctx, instanceID, evolution.CreateGroupRequest{
		Subject:      req.GroupName,
		Description:  strings.TrimSpace(req.Description),
		Participants: participants,
	})
	if err != nil {
		return domainInstance.Group{}, gatewayError("create group", err)
	}

	group := domainInstance.Group{
		ID:           info.ID,
		Subject:      info.Subject,
		Description:  info.Desc,
		Participants: participants,
	}
	if group.Subject == "" {
		group.Subject = req.GroupName
	}
	logrus.WithFields(logrus.Fields{"instance_id": instanceID, "group_id": group.ID}).Info("[INSTANCE] group created")
	return group, nil
}

func (s *instanceService) cacheQRCode(ctx context.Context, qr domainInstance.QRCode) {
	if err := s.cache.Set(ctx, cache.QRCodeKey(qr.InstanceID), qr, cache.QRCodeTTL); err != nil {
		logrus.WithError(err).Warn("[INSTANCE] failed to cache QR code")
	}
}

func (s *instanceService) cacheState(ctx context.Context, info domainInstance.StateInfo) {
	if err := s.cache.Set(ctx, cache.StateKey(info.InstanceID), info, cache.StateTTL); err != nil {
		logrus.WithError(err).Warn("[INSTANCE] failed to cache connection state")
	}
}

func (s *instanceService) forget(ctx context.Context, instanceID string) {
	_ = s.cache.Delete(ctx, cache.QRCodeKey(instanceID))
	s.cacheState(ctx, domainInstance.StateInfo{
		InstanceID: instanceID,
		State:      domainInstance.StateDisconnected,
		Raw:        "close",
		UpdatedAt:  time.Now().UTC(),
	})
}
