package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	domainAdmin "github.com/nicdemeagbeve-afk/synapse/domains/admin"
	domainChat "github.com/nicdemeagbeve-afk/synapse/domains/chat"
	domainProfile "github.com/nicdemeagbeve-afk/synapse/domains/profile"
	"github.com/nicdemeagbeve-afk/synapse/integrations/evolution"
	"github.com/nicdemeagbeve-afk/synapse/pkg/logbuffer"
	"github.com/nicdemeagbeve-afk/synapse/pkg/utils"
	"github.com/nicdemeagbeve-afk/synapse/validations"
)

const (
	defaultLogLimit = 100
	maxLogLimit     = 500
)

type adminService struct {
	gateway  Gateway
	chats    domainChat.IChatStore
	profiles domainProfile.IProfileUsecase
	logs     *logbuffer.Buffer
	settings func() map[string]any
	now      func() time.Time
}

func NewAdminService(gateway Gateway, chats domainChat.IChatStore, profiles domainProfile.IProfileUsecase, logs *logbuffer.Buffer, settings func() map[string]any) domainAdmin.IAdminUsecase {
	if logs == nil {
		logs = logbuffer.Default()
	}
	if settings == nil {
		settings = func() map[string]any { return map[string]any{} }
	}
	return &adminService{
		gateway:  gateway,
		chats:    chats,
		profiles: profiles,
		logs:     logs,
		settings: settings,
		now:      time.Now,
	}
}

func (s *adminService) ListInstances(ctx context.Context, filter domainAdmin.InstanceFilter) ([]domainAdmin.InstanceSummary, error) {
	raw, err := s.gateway.FetchInstances(ctx)
	if err != nil {
		return nil, gatewayError("fetch instances", err)
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	status := strings.ToLower(strings.TrimSpace(filter.Status))

	out := make([]domainAdmin.InstanceSummary, 0, len(raw))
	for _, inst := range raw {
		summary := s.toSummary(inst)
		if status != "" && status != "all" && strings.ToLower(string(summary.APIStatus)) != status {
			continue
		}
		if search != "" && !matchesSearch(summary, search) {
			continue
		}
		out = append(out, summary)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *adminService) toSummary(inst evolution.InstanceInfo) domainAdmin.InstanceSummary {
	summary := domainAdmin.InstanceSummary{
		ID:          inst.ID,
		Name:        inst.Name,
		Owner:       utils.ContactNumberFromJID(inst.OwnerJid),
		ProfileName: inst.ProfileName,
		APIStatus:   domainAdmin.APIStatusClosed,
	}
	if summary.ID == "" {
		summary.ID = inst.Name
	}
	if inst.ConnectionStatus == "open" {
		summary.APIStatus = domainAdmin.APIStatusOpen
	}
	if t, err := time.Parse(time.RFC3339Nano, inst.CreatedAt); err == nil {
		summary.CreatedAt = t.UTC()
		summary.CreatedAgo = humanize.RelTime(t, s.now(), "ago", "from now")
	}
	return summary
}

func matchesSearch(s domainAdmin.InstanceSummary, needle string) bool {
	for _, v := range []string{s.ID, s.Name, s.Owner, s.ProfileName} {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func (s *adminService) RestartInstance(ctx context.Context, instanceID string) error {
	return gatewayError("restart instance", s.gateway.Restart(ctx, instanceID))
}

func (s *adminService) LogoutInstance(ctx context.Context, instanceID string) error {
	return gatewayError("logout instance", s.gateway.Logout(ctx, instanceID))
}

func (s *adminService) GetProxy(ctx context.Context, instanceID string) (domainAdmin.Proxy, error) {
	p, err := s.gateway.FindProxy(ctx, instanceID)
	if err != nil {
		return domainAdmin.Proxy{}, gatewayError("find proxy", err)
	}
	return domainAdmin.Proxy{
		Enabled:  p.Enabled,
		Host:     p.Host,
		Port:     p.Port,
		Protocol: p.Protocol,
		Username: p.Username,
	}, nil
}

func (s *adminService) SetProxy(ctx context.Context, instanceID string, proxy domainAdmin.Proxy) (domainAdmin.Proxy, error) {
	if err := validations.ValidateProxy(ctx, &proxy); err != nil {
		return domainAdmin.Proxy{}, err
	}
	err := s.gateway.SetProxy(ctx, instanceID, evolution.Proxy{
		Enabled:  proxy.Enabled,
		Host:     proxy.Host,
		Port:     proxy.Port,
		Protocol: proxy.Protocol,
		Username: proxy.Username,
		Password: proxy.Password,
	})
	if err != nil {
		return domainAdmin.Proxy{}, gatewayError("set proxy", err)
	}
	proxy.Password = ""
	return proxy, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]domainProfile.Profile, error) {
	return s.profiles.List(ctx)
}

func (s *adminService) Logs(_ context.Context, level string, limit int) ([]logbuffer.Entry, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}
	return s.logs.Query(level, time.Time{}, limit), nil
}

func (s *adminService) Overview(ctx context.Context) (domainAdmin.Overview, error) {
	since := s.now().Add(-24 * time.Hour)

	totals, err := s.chats.Totals(ctx, since)
	if err != nil {
		return domainAdmin.Overview{}, err
	}

	overview := domainAdmin.Overview{
		Chat:         totals,
		Instances:    map[domainAdmin.APIStatus]int{domainAdmin.APIStatusOpen: 0, domainAdmin.APIStatusClosed: 0},
		RecentErrors: s.logs.Query("error", since, 50),
		Settings:     s.settings(),
	}

	instances, err := s.gateway.FetchInstances(ctx)
	if err != nil {
		overview.InstancesError = gatewayError("fetch instances", err).Error()
	} else {
		for _, inst := range instances {
			overview.Instances[s.toSummary(inst).APIStatus]++
		}
	}
	return overview, nil
}
