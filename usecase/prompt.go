package usecase

import (
	"context"

	domainPrompt "github.com/nicdemeagbeve-afk/synapse/domains/prompt"
	"github.com/nicdemeagbeve-afk/synapse/infrastructure/cache"
	"github.com/nicdemeagbeve-afk/synapse/integrations/evolution"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"github.com/nicdemeagbeve-afk/synapse/validations"
	"github.com/sirupsen/logrus"
)

type promptService struct {
	store         domainPrompt.IPromptStore
	cache         cache.Store
	gateway       Gateway
	defaultPrompt string
}

func NewPromptService(store domainPrompt.IPromptStore, c cache.Store, gateway Gateway, defaultPrompt string) domainPrompt.IPromptUsecase {
	if c == nil {
		c = cache.NewMemoryStore()
	}
	return &promptService{store: store, cache: c, gateway: gateway, defaultPrompt: defaultPrompt}
}

func (s *promptService) defaults(instanceID string) domainPrompt.Config {
	return domainPrompt.Config{
		InstanceID: instanceID,
		MainPrompt: s.defaultPrompt,
		IsDefault:  true,
	}
}

func (s *promptService) Get(ctx context.Context, instanceID string) (domainPrompt.Config, error) {
	var cached domainPrompt.Config
	if found, err := s.cache.Get(ctx, cache.PromptKey(instanceID), &cached); err == nil && found {
		return cached, nil
	}

	cfg, err := s.store.Get(ctx, instanceID)
	if err != nil {
		if !pkgError.IsNotFound(err) {
			return domainPrompt.Config{}, err
		}
		cfg = s.defaults(instanceID)
	}

	if err := s.cache.Set(ctx, cache.PromptKey(instanceID), cfg, cache.PromptTTL); err != nil {
		logrus.WithError(err).Warn("[PROMPT] failed to cache prompt configuration")
	}
	return cfg, nil
}

func (s *promptService) Resolve(ctx context.Context, instanceID string) domainPrompt.Config {
	cfg, err := s.Get(ctx, instanceID)
	if err != nil {
		logrus.WithError(err).WithField("instance_id", instanceID).Warn("[PROMPT] lookup failed, using default prompt")
		return s.defaults(instanceID)
	}
	return cfg
}

func (s *promptService) Save(ctx context.Context, instanceID string, req domainPrompt.SaveRequest) (domainPrompt.SaveResult, error) {
	if err := validations.ValidateSavePrompt(ctx, &req); err != nil {
		return domainPrompt.SaveResult{}, err
	}

	saved, err := s.store.Upsert(ctx, domainPrompt.Config{
		InstanceID:          instanceID,
		MainPrompt:          req.MainPrompt,
		IgnoreCalls:         req.IgnoreCalls,
		IgnoreGroupMessages: req.IgnoreGroupMessages,
	})
	if err != nil {
		return domainPrompt.SaveResult{}, err
	}

	if err := s.cache.Delete(ctx, cache.PromptKey(instanceID)); err != nil {
		logrus.WithError(err).Warn("[PROMPT] failed to invalidate cached prompt")
	}

	result := domainPrompt.SaveResult{Config: saved}
	if err := s.syncGatewaySettings(ctx, instanceID, req); err != nil {
		logrus.WithError(err).WithField("instance_id", instanceID).Warn("[PROMPT] gateway settings sync failed")
		result.SyncError = err.Error()
	} else {
		result.GatewaySynced = true
	}
	return result, nil
}

// syncGatewaySettings pushes the call/group flags while keeping the other
// gateway settings as they are.
func (s *promptService) syncGatewaySettings(ctx context.Context, instanceID string, req domainPrompt.SaveRequest) error {
	if s.gateway == nil || !s.gateway.Configured() {
		return evolution.ErrNotConfigured
	}

	current, err := s.gateway.FindSettings(ctx, instanceID)
	if err != nil {
		logrus.WithError(err).Debug("[PROMPT] could not read gateway settings, sending defaults")
		current = evolution.Settings{}
	}
	current.RejectCall = req.IgnoreCalls
	current.GroupsIgnore = req.IgnoreGroupMessages

	return s.gateway.SetSettings(ctx, instanceID, current)
}
