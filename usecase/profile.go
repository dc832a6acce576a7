package usecase

import (
	"context"

	domainProfile "github.com/nicdemeagbeve-afk/synapse/domains/profile"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"github.com/nicdemeagbeve-afk/synapse/validations"
)

type profileService struct {
	store domainProfile.IProfileStore
}

func NewProfileService(store domainProfile.IProfileStore) domainProfile.IProfileUsecase {
	return &profileService{store: store}
}

func (s *profileService) Get(ctx context.Context, userID, email string) (domainProfile.Profile, error) {
	p, err := s.store.Get(ctx, userID)
	if err != nil {
		if !pkgError.IsNotFound(err) {
			return domainProfile.Profile{}, err
		}
		p = domainProfile.Profile{ID: userID, Role: domainProfile.RoleUser}
	}
	p.Email = email
	return p, nil
}

func (s *profileService) Update(ctx context.Context, userID, email string, req domainProfile.UpdateRequest) (domainProfile.Profile, error) {
	if err := validations.ValidateUpdateProfile(ctx, &req); err != nil {
		return domainProfile.Profile{}, err
	}

	p, err := s.store.Upsert(ctx, domainProfile.Profile{
		ID:          userID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Age:         req.Age,
		Country:     req.Country,
	})
	if err != nil {
		return domainProfile.Profile{}, err
	}
	p.Email = email
	return p, nil
}

func (s *profileService) List(ctx context.Context) ([]domainProfile.Profile, error) {
	return s.store.List(ctx)
}

func (s *profileService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	p, err := s.store.Get(ctx, userID)
	if err != nil {
		if pkgError.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return p.Role == domainProfile.RoleAdmin, nil
}
