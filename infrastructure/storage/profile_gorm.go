package storage

import (
	"context"
	"time"

	domainProfile "github.com/nicdemeagbeve-afk/synapse/domains/profile"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileGormRepository struct {
	db *gorm.DB
}

func NewProfileGormRepository(db *gorm.DB) *ProfileGormRepository {
	return &ProfileGormRepository{db: db}
}

var _ domainProfile.IProfileStore = (*ProfileGormRepository)(nil)

func (r *ProfileGormRepository) Get(ctx context.Context, id string) (domainProfile.Profile, error) {
	var m profileModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domainProfile.Profile{}, notFound("get profile", ErrProfileNotFound)
		}
		return domainProfile.Profile{}, classify("get profile", err)
	}
	return m.toDomain(), nil
}

func (r *ProfileGormRepository) Upsert(ctx context.Context, p domainProfile.Profile) (domainProfile.Profile, error) {
	role := p.Role
	if role == "" {
		role = domainProfile.RoleUser
	}
	now := time.Now().UTC()
	model := profileModel{
		ID:          p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		PhoneNumber: p.PhoneNumber,
		Age:         p.Age,
		Country:     p.Country,
		Role:        string(role),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// role is only written on insert.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "phone_number", "age", "country", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		return domainProfile.Profile{}, classify("upsert profile", err)
	}
	return r.Get(ctx, p.ID)
}

func (r *ProfileGormRepository) List(ctx context.Context) ([]domainProfile.Profile, error) {
	var models []profileModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, classify("list profiles", err)
	}
	out := make([]domainProfile.Profile, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}
