package storage

import (
	"context"
	"time"

	domainPrompt "github.com/nicdemeagbeve-afk/synapse/domains/prompt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PromptGormRepository struct {
	db *gorm.DB
}

func NewPromptGormRepository(db *gorm.DB) *PromptGormRepository {
	return &PromptGormRepository{db: db}
}

var _ domainPrompt.IPromptStore = (*PromptGormRepository)(nil)

func (r *PromptGormRepository) Get(ctx context.Context, instanceID string) (domainPrompt.Config, error) {
	var m promptModel
	if err := r.db.WithContext(ctx).First(&m, "instance_id = ?", instanceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domainPrompt.Config{}, notFound("get prompt", ErrPromptNotFound)
		}
		return domainPrompt.Config{}, classify("get prompt", err)
	}
	return m.toDomain(), nil
}

func (r *PromptGormRepository) Upsert(ctx context.Context, cfg domainPrompt.Config) (domainPrompt.Config, error) {
	model := promptModel{
		InstanceID:          cfg.InstanceID,
		Prompt:              cfg.MainPrompt,
		IgnoreCalls:         cfg.IgnoreCalls,
		IgnoreGroupMessages: cfg.IgnoreGroupMessages,
		UpdatedAt:           time.Now().UTC(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "instance_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"prompt", "ignore_calls", "ignore_group_messages", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		return domainPrompt.Config{}, classify("upsert prompt", err)
	}
	return model.toDomain(), nil
}
