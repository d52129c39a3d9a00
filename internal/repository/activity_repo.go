package repository

import (
	"context"

	"github.com/kursadbilgin/asp-relay/internal/domain"
	"gorm.io/gorm"
)

// ActivityRepository stores per-file transfer outcomes for audit.
type ActivityRepository interface {
	Create(ctx context.Context, a *domain.TransferActivity) error
	GetByFilename(ctx context.Context, filename string) ([]domain.TransferActivity, error)
}

type GormActivityRepo struct {
	db *gorm.DB
}

func NewGormActivityRepo(db *gorm.DB) *GormActivityRepo {
	return &GormActivityRepo{db: db}
}

func (r *GormActivityRepo) Create(ctx context.Context, a *domain.TransferActivity) error {
	model := activityModelFromDomain(a)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if a != nil {
		*a = *activityModelToDomain(model)
	}
	return nil
}

func (r *GormActivityRepo) GetByFilename(ctx context.Context, filename string) ([]domain.TransferActivity, error) {
	var models []TransferActivityModel
	err := r.db.WithContext(ctx).
		Where("filename = ?", filename).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	activities := make([]domain.TransferActivity, 0, len(models))
	for i := range models {
		activities = append(activities, *activityModelToDomain(&models[i]))
	}

	return activities, nil
}
