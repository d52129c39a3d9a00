package repository

import (
	"context"
	"errors"

	"github.com/kursadbilgin/asp-relay/internal/domain"
	"gorm.io/gorm"
)

// NotificationRepository is the persistence port for employee record
// notifications. The transfer pipeline only ever selects eligible rows
// through FetchPending, keeping it decoupled from query internals.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	GetByEmployeeRecordID(ctx context.Context, employeeRecordID string) (*domain.Notification, error)
	FetchPending(ctx context.Context) ([]*domain.Notification, error)
	MarkSent(ctx context.Context, ids []string, batchFilename string) error
	SetResult(ctx context.Context, id string, status domain.Status, code, label string) error
	Disable(ctx context.Context, id string) error
}

type GormNotificationRepo struct {
	db *gorm.DB
}

func NewGormNotificationRepo(db *gorm.DB) *GormNotificationRepo {
	return &GormNotificationRepo{db: db}
}

func (r *GormNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	model := notificationModelFromDomain(n)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if n != nil {
		*n = *notificationModelToDomain(model)
	}
	return nil
}

func (r *GormNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	var model NotificationModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return notificationModelToDomain(&model), nil
}

func (r *GormNotificationRepo) GetByEmployeeRecordID(ctx context.Context, employeeRecordID string) (*domain.Notification, error) {
	var model NotificationModel
	err := r.db.WithContext(ctx).
		Where("employee_record_id = ?", employeeRecordID).
		Order("created_at DESC").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return notificationModelToDomain(&model), nil
}

// FetchPending returns NEW notifications in creation order. DISABLED
// rows are excluded from batches by construction.
func (r *GormNotificationRepo) FetchPending(ctx context.Context) ([]*domain.Notification, error) {
	var models []NotificationModel
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.StatusNew).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	notifications := make([]*domain.Notification, 0, len(models))
	for i := range models {
		notifications = append(notifications, notificationModelToDomain(&models[i]))
	}

	return notifications, nil
}

// MarkSent transitions the given notifications to SENT and records the
// batch filename that carried them. Only called after the transfer
// layer positively confirmed the upload.
func (r *GormNotificationRepo) MarkSent(ctx context.Context, ids []string, batchFilename string) error {
	if len(ids) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&NotificationModel{}).
		Where("id IN ? AND status = ?", ids, domain.StatusNew).
		Updates(map[string]any{
			"status":         domain.StatusSent,
			"batch_filename": batchFilename,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != int64(len(ids)) {
		return domain.ErrNotFound
	}
	return nil
}

// SetResult applies a feedback outcome (PROCESSED or ERROR) with the
// agency's processing code and label.
func (r *GormNotificationRepo) SetResult(ctx context.Context, id string, status domain.Status, code, label string) error {
	result := r.db.WithContext(ctx).
		Model(&NotificationModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":           status,
			"processing_code":  code,
			"processing_label": label,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Disable excludes a NEW notification from future batches.
func (r *GormNotificationRepo) Disable(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&NotificationModel{}).
		Where("id = ? AND status = ?", id, domain.StatusNew).
		Update("status", domain.StatusDisabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
