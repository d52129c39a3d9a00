package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/kursadbilgin/asp-relay/internal/repository"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "000001_create_employee_record_notifications",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.NotificationModel{}); err != nil {
					return err
				}
				indexes := []string{
					`CREATE INDEX IF NOT EXISTS idx_ern_status_created ON employee_record_notifications (status, created_at)`,
					`CREATE INDEX IF NOT EXISTS idx_ern_employee_record_id ON employee_record_notifications (employee_record_id)`,
					`CREATE INDEX IF NOT EXISTS idx_ern_batch_filename ON employee_record_notifications (batch_filename) WHERE batch_filename IS NOT NULL`,
				}
				for _, sql := range indexes {
					if err := tx.Exec(sql).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.NotificationModel{})
			},
		},
		{
			ID: "000002_create_transfer_activities",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.TransferActivityModel{}); err != nil {
					return err
				}
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_transfer_activities_filename ON transfer_activities (filename)`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.TransferActivityModel{})
			},
		},
	})

	return m.Migrate()
}
