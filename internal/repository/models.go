package repository

import (
	"time"

	"github.com/kursadbilgin/asp-relay/internal/domain"
)

// NotificationModel is the persistence model for the employee_record_notifications table.
type NotificationModel struct {
	ID               string           `gorm:"type:uuid;primaryKey"`
	EmployeeRecordID string           `gorm:"type:varchar(36);not null"`
	Movement         domain.Movement  `gorm:"type:varchar(1);not null"`
	Status           domain.Status    `gorm:"type:varchar(20);not null"`
	Siret            string           `gorm:"type:varchar(14);not null"`
	Measure          string           `gorm:"type:varchar(10);not null"`
	ApprovalNumber   string           `gorm:"type:varchar(15);not null"`
	ApprovalStart    *time.Time       `gorm:"type:date"`
	ApprovalEnd      *time.Time       `gorm:"type:date"`
	LastName         string           `gorm:"type:varchar(100);not null"`
	FirstName        string           `gorm:"type:varchar(100);not null"`
	BirthDate        *time.Time       `gorm:"type:date"`
	ContractStart    *time.Time       `gorm:"type:date"`
	ContractEnd      *time.Time       `gorm:"type:date"`
	BatchFilename    *string          `gorm:"type:varchar(64)"`
	ProcessingCode   *string          `gorm:"type:varchar(4)"`
	ProcessingLabel  *string          `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (NotificationModel) TableName() string {
	return "employee_record_notifications"
}

// TransferActivityModel is the persistence model for transfer_activities.
type TransferActivityModel struct {
	ID        string           `gorm:"type:uuid;primaryKey"`
	Filename  string           `gorm:"type:varchar(64);not null"`
	Direction domain.Direction `gorm:"type:varchar(10);not null"`
	Succeeded bool             `gorm:"not null"`
	Detail    *string          `gorm:"type:text"`
	CreatedAt time.Time
}

func (TransferActivityModel) TableName() string {
	return "transfer_activities"
}

func notificationModelFromDomain(n *domain.Notification) *NotificationModel {
	if n == nil {
		return nil
	}
	return &NotificationModel{
		ID:               n.ID,
		EmployeeRecordID: n.EmployeeRecordID,
		Movement:         n.Movement,
		Status:           n.Status,
		Siret:            n.Siret,
		Measure:          n.Measure,
		ApprovalNumber:   n.ApprovalNumber,
		ApprovalStart:    n.ApprovalStart,
		ApprovalEnd:      n.ApprovalEnd,
		LastName:         n.LastName,
		FirstName:        n.FirstName,
		BirthDate:        n.BirthDate,
		ContractStart:    n.ContractStart,
		ContractEnd:      n.ContractEnd,
		BatchFilename:    n.BatchFilename,
		ProcessingCode:   n.ProcessingCode,
		ProcessingLabel:  n.ProcessingLabel,
		CreatedAt:        n.CreatedAt,
		UpdatedAt:        n.UpdatedAt,
	}
}

func notificationModelToDomain(m *NotificationModel) *domain.Notification {
	if m == nil {
		return nil
	}
	return &domain.Notification{
		ID:               m.ID,
		EmployeeRecordID: m.EmployeeRecordID,
		Movement:         m.Movement,
		Status:           m.Status,
		Siret:            m.Siret,
		Measure:          m.Measure,
		ApprovalNumber:   m.ApprovalNumber,
		ApprovalStart:    m.ApprovalStart,
		ApprovalEnd:      m.ApprovalEnd,
		LastName:         m.LastName,
		FirstName:        m.FirstName,
		BirthDate:        m.BirthDate,
		ContractStart:    m.ContractStart,
		ContractEnd:      m.ContractEnd,
		BatchFilename:    m.BatchFilename,
		ProcessingCode:   m.ProcessingCode,
		ProcessingLabel:  m.ProcessingLabel,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func activityModelFromDomain(a *domain.TransferActivity) *TransferActivityModel {
	if a == nil {
		return nil
	}
	return &TransferActivityModel{
		ID:        a.ID,
		Filename:  a.Filename,
		Direction: a.Direction,
		Succeeded: a.Succeeded,
		Detail:    a.Detail,
		CreatedAt: a.CreatedAt,
	}
}

func activityModelToDomain(m *TransferActivityModel) *domain.TransferActivity {
	if m == nil {
		return nil
	}
	return &domain.TransferActivity{
		ID:        m.ID,
		Filename:  m.Filename,
		Direction: m.Direction,
		Succeeded: m.Succeeded,
		Detail:    m.Detail,
		CreatedAt: m.CreatedAt,
	}
}
