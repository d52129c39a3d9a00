package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/kursadbilgin/asp-relay/internal/domain"
)

// RecordEvent is the broker payload announcing one employee record change.
type RecordEvent struct {
	EmployeeRecordID string          `json:"employeeRecordId"`
	Movement         domain.Movement `json:"movement"`
	Siret            string          `json:"siret"`
	Measure          string          `json:"measure"`
	ApprovalNumber   string          `json:"approvalNumber"`
	ApprovalStart    *time.Time      `json:"approvalStart,omitempty"`
	ApprovalEnd      *time.Time      `json:"approvalEnd,omitempty"`
	LastName         string          `json:"lastName"`
	FirstName        string          `json:"firstName"`
	BirthDate        *time.Time      `json:"birthDate,omitempty"`
	ContractStart    *time.Time      `json:"contractStart,omitempty"`
	ContractEnd      *time.Time      `json:"contractEnd,omitempty"`
}

func (e RecordEvent) Validate() error {
	if strings.TrimSpace(e.EmployeeRecordID) == "" {
		return fmt.Errorf("employeeRecordId is required")
	}
	if !e.Movement.IsValid() {
		return fmt.Errorf("invalid movement %q", e.Movement)
	}
	if len(e.Siret) != domain.SiretLength {
		return fmt.Errorf("siret must be %d digits", domain.SiretLength)
	}
	if strings.TrimSpace(e.ApprovalNumber) == "" {
		return fmt.Errorf("approvalNumber is required")
	}
	return nil
}

// ToNotification converts the event to a NEW domain notification.
func (e RecordEvent) ToNotification() *domain.Notification {
	return &domain.Notification{
		EmployeeRecordID: e.EmployeeRecordID,
		Movement:         e.Movement,
		Status:           domain.StatusNew,
		Siret:            e.Siret,
		Measure:          e.Measure,
		ApprovalNumber:   e.ApprovalNumber,
		ApprovalStart:    e.ApprovalStart,
		ApprovalEnd:      e.ApprovalEnd,
		LastName:         e.LastName,
		FirstName:        e.FirstName,
		BirthDate:        e.BirthDate,
		ContractStart:    e.ContractStart,
		ContractEnd:      e.ContractEnd,
	}
}
