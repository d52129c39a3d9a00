package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle state of an employee record notification.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusSent      Status = "SENT"
	StatusProcessed Status = "PROCESSED"
	StatusError     Status = "ERROR"
	StatusDisabled  Status = "DISABLED"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusSent, StatusProcessed, StatusError, StatusDisabled:
		return true
	}
	return false
}

func ParseStatusFromString(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid status %q", ErrValidation, s)
	}
	return st, nil
}

// Movement represents the ASP change type carried by a notification.
type Movement string

const (
	MovementCreation Movement = "C"
	MovementUpdate   Movement = "M"
)

func (m Movement) String() string { return string(m) }

func (m Movement) IsValid() bool {
	switch m {
	case MovementCreation, MovementUpdate:
		return true
	}
	return false
}

func ParseMovementFromString(s string) (Movement, error) {
	m := Movement(strings.ToUpper(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("%w: invalid movement %q", ErrValidation, s)
	}
	return m, nil
}

// SIRET identifiers are 14 digits.
const SiretLength = 14

// Notification is the core domain entity: one pending change to an
// employee record, awaiting transmission to ASP.
type Notification struct {
	ID               string   `gorm:"type:uuid;primaryKey"`
	EmployeeRecordID string   `gorm:"type:varchar(36);not null"`
	Movement         Movement `gorm:"type:varchar(1);not null"`
	Status           Status   `gorm:"type:varchar(20);not null"`

	// Employee and contract payload serialized to the ASP wire format.
	Siret           string     `gorm:"type:varchar(14);not null"`
	Measure         string     `gorm:"type:varchar(10);not null"`
	ApprovalNumber  string     `gorm:"type:varchar(15);not null"`
	ApprovalStart   *time.Time `gorm:"type:date"`
	ApprovalEnd     *time.Time `gorm:"type:date"`
	LastName        string     `gorm:"type:varchar(100);not null"`
	FirstName       string     `gorm:"type:varchar(100);not null"`
	BirthDate       *time.Time `gorm:"type:date"`
	ContractStart   *time.Time `gorm:"type:date"`
	ContractEnd     *time.Time `gorm:"type:date"`
	BatchFilename   *string    `gorm:"type:varchar(64)"`
	ProcessingCode  *string    `gorm:"type:varchar(4)"`
	ProcessingLabel *string    `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (n *Notification) Validate() error {
	if n.EmployeeRecordID == "" {
		return fmt.Errorf("%w: employee record id is required", ErrValidation)
	}
	if !n.Movement.IsValid() {
		return fmt.Errorf("%w: invalid movement %q", ErrValidation, n.Movement)
	}
	if len(n.Siret) != SiretLength {
		return fmt.Errorf("%w: SIRET must be %d digits (got %d)", ErrValidation, SiretLength, len(n.Siret))
	}
	if n.ApprovalNumber == "" {
		return fmt.Errorf("%w: approval number is required", ErrValidation)
	}
	if n.LastName == "" {
		return fmt.Errorf("%w: last name is required", ErrValidation)
	}
	if n.FirstName == "" {
		return fmt.Errorf("%w: first name is required", ErrValidation)
	}
	return nil
}

// Sendable reports whether the notification is still eligible for a batch.
func (n *Notification) Sendable() bool {
	return n.Status == StatusNew
}
