package asp

import (
	"fmt"
	"time"

	"github.com/kursadbilgin/asp-relay/internal/domain"
)

// ASP date fields use the French day-first convention.
const dateLayout = "02/01/2006"

// FileEnvelope is the top-level structure of an uploaded batch file.
type FileEnvelope struct {
	TelID   string `json:"telId"`
	LineCnt int    `json:"nbLignes"`
	Lines   []Line `json:"lignesTelechargement"`
}

// Line is one employee record notification in the ASP wire format.
type Line struct {
	LineNumber     int            `json:"numLigne"`
	NotificationID string         `json:"idTelechargement"`
	Movement       string         `json:"typeMouvement"`
	Siret          string         `json:"siret"`
	Measure        string         `json:"mesure"`
	Person         PersonSection  `json:"personnePhysique"`
	Contract       *ContractSection `json:"contrat,omitempty"`
}

// PersonSection carries the approval ("PASS IAE") and identity fields.
type PersonSection struct {
	PassID    string `json:"passIdentifiant"`
	PassStart string `json:"passDateDeb"`
	PassEnd   string `json:"passDateFin"`
	LastName  string `json:"nomUsage"`
	FirstName string `json:"prenom"`
	BirthDate string `json:"dateNaissance,omitempty"`
}

// ContractSection carries hiring contract dates when known.
type ContractSection struct {
	HiringDate string `json:"dateEmbauche"`
	EndDate    string `json:"dateFinContrat,omitempty"`
}

// SerializationError reports why one notification could not be converted
// to the wire format, with enough context to diagnose without re-running.
type SerializationError struct {
	Kind       string
	ObjectID   string
	Serializer string
	Field      string
	Cause      error
}

func (e *SerializationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("serialization of %s %s failed: serializer=%s field=%s: %v",
		e.Kind, e.ObjectID, e.Serializer, e.Field, e.Cause)
}

func (e *SerializationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NotificationSerializer converts domain notifications to ASP wire lines.
type NotificationSerializer struct{}

func NewNotificationSerializer() *NotificationSerializer {
	return &NotificationSerializer{}
}

func (s *NotificationSerializer) Name() string { return "NotificationSerializer" }

// Serialize converts one notification. Required date fields that are
// unset surface as a SerializationError naming the wire field.
func (s *NotificationSerializer) Serialize(n *domain.Notification, lineNumber int) (*Line, error) {
	if n == nil {
		return nil, s.fail("", "", fmt.Errorf("nil notification"))
	}

	passStart, err := s.requireDate(n, "passDateDeb", n.ApprovalStart)
	if err != nil {
		return nil, err
	}
	passEnd, err := s.requireDate(n, "passDateFin", n.ApprovalEnd)
	if err != nil {
		return nil, err
	}

	line := &Line{
		LineNumber:     lineNumber,
		NotificationID: n.ID,
		Movement:       n.Movement.String(),
		Siret:          n.Siret,
		Measure:        n.Measure,
		Person: PersonSection{
			PassID:    n.ApprovalNumber,
			PassStart: passStart,
			PassEnd:   passEnd,
			LastName:  n.LastName,
			FirstName: n.FirstName,
		},
	}

	if n.BirthDate != nil {
		line.Person.BirthDate = n.BirthDate.Format(dateLayout)
	}

	if n.ContractStart != nil {
		contract := &ContractSection{HiringDate: n.ContractStart.Format(dateLayout)}
		if n.ContractEnd != nil {
			contract.EndDate = n.ContractEnd.Format(dateLayout)
		}
		line.Contract = contract
	}

	return line, nil
}

func (s *NotificationSerializer) requireDate(n *domain.Notification, field string, value *time.Time) (string, error) {
	if value == nil {
		return "", s.fail(n.ID, field, fmt.Errorf("'Notification' object has no value for field '%s'", field))
	}
	return value.Format(dateLayout), nil
}

func (s *NotificationSerializer) fail(objectID, field string, cause error) *SerializationError {
	return &SerializationError{
		Kind:       "Notification",
		ObjectID:   objectID,
		Serializer: s.Name(),
		Field:      field,
		Cause:      cause,
	}
}
