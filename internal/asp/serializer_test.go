package asp

import (
	"strings"
	"testing"
	"time"

	"github.com/kursadbilgin/asp-relay/internal/domain"
)

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func serializableNotification() *domain.Notification {
	return &domain.Notification{
		ID:               "9f0a2c61-0000-4000-8000-000000000007",
		EmployeeRecordID: "er-7",
		Movement:         domain.MovementUpdate,
		Status:           domain.StatusNew,
		Siret:            "33055039301440",
		Measure:          "EI_DC",
		ApprovalNumber:   "999992139048",
		ApprovalStart:    date(2021, time.February, 1),
		ApprovalEnd:      date(2023, time.January, 31),
		LastName:         "DURAND",
		FirstName:        "Maxime",
		BirthDate:        date(1983, time.March, 17),
		ContractStart:    date(2021, time.February, 15),
	}
}

func TestSerializeNotification(t *testing.T) {
	t.Parallel()

	serializer := NewNotificationSerializer()
	line, err := serializer.Serialize(serializableNotification(), 3)
	if err != nil {
		t.Fatalf("Serialize() unexpected error = %v", err)
	}

	if line.LineNumber != 3 {
		t.Errorf("LineNumber = %d, want 3", line.LineNumber)
	}
	if line.Movement != "M" {
		t.Errorf("Movement = %q, want M", line.Movement)
	}
	if line.Person.PassStart != "01/02/2021" {
		t.Errorf("PassStart = %q, want 01/02/2021", line.Person.PassStart)
	}
	if line.Person.PassEnd != "31/01/2023" {
		t.Errorf("PassEnd = %q, want 31/01/2023", line.Person.PassEnd)
	}
	if line.Person.BirthDate != "17/03/1983" {
		t.Errorf("BirthDate = %q, want 17/03/1983", line.Person.BirthDate)
	}
	if line.Contract == nil || line.Contract.HiringDate != "15/02/2021" {
		t.Errorf("Contract = %+v, want hiring date 15/02/2021", line.Contract)
	}
	if line.Contract.EndDate != "" {
		t.Errorf("Contract.EndDate = %q, want empty", line.Contract.EndDate)
	}
}

func TestSerializeNotificationMissingPassStart(t *testing.T) {
	t.Parallel()

	n := serializableNotification()
	n.ApprovalStart = nil

	_, err := NewNotificationSerializer().Serialize(n, 1)
	if err == nil {
		t.Fatal("expected serialization error")
	}

	serErr, ok := err.(*SerializationError)
	if !ok {
		t.Fatalf("error type = %T, want *SerializationError", err)
	}
	if serErr.Field != "passDateDeb" {
		t.Errorf("Field = %q, want passDateDeb", serErr.Field)
	}
	if serErr.Serializer != "NotificationSerializer" {
		t.Errorf("Serializer = %q, want NotificationSerializer", serErr.Serializer)
	}
	if serErr.ObjectID != n.ID {
		t.Errorf("ObjectID = %q, want %q", serErr.ObjectID, n.ID)
	}
	if !strings.Contains(serErr.Error(), "passDateDeb") {
		t.Errorf("Error() = %q, want mention of passDateDeb", serErr.Error())
	}
}

func TestParseFeedback(t *testing.T) {
	t.Parallel()

	payload := []byte(`{
		"telId": "RIAE_FS_20210410130000",
		"nbLignes": 2,
		"lignesTelechargement": [
			{"numLigne": 1, "idTelechargement": "id-1", "codeTraitement": "0000", "libelleTraitement": "OK"},
			{"numLigne": 2, "idTelechargement": "id-2", "codeTraitement": "3436", "libelleTraitement": "Doublon"}
		]
	}`)

	file, err := ParseFeedback(payload)
	if err != nil {
		t.Fatalf("ParseFeedback() unexpected error = %v", err)
	}

	if len(file.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(file.Lines))
	}
	if !file.Lines[0].Succeeded() {
		t.Error("line 1 should have succeeded")
	}
	if file.Lines[1].Succeeded() {
		t.Error("line 2 should not have succeeded")
	}
}

func TestParseFeedbackMalformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseFeedback([]byte(`{not json`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}

	missingID := []byte(`{"lignesTelechargement": [{"numLigne": 1, "codeTraitement": "0000"}]}`)
	if _, err := ParseFeedback(missingID); err == nil {
		t.Fatal("expected error for missing idTelechargement")
	}

	missingCode := []byte(`{"lignesTelechargement": [{"numLigne": 1, "idTelechargement": "id-1"}]}`)
	if _, err := ParseFeedback(missingCode); err == nil {
		t.Fatal("expected error for missing codeTraitement")
	}
}

func TestIsFeedbackFile(t *testing.T) {
	t.Parallel()

	if !IsFeedbackFile("RIAE_FS_20210410130000_FichierRetour.json") {
		t.Error("expected FichierRetour name to match")
	}
	if IsFeedbackFile("RIAE_FS_20210410130000.json") {
		t.Error("upload filename should not match")
	}
}
