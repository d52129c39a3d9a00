package queue

import (
	"strings"
	"testing"
	"time"

	"github.com/kursadbilgin/asp-relay/internal/domain"
)

func validEvent() RecordEvent {
	start := time.Date(2021, time.February, 1, 0, 0, 0, 0, time.UTC)
	return RecordEvent{
		EmployeeRecordID: "er-42",
		Movement:         domain.MovementUpdate,
		Siret:            "33055039301440",
		Measure:          "EI_DC",
		ApprovalNumber:   "999992139048",
		ApprovalStart:    &start,
		LastName:         "DURAND",
		FirstName:        "Maxime",
	}
}

func TestRecordEventValidate(t *testing.T) {
	if err := validEvent().Validate(); err != nil {
		t.Fatalf("Validate() unexpected error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(e *RecordEvent)
		want   string
	}{
		{name: "missing id", mutate: func(e *RecordEvent) { e.EmployeeRecordID = " " }, want: "employeeRecordId"},
		{name: "bad movement", mutate: func(e *RecordEvent) { e.Movement = "Z" }, want: "movement"},
		{name: "bad siret", mutate: func(e *RecordEvent) { e.Siret = "123" }, want: "siret"},
		{name: "missing approval", mutate: func(e *RecordEvent) { e.ApprovalNumber = "" }, want: "approvalNumber"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			event := validEvent()
			tt.mutate(&event)

			err := event.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestRecordEventToNotification(t *testing.T) {
	event := validEvent()
	n := event.ToNotification()

	if n.Status != domain.StatusNew {
		t.Errorf("Status = %s, want NEW", n.Status)
	}
	if n.EmployeeRecordID != event.EmployeeRecordID {
		t.Errorf("EmployeeRecordID = %q, want %q", n.EmployeeRecordID, event.EmployeeRecordID)
	}
	if n.ApprovalStart == nil || !n.ApprovalStart.Equal(*event.ApprovalStart) {
		t.Errorf("ApprovalStart = %v, want %v", n.ApprovalStart, event.ApprovalStart)
	}
	if err := n.Validate(); err != nil {
		t.Fatalf("converted notification invalid: %v", err)
	}
}
