package asp

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// FeedbackSuffix marks agency result files on the remote server.
	FeedbackSuffix = "_FichierRetour.json"

	// ProcessingCodeOK is the ASP code for a successfully applied record.
	ProcessingCodeOK = "0000"
)

// FeedbackFile is the parsed content of one FichierRetour file.
type FeedbackFile struct {
	TelID   string         `json:"telId"`
	LineCnt int            `json:"nbLignes"`
	Lines   []FeedbackLine `json:"lignesTelechargement"`
}

// FeedbackLine is the agency's processing result for one notification.
type FeedbackLine struct {
	LineNumber     int    `json:"numLigne"`
	NotificationID string `json:"idTelechargement"`
	ProcessingCode string `json:"codeTraitement"`
	ProcessingLabel string `json:"libelleTraitement"`
}

// Succeeded reports whether the agency accepted the record.
func (l FeedbackLine) Succeeded() bool {
	return l.ProcessingCode == ProcessingCodeOK
}

// ParseFeedback decodes a FichierRetour payload.
func ParseFeedback(data []byte) (*FeedbackFile, error) {
	var file FeedbackFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("malformed feedback file: %w", err)
	}

	for i, line := range file.Lines {
		if strings.TrimSpace(line.NotificationID) == "" {
			return nil, fmt.Errorf("feedback line %d is missing idTelechargement", i+1)
		}
		if strings.TrimSpace(line.ProcessingCode) == "" {
			return nil, fmt.Errorf("feedback line %d is missing codeTraitement", i+1)
		}
	}

	return &file, nil
}

// IsFeedbackFile reports whether a remote filename follows the
// FichierRetour naming convention.
func IsFeedbackFile(name string) bool {
	return strings.HasSuffix(name, FeedbackSuffix)
}
