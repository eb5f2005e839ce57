package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// reportNamespace scopes report fingerprints so they never collide with other name-based UUIDs.
var reportNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("gostai/report"))

// NewReportID derives a stable identifier for a report from the analysis name and
// the dataset hash. Re-running the same analysis on the same file yields the same ID.
func NewReportID(analysis string, dataset Hash) ID {
	id := uuid.NewSHA1(reportNamespace, []byte(analysis+":"+dataset.String()))
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// ParticipantID identifies one survey respondent
type ParticipantID ID

func (id ParticipantID) String() string { return ID(id).String() }

// ParseParticipantID parses a string into ParticipantID
func ParseParticipantID(s string) (ParticipantID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("participant ID cannot be empty")
	}
	return ParticipantID(strings.TrimSpace(s)), nil
}
