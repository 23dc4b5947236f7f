package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RunID identifies one report computation in logs and responses
type RunID string

// NewRunID creates a new unique identifier using UUID v7 for time-ordered generation
func NewRunID() RunID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return RunID(id.String())
}

// String returns the string representation
func (id RunID) String() string { return string(id) }

// IsEmpty checks if the ID is empty
func (id RunID) IsEmpty() bool { return id == "" }

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("run ID %q is not a UUID: %w", s, err)
	}
	return RunID(s), nil
}
