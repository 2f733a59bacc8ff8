// Package history provides operation history tracking with BoltDB.
package history

import (
	"time"
)

// Operation represents the type of package operation.
type Operation string

const (
	OpInstall Operation = "install"
	OpRemove  Operation = "remove"
	OpRefresh Operation = "refresh"
)

// Entry represents a single operation in the history.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Operation Operation `json:"operation"`
	Packages  []string  `json:"packages"` // Packages affected
	Success   bool      `json:"success"`
	Code      string    `json:"code,omitempty"`  // Machine-readable failure code
	Error     string    `json:"error,omitempty"` // Human-readable failure detail
}

// NewEntry creates a new history entry.
func NewEntry(op Operation, packages []string) *Entry {
	return &Entry{
		ID:        generateID(),
		Timestamp: time.Now(),
		Operation: op,
		Packages:  packages,
		Success:   false, // Will be updated after operation completes
	}
}

// MarkSuccess marks the entry as successful.
func (e *Entry) MarkSuccess() {
	e.Success = true
}

// MarkFailed marks the entry as failed with a failure code and message.
func (e *Entry) MarkFailed(code string, err error) {
	e.Success = false
	e.Code = code
	if err != nil {
		e.Error = err.Error()
	}
}

// generateID generates a unique ID for the entry.
func generateID() string {
	return time.Now().Format("20060102150405.000000")
}

// FormatTime returns a human-readable timestamp.
func (e *Entry) FormatTime() string {
	return e.Timestamp.Format("2006-01-02 15:04:05")
}

// Summary returns a brief summary of the operation.
func (e *Entry) Summary() string {
	status := "success"
	if !e.Success {
		status = "failed"
	}

	if len(e.Packages) == 0 {
		return e.FormatTime() + " " + string(e.Operation) + " (" + status + ")"
	}

	return e.FormatTime() + " " + string(e.Operation) + " " +
		e.Packages[0] + " (" + status + ")"
}
