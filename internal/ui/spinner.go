package ui

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"

	"github.com/hatlabs/cockpit-package-manager/pkg/packagekit"
)

// Spinner wraps the spinner library for consistent styling.
type Spinner struct {
	s       *spinner.Spinner
	message string
}

// NewSpinner creates a new spinner with the given message.
func NewSpinner(message string) *Spinner {
	charSet := spinner.CharSets[14] // ⣾⣽⣻⢿⡿⣟⣯⣷
	if !UseUnicode {
		charSet = spinner.CharSets[0] // |/-\
	}

	s := spinner.New(charSet, 100*time.Millisecond)
	s.Suffix = " " + message

	if UseColors {
		s.Color("cyan")
	}

	return &Spinner{s: s, message: message}
}

// Start starts the spinner.
func (sp *Spinner) Start() {
	sp.s.Start()
}

// Stop stops the spinner.
func (sp *Spinner) Stop() {
	sp.s.Stop()
}

// Success stops the spinner with a success message.
func (sp *Spinner) Success(message string) {
	sp.s.Stop()
	SuccessMsg(message)
}

// UpdateMessage updates the spinner message.
func (sp *Spinner) UpdateMessage(message string) {
	sp.message = message
	sp.s.Suffix = " " + message
}

// Progress returns a callback that folds transaction progress into the
// spinner message. Percentage is appended when known; a queued transaction
// shows a waiting note instead.
func (sp *Spinner) Progress() packagekit.ProgressFunc {
	base := sp.message
	return func(p packagekit.ProgressSnapshot) {
		switch {
		case p.Waiting:
			sp.UpdateMessage(base + " (waiting for other software management tasks)")
		case p.Percentage > 0:
			sp.UpdateMessage(fmt.Sprintf("%s (%d%%)", base, p.Percentage))
		default:
			sp.UpdateMessage(base)
		}
	}
}

// WithSpinner runs a function under a spinner. The spinner stops either way;
// rendering a failure stays with the caller, which knows how to phrase it.
func WithSpinner(message string, fn func() error) error {
	sp := NewSpinner(message)
	sp.Start()
	defer sp.Stop()

	return fn()
}
