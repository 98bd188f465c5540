package model

import (
	"errors"
	"strings"
	"time"
)

// Reminder is a one-off scheduled notification. Reminder identifiers are
// opaque and never suffixed.
type Reminder struct {
	ID      string
	Title   string
	Notes   string
	Date    time.Time
	Enabled bool
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("model: reminder id is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("model: reminder title is required")
	}
	if r.Date.IsZero() {
		return errors.New("model: reminder date is required")
	}
	return nil
}
