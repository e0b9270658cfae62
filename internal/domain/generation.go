package domain

import "time"

// GenerationAttempt is the audit record of a single remote call. Image bytes
// are never part of it.
type GenerationAttempt struct {
	ID          string
	SessionID   string
	Operation   Operation
	TemplateID  string
	Instruction string
	Model       string
	Succeeded   bool
	Error       string
	StartedAt   time.Time
	Duration    time.Duration
}
