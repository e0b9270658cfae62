package domain

// SessionStatus is the single source of truth for gating user actions.
type SessionStatus string

const (
	StatusIdle       SessionStatus = "IDLE"
	StatusGenerating SessionStatus = "GENERATING"
	StatusEditing    SessionStatus = "EDITING"
	StatusError      SessionStatus = "ERROR"
)

// Busy reports whether a remote call is outstanding.
func (s SessionStatus) Busy() bool {
	return s == StatusGenerating || s == StatusEditing
}

// User-visible messages shown for failed actions.
const (
	MessageGenerateFailed = "Failed to generate mockup. Please try again."
	MessageEditFailed     = "Failed to edit image. Please try again."
	MessageInitFailed     = "Failed to initialize AI service. Please check your configuration."
)
