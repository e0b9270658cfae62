// Package session holds the mockup session state machine and the coordinator
// that sequences user actions into generation calls.
package session

import (
	"strings"
	"time"

	"merchmagic/internal/catalog"
	"merchmagic/internal/domain"
	"merchmagic/internal/imagecodec"
)

// Session is the full state of one user's mockup workflow. Transition methods
// are pure: they only mutate the struct and never perform I/O.
type Session struct {
	ID           string               `json:"id"`
	Logo         *imagecodec.Payload  `json:"logo,omitempty"`
	TemplateID   string               `json:"template_id"`
	Mockup       *imagecodec.Payload  `json:"mockup,omitempty"`
	Status       domain.SessionStatus `json:"status"`
	Instruction  string               `json:"instruction"`
	ErrorMessage string               `json:"error_message,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// New returns an idle session with the default template selected.
func New(id string, now time.Time) *Session {
	return &Session{
		ID:         id,
		TemplateID: catalog.Default().ID,
		Status:     domain.StatusIdle,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Clone returns a copy that shares no pointers with s. Payload bytes are
// treated as immutable and are shared.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	if s.Logo != nil {
		logo := *s.Logo
		cp.Logo = &logo
	}
	if s.Mockup != nil {
		mockup := *s.Mockup
		cp.Mockup = &mockup
	}
	return &cp
}

// Template resolves the selected template, falling back to the default.
func (s *Session) Template() domain.ProductTemplate {
	if t, ok := catalog.Lookup(s.TemplateID); ok {
		return t
	}
	return catalog.Default()
}

func (s *Session) HasLogo() bool   { return s.Logo != nil && !s.Logo.IsZero() }
func (s *Session) HasMockup() bool { return s.Mockup != nil && !s.Mockup.IsZero() }

// CanGenerate reports whether the generate action is enabled.
func (s *Session) CanGenerate() bool {
	return s.HasLogo() && !s.Status.Busy()
}

// CanEdit reports whether the edit action is enabled.
func (s *Session) CanEdit() bool {
	return s.HasMockup() && strings.TrimSpace(s.Instruction) != "" && !s.Status.Busy()
}

// UploadLogo replaces the logo. Allowed in any status.
func (s *Session) UploadLogo(logo imagecodec.Payload) error {
	if logo.IsZero() {
		return domain.ErrInvalidImage
	}
	s.Logo = &logo
	return nil
}

// SelectTemplate changes the product template. Allowed in any status.
func (s *Session) SelectTemplate(id string) error {
	t, ok := catalog.Lookup(id)
	if !ok {
		return domain.ErrUnknownTemplate
	}
	s.TemplateID = t.ID
	return nil
}

// SetInstruction replaces the edit-instruction input.
func (s *Session) SetInstruction(text string) {
	s.Instruction = text
}

// BeginGenerate moves an idle (or errored) session with a logo to GENERATING.
func (s *Session) BeginGenerate() error {
	if s.Status.Busy() {
		return domain.ErrBusy
	}
	if !s.HasLogo() {
		return domain.ErrLogoRequired
	}
	s.Status = domain.StatusGenerating
	s.ErrorMessage = ""
	return nil
}

// CompleteGenerate installs a fresh artifact, discarding the previous one.
func (s *Session) CompleteGenerate(artifact imagecodec.Payload) {
	s.Mockup = &artifact
	s.Status = domain.StatusIdle
	s.ErrorMessage = ""
}

// BeginEdit moves a session with an artifact and a non-blank instruction to EDITING.
func (s *Session) BeginEdit() error {
	if s.Status.Busy() {
		return domain.ErrBusy
	}
	if !s.HasMockup() {
		return domain.ErrMockupRequired
	}
	if strings.TrimSpace(s.Instruction) == "" {
		return domain.ErrInstructionRequired
	}
	s.Status = domain.StatusEditing
	s.ErrorMessage = ""
	return nil
}

// CompleteEdit replaces the artifact and clears the instruction input.
func (s *Session) CompleteEdit(artifact imagecodec.Payload) {
	s.Mockup = &artifact
	s.Instruction = ""
	s.Status = domain.StatusIdle
	s.ErrorMessage = ""
}

// Fail rests the session in ERROR. The current artifact is left untouched.
func (s *Session) Fail(message string) {
	s.Status = domain.StatusError
	s.ErrorMessage = message
}
