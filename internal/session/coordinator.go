package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"merchmagic/internal/catalog"
	"merchmagic/internal/domain"
	"merchmagic/internal/imagecodec"
	"merchmagic/internal/infra"
)

// Outcome labels for observed attempts.
const (
	OutcomeSuccess = "success"
	OutcomeNoImage = "no_image"
	OutcomeError   = "error"
)

// releaseTimeout bounds the recovery save after a failed completion save.
const releaseTimeout = 5 * time.Second

// Generator is the generation client as seen by the coordinator.
type Generator interface {
	GenerateMockup(ctx context.Context, logo imagecodec.Payload, templatePrompt string) (imagecodec.Payload, error)
	EditMockup(ctx context.Context, current imagecodec.Payload, editPrompt string) (imagecodec.Payload, error)
	Model() string
}

// Recorder persists an audit row for every remote call.
type Recorder interface {
	Record(ctx context.Context, attempt domain.GenerationAttempt) error
}

// Observer receives attempt timings, typically Prometheus metrics.
type Observer interface {
	Observe(op domain.Operation, outcome string, d time.Duration)
}

// Deps wires the coordinator. Store is required; a nil Generator means the AI
// service failed to initialize.
type Deps struct {
	Store     Store
	Generator Generator
	Recorder  Recorder
	Observer  Observer
	Logger    *infra.Logger
	Now       func() time.Time
	NewID     func() string
}

// Coordinator sequences user actions into state transitions and generation
// calls. Every read-modify-write of a session happens under mu, so a busy
// check and its begin transition are atomic within one process.
type Coordinator struct {
	mu        sync.Mutex
	store     Store
	generator Generator
	recorder  Recorder
	observer  Observer
	logger    *infra.Logger
	now       func() time.Time
	newID     func() string
}

func NewCoordinator(d Deps) *Coordinator {
	c := &Coordinator{
		store:     d.Store,
		generator: d.Generator,
		recorder:  d.Recorder,
		observer:  d.Observer,
		logger:    d.Logger,
		now:       d.Now,
		newID:     d.NewID,
	}
	if c.logger == nil {
		c.logger = infra.NopLogger()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = func() string { return uuid.NewString() }
	}
	return c
}

// Available reports whether a generation client is wired.
func (c *Coordinator) Available() bool {
	return c.generator != nil
}

// Create starts a new idle session. An empty templateID selects the default.
func (c *Coordinator) Create(ctx context.Context, templateID string) (*Session, error) {
	s := New(c.newID(), c.now())
	if strings.TrimSpace(templateID) != "" {
		if err := s.SelectTemplate(templateID); err != nil {
			return nil, err
		}
	}
	if err := c.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Coordinator) Get(ctx context.Context, id string) (*Session, error) {
	return c.store.Load(ctx, id)
}

func (c *Coordinator) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.store.Load(ctx, id); err != nil {
		return err
	}
	return c.store.Delete(ctx, id)
}

func (c *Coordinator) UploadLogo(ctx context.Context, id string, logo imagecodec.Payload) (*Session, error) {
	return c.mutate(ctx, id, func(s *Session) error { return s.UploadLogo(logo) })
}

func (c *Coordinator) SelectTemplate(ctx context.Context, id, templateID string) (*Session, error) {
	return c.mutate(ctx, id, func(s *Session) error { return s.SelectTemplate(templateID) })
}

func (c *Coordinator) SetInstruction(ctx context.Context, id, text string) (*Session, error) {
	return c.mutate(ctx, id, func(s *Session) error {
		s.SetInstruction(text)
		return nil
	})
}

// ApplySuggestion copies the indexed quick edit into the instruction buffer.
// It does not trigger an edit.
func (c *Coordinator) ApplySuggestion(ctx context.Context, id string, index int) (*Session, error) {
	text, ok := catalog.Suggestion(index)
	if !ok {
		return nil, fmt.Errorf("%w: suggestion index %d", domain.ErrInstructionRequired, index)
	}
	return c.SetInstruction(ctx, id, text)
}

// Generate runs the generate action to completion. On a remote failure the
// returned session is in ERROR and the error is a *domain.GenerationError.
func (c *Coordinator) Generate(ctx context.Context, id string) (*Session, error) {
	if c.generator == nil {
		return nil, c.initError(domain.OperationGenerate)
	}
	started, err := c.mutate(ctx, id, (*Session).BeginGenerate)
	if err != nil {
		return nil, err
	}
	tmpl := started.Template()
	return c.run(ctx, started, domain.OperationGenerate, tmpl.ID, tmpl.BasePrompt,
		func(callCtx context.Context) (imagecodec.Payload, error) {
			return c.generator.GenerateMockup(callCtx, *started.Logo, tmpl.BasePrompt)
		})
}

// Edit runs the edit action against the current artifact and instruction.
func (c *Coordinator) Edit(ctx context.Context, id string) (*Session, error) {
	return c.edit(ctx, id, (*Session).BeginEdit)
}

// EditWithInstruction replaces the instruction buffer and begins the edit in
// one step. A session that cannot begin an edit keeps its buffer untouched.
func (c *Coordinator) EditWithInstruction(ctx context.Context, id, text string) (*Session, error) {
	return c.edit(ctx, id, func(s *Session) error {
		if s.Status.Busy() {
			return domain.ErrBusy
		}
		s.SetInstruction(text)
		return s.BeginEdit()
	})
}

func (c *Coordinator) edit(ctx context.Context, id string, begin func(*Session) error) (*Session, error) {
	if c.generator == nil {
		return nil, c.initError(domain.OperationEdit)
	}
	started, err := c.mutate(ctx, id, begin)
	if err != nil {
		return nil, err
	}
	instruction := started.Instruction
	return c.run(ctx, started, domain.OperationEdit, started.TemplateID, instruction,
		func(callCtx context.Context) (imagecodec.Payload, error) {
			return c.generator.EditMockup(callCtx, *started.Mockup, instruction)
		})
}

// Export returns the current artifact as PNG bytes plus a download file name.
func (c *Coordinator) Export(ctx context.Context, id string) ([]byte, string, error) {
	s, err := c.store.Load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !s.HasMockup() {
		return nil, "", domain.ErrMockupRequired
	}
	data, err := imagecodec.ToPNG(*s.Mockup)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	return data, ExportFileName(c.now()), nil
}

// ExportFileName is the download name for an artifact exported at t.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("merch-mockup-%d.png", t.UnixMilli())
}

func (c *Coordinator) mutate(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = c.now()
	if err := c.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Coordinator) run(
	ctx context.Context,
	started *Session,
	op domain.Operation,
	templateID, instruction string,
	call func(context.Context) (imagecodec.Payload, error),
) (*Session, error) {
	// The user cannot cancel an in-flight call; a disconnect must not strand
	// the session in a busy status.
	callCtx := context.WithoutCancel(ctx)
	begin := c.now()
	artifact, callErr := call(callCtx)
	elapsed := c.now().Sub(begin)

	failMessage := domain.MessageGenerateFailed
	if op == domain.OperationEdit {
		failMessage = domain.MessageEditFailed
	}
	final, err := c.mutate(callCtx, started.ID, func(s *Session) error {
		switch {
		case callErr != nil:
			s.Fail(failMessage)
		case op == domain.OperationEdit:
			s.CompleteEdit(artifact)
		default:
			s.CompleteGenerate(artifact)
		}
		return nil
	})

	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		c.release(started.ID, op, failMessage, err)
	}

	c.report(callCtx, started.ID, op, templateID, instruction, begin, elapsed, callErr)
	if err != nil {
		return nil, err
	}
	if callErr != nil {
		return final, callErr
	}
	return final, nil
}

// release makes one more attempt to move a session out of its busy status
// after the completion could not be saved. The artifact is not installed.
func (c *Coordinator) release(id string, op domain.Operation, message string, saveErr error) {
	c.logger.Error().Err(saveErr).Str("session_id", id).Str("op", string(op)).Msg("save finished session failed")

	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	if _, err := c.mutate(ctx, id, func(s *Session) error {
		if s.Status.Busy() {
			s.Fail(message)
		}
		return nil
	}); err != nil {
		c.logger.Error().Err(err).Str("session_id", id).Msg("session left busy")
	}
}

func (c *Coordinator) report(
	ctx context.Context,
	sessionID string,
	op domain.Operation,
	templateID, instruction string,
	begin time.Time,
	elapsed time.Duration,
	callErr error,
) {
	outcome := OutcomeSuccess
	switch {
	case errors.Is(callErr, domain.ErrNoImage):
		outcome = OutcomeNoImage
	case callErr != nil:
		outcome = OutcomeError
	}

	ev := c.logger.Info()
	if callErr != nil {
		ev = c.logger.Error().Err(callErr)
	}
	ev.Str("session_id", sessionID).
		Str("op", string(op)).
		Str("template_id", templateID).
		Str("outcome", outcome).
		Dur("duration", elapsed).
		Msg("mockup attempt finished")

	if c.observer != nil {
		c.observer.Observe(op, outcome, elapsed)
	}
	if c.recorder == nil {
		return
	}
	attempt := domain.GenerationAttempt{
		SessionID:   sessionID,
		Operation:   op,
		TemplateID:  templateID,
		Instruction: instruction,
		Model:       c.generator.Model(),
		Succeeded:   callErr == nil,
		StartedAt:   begin,
		Duration:    elapsed,
	}
	if callErr != nil {
		attempt.Error = callErr.Error()
	}
	if err := c.recorder.Record(ctx, attempt); err != nil {
		c.logger.Warn().Err(err).Str("session_id", sessionID).Msg("record generation attempt failed")
	}
}

func (c *Coordinator) initError(op domain.Operation) error {
	c.logger.Error().Str("op", string(op)).Msg(domain.MessageInitFailed)
	return fmt.Errorf("%w: %s", domain.ErrInitialization, domain.MessageInitFailed)
}
