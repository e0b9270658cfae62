package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"merchmagic/internal/catalog"
	"merchmagic/internal/domain"
	"merchmagic/internal/imagecodec"
	"merchmagic/internal/session"
)

type sessionView struct {
	ID             string                 `json:"id"`
	Status         domain.SessionStatus   `json:"status"`
	Template       domain.ProductTemplate `json:"template"`
	Instruction    string                 `json:"instruction"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	HasLogo        bool                   `json:"has_logo"`
	LogoDataURL    string                 `json:"logo_data_url,omitempty"`
	MockupDataURL  string                 `json:"mockup_data_url,omitempty"`
	MockupMIMEType string                 `json:"mockup_mime_type,omitempty"`
	CanGenerate    bool                   `json:"can_generate"`
	CanEdit        bool                   `json:"can_edit"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

func newSessionView(s *session.Session) sessionView {
	v := sessionView{
		ID:           s.ID,
		Status:       s.Status,
		Template:     s.Template(),
		Instruction:  s.Instruction,
		ErrorMessage: s.ErrorMessage,
		HasLogo:      s.HasLogo(),
		CanGenerate:  s.CanGenerate(),
		CanEdit:      s.CanEdit(),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	if s.HasLogo() {
		v.LogoDataURL = s.Logo.DataURL()
	}
	if s.HasMockup() {
		v.MockupDataURL = s.Mockup.DataURL()
		v.MockupMIMEType = s.Mockup.Type()
	}
	return v
}

// fail maps coordinator errors onto HTTP statuses. s is the session state
// after the failed action, if any.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error, s *session.Session) {
	var genErr *domain.GenerationError
	switch {
	case errors.As(err, &genErr):
		code, msg := "generation_failed", domain.MessageGenerateFailed
		if genErr.IsEdit() {
			code, msg = "edit_failed", domain.MessageEditFailed
		}
		body := map[string]any{"error": errorBody{Code: code, Message: msg}}
		if s != nil {
			body["session"] = newSessionView(s)
		}
		a.json(w, http.StatusBadGateway, body)
	case errors.Is(err, domain.ErrInitialization):
		a.error(w, http.StatusServiceUnavailable, "ai_unavailable", domain.MessageInitFailed)
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "session not found")
	case errors.Is(err, domain.ErrBusy):
		a.error(w, http.StatusConflict, "busy", err.Error())
	case errors.Is(err, domain.ErrLogoRequired),
		errors.Is(err, domain.ErrMockupRequired),
		errors.Is(err, domain.ErrInstructionRequired):
		a.error(w, http.StatusConflict, "precondition", err.Error())
	case errors.Is(err, domain.ErrUnknownTemplate), errors.Is(err, domain.ErrInvalidImage):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("session action failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) respond(w http.ResponseWriter, r *http.Request, status int, s *session.Session, err error) {
	if err != nil {
		a.fail(w, r, err, s)
		return
	}
	a.json(w, status, newSessionView(s))
}

type createSessionReq struct {
	TemplateID string `json:"template_id"`
}

func (a *App) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionReq
	if err := decodeOptional(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	s, err := a.Sessions.Create(r.Context(), req.TemplateID)
	a.respond(w, r, http.StatusCreated, s, err)
}

func (a *App) GetSession(w http.ResponseWriter, r *http.Request) {
	s, err := a.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	a.respond(w, r, http.StatusOK, s, err)
}

func (a *App) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := a.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadLogo accepts either a multipart form with a "logo" file field or a raw
// image body.
func (a *App) UploadLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	logo, err := a.readLogo(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			a.error(w, http.StatusRequestEntityTooLarge, "too_large", fmt.Sprintf("logo exceeds %d bytes", a.MaxUploadBytes))
		case errors.Is(err, http.ErrMissingFile):
			a.error(w, http.StatusBadRequest, "bad_request", "logo file required")
		default:
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		}
		return
	}
	s, err := a.Sessions.UploadLogo(r.Context(), chi.URLParam(r, "id"), logo)
	a.respond(w, r, http.StatusOK, s, err)
}

func (a *App) readLogo(r *http.Request) (imagecodec.Payload, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return imagecodec.Read(r.Body, mediaType)
	}
	if err := r.ParseMultipartForm(a.MaxUploadBytes); err != nil {
		return imagecodec.Payload{}, err
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		return imagecodec.Payload{}, err
	}
	defer file.Close()
	return imagecodec.Read(file, header.Header.Get("Content-Type"))
}

type templateReq struct {
	TemplateID string `json:"template_id"`
}

func (a *App) SelectTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.TemplateID) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "template_id required")
		return
	}
	s, err := a.Sessions.SelectTemplate(r.Context(), chi.URLParam(r, "id"), req.TemplateID)
	a.respond(w, r, http.StatusOK, s, err)
}

type instructionReq struct {
	Instruction     *string `json:"instruction"`
	SuggestionIndex *int    `json:"suggestion_index"`
}

func (a *App) SetInstruction(w http.ResponseWriter, r *http.Request) {
	var req instructionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	id := chi.URLParam(r, "id")
	switch {
	case req.SuggestionIndex != nil:
		if _, ok := catalog.Suggestion(*req.SuggestionIndex); !ok {
			a.error(w, http.StatusBadRequest, "bad_request", "suggestion_index out of range")
			return
		}
		s, err := a.Sessions.ApplySuggestion(r.Context(), id, *req.SuggestionIndex)
		a.respond(w, r, http.StatusOK, s, err)
	case req.Instruction != nil:
		s, err := a.Sessions.SetInstruction(r.Context(), id, *req.Instruction)
		a.respond(w, r, http.StatusOK, s, err)
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "instruction or suggestion_index required")
	}
}

func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	s, err := a.Sessions.Generate(r.Context(), chi.URLParam(r, "id"))
	a.respond(w, r, http.StatusOK, s, err)
}

type editReq struct {
	Instruction *string `json:"instruction"`
}

// Edit runs the edit. A supplied instruction replaces the buffer only if the
// edit can begin.
func (a *App) Edit(w http.ResponseWriter, r *http.Request) {
	var req editReq
	if err := decodeOptional(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	id := chi.URLParam(r, "id")
	var (
		s   *session.Session
		err error
	)
	if req.Instruction != nil {
		s, err = a.Sessions.EditWithInstruction(r.Context(), id, *req.Instruction)
	} else {
		s, err = a.Sessions.Edit(r.Context(), id)
	}
	a.respond(w, r, http.StatusOK, s, err)
}

// Mockup serves the current artifact bytes as produced by the service.
func (a *App) Mockup(w http.ResponseWriter, r *http.Request) {
	s, err := a.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err, nil)
		return
	}
	if !s.HasMockup() {
		a.error(w, http.StatusNotFound, "not_found", "no mockup yet")
		return
	}
	w.Header().Set("Content-Type", s.Mockup.Type())
	w.Header().Set("Content-Length", strconv.Itoa(len(s.Mockup.Data)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(s.Mockup.Data)
}

// DownloadMockup exports the artifact as a PNG attachment.
func (a *App) DownloadMockup(w http.ResponseWriter, r *http.Request) {
	data, name, err := a.Sessions.Export(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrMockupRequired) {
			a.error(w, http.StatusNotFound, "not_found", "no mockup yet")
			return
		}
		a.fail(w, r, err, nil)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// decodeOptional decodes a JSON body when one is present.
func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// DownloadBundle exports the PNG, the source logo and a manifest as a zip.
func (a *App) DownloadBundle(w http.ResponseWriter, r *http.Request) {
	data, name, err := a.Sessions.Bundle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrMockupRequired) {
			a.error(w, http.StatusNotFound, "not_found", "no mockup yet")
			return
		}
		a.fail(w, r, err, nil)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
