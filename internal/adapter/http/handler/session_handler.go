package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// SessionService defines the behavior needed by SessionHandler.
type SessionService interface {
	CreateSession(ctx context.Context, input usecase.CreateSessionInput) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	AddEntry(ctx context.Context, input usecase.AddEntryInput) (*domain.Session, error)
	Reset(ctx context.Context, id string) (*domain.Session, error)
	SetSplitCount(ctx context.Context, id, raw string) (*domain.Session, error)
	Summarize(ctx context.Context, id string, rawSplitCount *string) (*usecase.Summary, error)
}

// SessionHandler handles session and ledger HTTP requests.
type SessionHandler struct {
	sessionUC   SessionService
	defaultSeed bool
}

// NewSessionHandler creates a new SessionHandler. defaultSeed decides whether
// sessions start with the default entries when the request does not say.
func NewSessionHandler(sessionUC SessionService, defaultSeed bool) *SessionHandler {
	return &SessionHandler{sessionUC: sessionUC, defaultSeed: defaultSeed}
}

// Create starts a new session. The body is optional.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSessionRequest
	if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.sessionUC.CreateSession(r.Context(), req.ToUseCaseInput(h.defaultSeed))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.SessionFromDomain(session))
}

// Get returns the session view. The split query parameter overrides the
// stored headcount for this response only.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session ID", "")
		return
	}

	summary, err := h.sessionUC.Summarize(r.Context(), id, queryValue(r, "split"))
	if err != nil {
		writeDomainError(w, "failed to get session", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromSummary(summary))
}

// Delete discards a session.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session ID", "")
		return
	}

	if err := h.sessionUC.DeleteSession(r.Context(), id); err != nil {
		writeDomainError(w, "failed to delete session", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddEntry validates and appends an entry to the session's ledger.
func (h *SessionHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session ID", "")
		return
	}

	var req dto.AddEntryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.sessionUC.AddEntry(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeDomainError(w, "failed to add entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SessionFromDomain(session))
}

// Reset clears the session's entries.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session ID", "")
		return
	}

	session, err := h.sessionUC.Reset(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to reset ledger", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// SetSplit stores the headcount. Invalid counts are stored as 0.
func (h *SessionHandler) SetSplit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session ID", "")
		return
	}

	var req dto.SetSplitRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.sessionUC.SetSplitCount(r.Context(), id, req.Count.Text)
	if err != nil {
		writeDomainError(w, "failed to set split count", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// Split computes the per-person amount. The count query parameter overrides
// the stored headcount.
func (h *SessionHandler) Split(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session ID", "")
		return
	}

	summary, err := h.sessionUC.Summarize(r.Context(), id, queryValue(r, "count"))
	if err != nil {
		writeDomainError(w, "failed to compute split", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SplitFromSummary(summary))
}
