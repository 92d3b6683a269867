package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/draft"
	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/logger"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/pubsub"
)

const maxBodyBytes = 1 << 20

// DraftService is the live draft surface the API drives
type DraftService interface {
	InitializeDraft(ctx context.Context, req draft.InitRequest) (*draft.InitResult, error)
	StartDraft(ctx context.Context, draftID string) error
	PauseDraft(ctx context.Context, draftID string) error
	ResumeDraft(ctx context.Context, draftID string) error
	GetDraftSummary(ctx context.Context, draftID string) (*models.DraftState, error)
}

// LeagueService builds league compositions
type LeagueService interface {
	Generate(ctx context.Context, leagueID string) (*models.LeagueComposition, error)
	Regenerate(ctx context.Context, leagueID string) (*models.LeagueComposition, error)
}

// APIHandlers contains all API handler methods
type APIHandlers struct {
	drafts    DraftService
	leagues   LeagueService
	pubsub    *pubsub.PubSub
	keepalive time.Duration
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(drafts DraftService, leagues LeagueService, ps *pubsub.PubSub) *APIHandlers {
	return &APIHandlers{
		drafts:    drafts,
		leagues:   leagues,
		pubsub:    ps,
		keepalive: 30 * time.Second,
	}
}

// InitDraftRequest is the body of POST /api/drafts
type InitDraftRequest struct {
	LeagueID             string                `json:"leagueId"`
	Rounds               int                   `json:"rounds,omitempty"`
	PickTimeLimitSeconds int                   `json:"pickTimeLimitSeconds,omitempty"`
	DraftType            string                `json:"draftType,omitempty"`
	RosterTemplate       models.RosterTemplate `json:"rosterTemplate,omitempty"`
	Teams                []models.TeamSeat     `json:"teams,omitempty"`
	DraftOrder           []string              `json:"draftOrder,omitempty"`
}

// ToInitRequest converts the wire body into an orchestrator request
func (r InitDraftRequest) ToInitRequest() draft.InitRequest {
	return draft.InitRequest{
		LeagueID:       r.LeagueID,
		Rounds:         r.Rounds,
		PickTimeLimit:  time.Duration(r.PickTimeLimitSeconds) * time.Second,
		DraftType:      models.DraftType(r.DraftType),
		RosterTemplate: r.RosterTemplate,
		Teams:          r.Teams,
		DraftOrder:     r.DraftOrder,
	}
}

// InitializeDraft creates a draft from the request body
func (h *APIHandlers) InitializeDraft(w http.ResponseWriter, r *http.Request) {
	var req InitDraftRequest
	if err := decodeBody(w, r, &req); err != nil {
		logger.Warn("Failed to decode initialize request", "error", err)
		writeError(w, apperrors.Validationf("invalid request body: %v", err))
		return
	}

	res, err := h.drafts.InitializeDraft(r.Context(), req.ToInitRequest())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// GetDraftSummary returns the persisted draft state
func (h *APIHandlers) GetDraftSummary(w http.ResponseWriter, r *http.Request) {
	state, err := h.drafts.GetDraftSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// StartDraft starts ticking a draft
func (h *APIHandlers) StartDraft(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "start", h.drafts.StartDraft)
}

// PauseDraft stops ticking a draft
func (h *APIHandlers) PauseDraft(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "pause", h.drafts.PauseDraft)
}

// ResumeDraft restarts a paused draft
func (h *APIHandlers) ResumeDraft(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "resume", h.drafts.ResumeDraft)
}

func (h *APIHandlers) transition(w http.ResponseWriter, r *http.Request, action string, fn func(context.Context, string) error) {
	id := chi.URLParam(r, "id")
	if err := fn(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	logger.Info("Draft transition", "action", action, "draft_id", id)

	state, err := h.drafts.GetDraftSummary(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"draftId":     id,
		"status":      state.Status,
		"currentPick": state.CurrentPick,
	})
}

// GetLeagueComposition returns the league's composition, generating it on
// first request
func (h *APIHandlers) GetLeagueComposition(w http.ResponseWriter, r *http.Request) {
	comp, err := h.leagues.Generate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comp)
}

// RegenerateLeague rebuilds the league under a new generation
func (h *APIHandlers) RegenerateLeague(w http.ResponseWriter, r *http.Request) {
	comp, err := h.leagues.Regenerate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comp)
}

// EventsSSE provides Server-Sent Events for realtime updates. The optional
// league query parameter limits the stream to one league.
func (h *APIHandlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, apperrors.Internal(errors.New("streaming unsupported")))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	league := r.URL.Query().Get("league")
	events := h.pubsub.SubscribeLeague(league)
	defer h.pubsub.Unsubscribe(events)

	fmt.Fprintf(w, "data: {\"type\":\"connected\",\"leagueId\":%q}\n\n", league)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				logger.Warn("Failed to encode event", "type", event.Type, "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected", "league", league)
			return
		case <-keepalive.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// ErrorResponse is the JSON body of every API error
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// StatusFor maps an error kind onto an HTTP status and error code
func StatusFor(err error) (int, string) {
	switch apperrors.KindOf(err) {
	case apperrors.ErrNotFound:
		return http.StatusNotFound, "NOT_FOUND"
	case apperrors.ErrValidation:
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case apperrors.ErrConflict:
		return http.StatusConflict, "CONFLICT"
	case apperrors.ErrConcurrentTick:
		return http.StatusConflict, "TICK_IN_FLIGHT"
	case apperrors.ErrStateCorruption:
		return http.StatusConflict, "DRAFT_STALLED"
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code := StatusFor(err)
	msg := err.Error()
	switch {
	case code == "DRAFT_STALLED":
		msg = "draft stalled: " + msg
	case status == http.StatusInternalServerError:
		logger.Error("Request failed", "error", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}
