package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/scrimnight/scrimnight/internal/api/middleware"
	"github.com/scrimnight/scrimnight/internal/api/response"
	"github.com/scrimnight/scrimnight/internal/api/validation"
	"github.com/scrimnight/scrimnight/internal/match"
	"github.com/scrimnight/scrimnight/internal/member"
	"github.com/scrimnight/scrimnight/internal/roster"
)

// MatchService is the match operations used by MatchHandler.
type MatchService interface {
	Create(ctx context.Context, r roster.Roster, opts match.CreateOptions) (*match.Match, error)
	Resolve(ctx context.Context, id uuid.UUID, side roster.Side) (*match.Match, error)
	Get(ctx context.Context, id uuid.UUID) (*match.Match, error)
	List(ctx context.Context, filter match.ListFilter) ([]match.Match, error)
	Records(ctx context.Context) (map[uuid.UUID]match.Record, error)
}

type playerSlotRequest struct {
	MemberID string `json:"memberId"`
	Side     string `json:"side"`
	Position string `json:"position"`
	Champion string `json:"champion"`
}

type createMatchRequest struct {
	PlayedAt *time.Time          `json:"playedAt"`
	Info     *string             `json:"info"`
	Players  []playerSlotRequest `json:"players"`
}

type resultRequest struct {
	Winner string `json:"winner"`
}

// MatchHandler handles match endpoints.
type MatchHandler struct {
	svc MatchService
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(svc MatchService) *MatchHandler {
	return &MatchHandler{svc: svc}
}

// Create handles POST /matches.
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	slots := make([]validation.PlayerSlot, 0, len(req.Players))
	for _, p := range req.Players {
		slots = append(slots, validation.PlayerSlot{
			MemberID: p.MemberID,
			Side:     p.Side,
			Position: p.Position,
			Champion: p.Champion,
		})
	}
	if req.Players == nil {
		slots = nil
	}

	assignments, fieldErrors := validation.ValidateCreateMatchRequest(slots, req.Info)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	rst, err := roster.Build(assignments)
	if err != nil {
		writeRosterError(w, err, requestID)
		return
	}

	var info *string
	if req.Info != nil {
		if trimmed := strings.TrimSpace(*req.Info); trimmed != "" {
			info = &trimmed
		}
	}

	m, err := h.svc.Create(r.Context(), rst, match.CreateOptions{PlayedAt: req.PlayedAt, Info: info})
	if err != nil {
		var nf *member.NotFoundError
		switch {
		case errors.As(err, &nf):
			response.ErrWithDetails(w, http.StatusNotFound, "MEMBER_NOT_FOUND", "Member not found",
				map[string]string{"memberId": nf.ID.String()}, requestID)
		case isRosterError(err):
			writeRosterError(w, err, requestID)
		default:
			slog.Error("failed to create match", "error", err)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create match", requestID)
		}
		return
	}

	response.Success(w, http.StatusCreated, toMatchResponse(m), requestID)
}

// List handles GET /matches.
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	status := strings.ToLower(r.URL.Query().Get("status"))
	if status != match.StatusAll && status != match.StatusPending && status != match.StatusCompleted {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed",
			[]validation.FieldError{{Field: "status", Message: "status must be \"pending\" or \"completed\""}}, requestID)
		return
	}

	matches, err := h.svc.List(r.Context(), match.ListFilter{Status: status})
	if err != nil {
		slog.Error("failed to list matches", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list matches", requestID)
		return
	}

	items := make([]matchResponse, 0, len(matches))
	for i := range matches {
		items = append(items, toMatchResponse(&matches[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GetByID handles GET /matches/{id}.
func (h *MatchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, match.ErrMatchNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Match not found", requestID)
			return
		}
		slog.Error("failed to get match", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get match", requestID)
		return
	}

	response.Success(w, http.StatusOK, toMatchResponse(m), requestID)
}

// Resolve handles POST /matches/{id}/result.
func (h *MatchHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req resultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	side, fieldErrors := validation.ValidateResultRequest(req.Winner)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	m, err := h.svc.Resolve(r.Context(), id, side)
	if err != nil {
		var already *match.AlreadyResolvedError
		switch {
		case errors.Is(err, match.ErrMatchNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Match not found", requestID)
		case errors.As(err, &already):
			response.ErrWithDetails(w, http.StatusConflict, "ALREADY_RESOLVED", "Match result has already been recorded",
				map[string]string{"matchId": already.MatchID.String(), "outcome": string(already.Outcome)}, requestID)
		default:
			slog.Error("failed to resolve match", "error", err, "id", id)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record match result", requestID)
		}
		return
	}

	response.Success(w, http.StatusOK, toMatchResponse(m), requestID)
}

func isRosterError(err error) bool {
	return errors.Is(err, roster.ErrInvalidSide) ||
		errors.Is(err, roster.ErrIncompleteRoster) ||
		errors.Is(err, roster.ErrDuplicateMember) ||
		errors.Is(err, roster.ErrUnbalancedSides)
}

func writeRosterError(w http.ResponseWriter, err error, requestID string) {
	var slotErr *roster.SlotError
	var countErr *roster.SideCountError

	switch {
	case errors.As(err, &slotErr):
		details := map[string]any{"slot": slotErr.Slot}
		switch {
		case errors.Is(err, roster.ErrDuplicateMember):
			details["otherSlot"] = slotErr.OtherSlot
			details["memberId"] = slotErr.MemberID.String()
			response.ErrWithDetails(w, http.StatusConflict, "DUPLICATE_MEMBER", "A member is assigned to more than one slot", details, requestID)
		case errors.Is(err, roster.ErrIncompleteRoster):
			response.ErrWithDetails(w, http.StatusBadRequest, "INCOMPLETE_ROSTER", "Every slot must have a member", details, requestID)
		default:
			response.ErrWithDetails(w, http.StatusBadRequest, "INVALID_SIDE", "Side must be BLUE or RED", details, requestID)
		}
	case errors.As(err, &countErr):
		response.ErrWithDetails(w, http.StatusBadRequest, "UNBALANCED_SIDES", "A roster needs five BLUE and five RED players",
			map[string]int{"blue": countErr.Blue, "red": countErr.Red}, requestID)
	case errors.Is(err, roster.ErrUnbalancedSides):
		response.Err(w, http.StatusBadRequest, "UNBALANCED_SIDES", "A roster needs five BLUE and five RED players", requestID)
	default:
		slog.Error("unexpected roster error", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build roster", requestID)
	}
}
