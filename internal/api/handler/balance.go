package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/scrimnight/scrimnight/internal/api/middleware"
	"github.com/scrimnight/scrimnight/internal/api/response"
	"github.com/scrimnight/scrimnight/internal/api/validation"
	"github.com/scrimnight/scrimnight/internal/balance"
	"github.com/scrimnight/scrimnight/internal/member"
)

// BalanceObserver is told the result of every balance request.
type BalanceObserver interface {
	BalanceSucceeded(differential int)
	BalanceRejected()
}

type balanceRequest struct {
	MemberIDs []string `json:"memberIds"`
}

type balancedPlayer struct {
	MemberID string `json:"memberId"`
	Name     string `json:"name"`
	Handle   string `json:"handle"`
	Tier     string `json:"tier"`
	Score    int    `json:"score"`
}

type balancedTeam struct {
	Players []balancedPlayer `json:"players"`
	Score   int              `json:"score"`
}

type balanceResponse struct {
	Blue         balancedTeam `json:"blue"`
	Red          balancedTeam `json:"red"`
	Differential int          `json:"differential"`
}

// BalanceHandler handles POST /team-balance.
type BalanceHandler struct {
	members  member.Repository
	scores   member.ScoreTable
	observer BalanceObserver
}

// NewBalanceHandler creates a new BalanceHandler. observer may be nil.
func NewBalanceHandler(members member.Repository, scores member.ScoreTable, observer BalanceObserver) *BalanceHandler {
	return &BalanceHandler{members: members, scores: scores, observer: observer}
}

// ServeHTTP splits the requested members into two balanced teams.
func (h *BalanceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req balanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	ids, fieldErrors := validation.ValidateBalanceRequest(req.MemberIDs)
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	candidates := make([]balance.Candidate, len(ids))
	for i, id := range ids {
		candidates[i] = balance.Candidate{ID: id}
	}
	if err := balance.Validate(candidates); err != nil {
		h.rejectInput(w, err, requestID)
		return
	}

	members, err := h.members.GetMany(r.Context(), ids)
	if err != nil {
		var nf *member.NotFoundError
		if errors.As(err, &nf) {
			response.ErrWithDetails(w, http.StatusNotFound, "MEMBER_NOT_FOUND", "Member not found",
				map[string]string{"memberId": nf.ID.String()}, requestID)
			return
		}
		slog.Error("failed to load members for balance", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to balance teams", requestID)
		return
	}

	byID := make(map[uuid.UUID]*member.Member, len(members))
	for i := range members {
		candidates[i].Score = h.scores.Score(members[i].Tier)
		byID[members[i].ID] = &members[i]
	}

	result, err := balance.Balance(candidates)
	if err != nil {
		h.rejectInput(w, err, requestID)
		return
	}

	if h.observer != nil {
		h.observer.BalanceSucceeded(result.Differential)
	}
	slog.Debug("teams balanced", "differential", result.Differential, "blue", result.Blue.Score, "red", result.Red.Score)

	response.Success(w, http.StatusOK, balanceResponse{
		Blue:         toBalancedTeam(result.Blue, byID),
		Red:          toBalancedTeam(result.Red, byID),
		Differential: result.Differential,
	}, requestID)
}

func (h *BalanceHandler) rejectInput(w http.ResponseWriter, err error, requestID string) {
	if h.observer != nil {
		h.observer.BalanceRejected()
	}

	var ie *balance.InputError
	if !errors.As(err, &ie) {
		slog.Error("balance failed", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to balance teams", requestID)
		return
	}

	details := map[string]any{"count": ie.Count}
	if ie.Duplicate != uuid.Nil {
		details["duplicate"] = ie.Duplicate.String()
	}
	response.ErrWithDetails(w, http.StatusBadRequest, "INVALID_INPUT", ie.Error(), details, requestID)
}

func toBalancedTeam(t balance.Team, byID map[uuid.UUID]*member.Member) balancedTeam {
	players := make([]balancedPlayer, 0, len(t.Members))
	for _, c := range t.Members {
		m := byID[c.ID]
		players = append(players, balancedPlayer{
			MemberID: c.ID.String(),
			Name:     m.Name,
			Handle:   m.Handle,
			Tier:     m.TierName(),
			Score:    c.Score,
		})
	}
	return balancedTeam{Players: players, Score: t.Score}
}
