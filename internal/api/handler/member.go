package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/scrimnight/scrimnight/internal/api/middleware"
	"github.com/scrimnight/scrimnight/internal/api/response"
	"github.com/scrimnight/scrimnight/internal/api/validation"
	"github.com/scrimnight/scrimnight/internal/match"
	"github.com/scrimnight/scrimnight/internal/member"
	"github.com/scrimnight/scrimnight/internal/rating"
)

// RecordSource returns per-member results over completed matches.
type RecordSource interface {
	Records(ctx context.Context) (map[uuid.UUID]match.Record, error)
}

// ProfileLookup resolves a handle against the rating source.
type ProfileLookup interface {
	Lookup(ctx context.Context, handle string) (*rating.Profile, error)
}

type createMemberRequest struct {
	Name   string  `json:"name"`
	Handle string  `json:"handle"`
	Tier   *string `json:"tier"`
}

// MemberHandler handles member endpoints.
type MemberHandler struct {
	repo    member.Repository
	records RecordSource
	scores  member.ScoreTable
	lookup  ProfileLookup
}

// NewMemberHandler creates a new MemberHandler. lookup may be nil, in which
// case tiers come only from the request.
func NewMemberHandler(repo member.Repository, records RecordSource, scores member.ScoreTable, lookup ProfileLookup) *MemberHandler {
	return &MemberHandler{
		repo:    repo,
		records: records,
		scores:  scores,
		lookup:  lookup,
	}
}

// Create handles POST /members. Without an explicit tier the handle is
// looked up in the rating source, which also canonicalises it.
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateMemberRequest(validation.CreateMemberRequest{
		Name:   req.Name,
		Handle: req.Handle,
		Tier:   req.Tier,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	m := &member.Member{
		Name:   strings.TrimSpace(req.Name),
		Handle: strings.TrimSpace(req.Handle),
	}

	switch {
	case req.Tier != nil:
		tier, _ := member.ParseTier(*req.Tier)
		m.Tier = &tier
	case h.lookup != nil:
		profile, err := h.lookup.Lookup(r.Context(), m.Handle)
		if err != nil {
			switch {
			case errors.Is(err, rating.ErrAccountNotFound):
				response.ErrWithDetails(w, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "No rated account matches this handle",
					map[string]string{"handle": m.Handle}, requestID)
			case errors.Is(err, rating.ErrInvalidHandle):
				response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed",
					[]validation.FieldError{{Field: "handle", Message: err.Error()}}, requestID)
			default:
				slog.Error("rating lookup failed", "error", err, "handle", m.Handle)
				response.Err(w, http.StatusBadGateway, "RATING_SOURCE_UNAVAILABLE", "Could not reach the rating source", requestID)
			}
			return
		}
		m.Handle = profile.Account.Handle()
		m.ExternalID = &profile.Account.PUUID
		m.Tier = profile.Tier
	}

	if err := h.repo.Create(r.Context(), m); err != nil {
		if errors.Is(err, member.ErrDuplicateHandle) {
			response.Err(w, http.StatusConflict, "DUPLICATE_HANDLE", fmt.Sprintf("A member with handle %q already exists", m.Handle), requestID)
			return
		}
		slog.Error("failed to create member", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create member", requestID)
		return
	}

	slog.Info("member registered", "memberId", m.ID, "handle", m.Handle, "tier", m.TierName())
	response.Success(w, http.StatusCreated, toMemberResponse(m, h.scores, match.Record{}), requestID)
}

// List handles GET /members.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	members, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list members", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list members", requestID)
		return
	}

	records, err := h.records.Records(r.Context())
	if err != nil {
		slog.Error("failed to load member records", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list members", requestID)
		return
	}

	items := make([]memberResponse, 0, len(members))
	for i := range members {
		items = append(items, toMemberResponse(&members[i], h.scores, records[members[i].ID]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GetByID handles GET /members/{id}.
func (h *MemberHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return
	}

	m, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Member not found", requestID)
			return
		}
		slog.Error("failed to get member", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get member", requestID)
		return
	}

	records, err := h.records.Records(r.Context())
	if err != nil {
		slog.Error("failed to load member records", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get member", requestID)
		return
	}

	response.Success(w, http.StatusOK, toMemberResponse(m, h.scores, records[m.ID]), requestID)
}
