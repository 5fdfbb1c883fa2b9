package validation_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrimnight/scrimnight/internal/api/validation"
	"github.com/scrimnight/scrimnight/internal/roster"
)

func strPtr(s string) *string { return &s }

func fields(errs []validation.FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestValidateCreateMemberRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        validation.CreateMemberRequest
		wantFields []string
	}{
		{
			name: "valid without tier",
			req:  validation.CreateMemberRequest{Name: "Faker", Handle: "Hide on bush#KR1"},
		},
		{
			name: "valid with lowercase tier",
			req:  validation.CreateMemberRequest{Name: "Faker", Handle: "Hide on bush#KR1", Tier: strPtr("challenger")},
		},
		{
			name:       "blank name",
			req:        validation.CreateMemberRequest{Name: "   ", Handle: "a#b"},
			wantFields: []string{"name"},
		},
		{
			name:       "name too long",
			req:        validation.CreateMemberRequest{Name: strings.Repeat("x", 101), Handle: "a#b"},
			wantFields: []string{"name"},
		},
		{
			name:       "handle without tag",
			req:        validation.CreateMemberRequest{Name: "Faker", Handle: "Faker"},
			wantFields: []string{"handle"},
		},
		{
			name:       "handle with empty tag",
			req:        validation.CreateMemberRequest{Name: "Faker", Handle: "Faker#"},
			wantFields: []string{"handle"},
		},
		{
			name:       "handle with empty game name",
			req:        validation.CreateMemberRequest{Name: "Faker", Handle: "#KR1"},
			wantFields: []string{"handle"},
		},
		{
			name:       "unknown tier",
			req:        validation.CreateMemberRequest{Name: "Faker", Handle: "a#b", Tier: strPtr("WOOD")},
			wantFields: []string{"tier"},
		},
		{
			name:       "everything missing",
			req:        validation.CreateMemberRequest{},
			wantFields: []string{"name", "handle"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			errs := validation.ValidateCreateMemberRequest(tt.req)
			if tt.wantFields == nil {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.wantFields, fields(errs))
		})
	}
}

func TestValidateBalanceRequest(t *testing.T) {
	t.Parallel()

	t.Run("nil is required", func(t *testing.T) {
		ids, errs := validation.ValidateBalanceRequest(nil)
		assert.Nil(t, ids)
		assert.Equal(t, []string{"memberIds"}, fields(errs))
	})

	t.Run("any count parses", func(t *testing.T) {
		a, b := uuid.New(), uuid.New()
		ids, errs := validation.ValidateBalanceRequest([]string{a.String(), b.String(), a.String()})
		assert.Empty(t, errs)
		assert.Equal(t, []uuid.UUID{a, b, a}, ids)
	})

	t.Run("reports every malformed id", func(t *testing.T) {
		ids, errs := validation.ValidateBalanceRequest([]string{"x", uuid.NewString(), "y"})
		assert.Nil(t, ids)
		assert.Equal(t, []string{"memberIds[0]", "memberIds[2]"}, fields(errs))
	})
}

func TestValidateCreateMatchRequest(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	t.Run("players required", func(t *testing.T) {
		_, errs := validation.ValidateCreateMatchRequest(nil, nil)
		assert.Equal(t, []string{"players"}, fields(errs))
	})

	t.Run("normalises side and trims metadata", func(t *testing.T) {
		assignments, errs := validation.ValidateCreateMatchRequest([]validation.PlayerSlot{
			{MemberID: id.String(), Side: " blue ", Position: " JUNGLE ", Champion: "Lee Sin "},
		}, strPtr("finals"))
		require.Empty(t, errs)
		require.Len(t, assignments, 1)
		assert.Equal(t, roster.Assignment{Side: roster.SideBlue, MemberID: id, Position: "JUNGLE", Champion: "Lee Sin"}, assignments[0])
	})

	t.Run("empty member id is an empty slot", func(t *testing.T) {
		assignments, errs := validation.ValidateCreateMatchRequest([]validation.PlayerSlot{{Side: "RED"}}, nil)
		require.Empty(t, errs)
		assert.Equal(t, uuid.Nil, assignments[0].MemberID)
	})

	t.Run("unknown side passes through to the roster builder", func(t *testing.T) {
		assignments, errs := validation.ValidateCreateMatchRequest([]validation.PlayerSlot{{MemberID: id.String(), Side: "green"}}, nil)
		require.Empty(t, errs)
		assert.Equal(t, roster.Side("GREEN"), assignments[0].Side)
	})

	t.Run("field limits", func(t *testing.T) {
		_, errs := validation.ValidateCreateMatchRequest([]validation.PlayerSlot{{
			MemberID: "nope",
			Side:     "BLUE",
			Position: strings.Repeat("p", validation.MaxPositionLength+1),
			Champion: strings.Repeat("c", validation.MaxChampionLength+1),
		}}, strPtr(strings.Repeat("i", validation.MaxInfoLength+1)))
		assert.Equal(t, []string{"players[0].memberId", "players[0].position", "players[0].champion", "info"}, fields(errs))
	})
}

func TestValidateResultRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		winner   string
		wantSide roster.Side
		wantErr  bool
	}{
		{"BLUE", roster.SideBlue, false},
		{"red", roster.SideRed, false},
		{" Red ", roster.SideRed, false},
		{"", "", true},
		{"PENDING", "", true},
		{"purple", "", true},
	}

	for _, tt := range tests {
		side, errs := validation.ValidateResultRequest(tt.winner)
		if tt.wantErr {
			assert.Equal(t, []string{"winner"}, fields(errs), tt.winner)
			continue
		}
		assert.Empty(t, errs, tt.winner)
		assert.Equal(t, tt.wantSide, side, tt.winner)
	}
}
