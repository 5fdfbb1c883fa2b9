package roster_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrimnight/scrimnight/internal/roster"
)

func validAssignments() []roster.Assignment {
	out := make([]roster.Assignment, roster.SlotCount)
	for i := range out {
		side := roster.SideBlue
		if i >= roster.SideSize {
			side = roster.SideRed
		}
		out[i] = roster.Assignment{Side: side, MemberID: uuid.New()}
	}
	return out
}

func TestBuild_Success(t *testing.T) {
	t.Parallel()

	in := validAssignments()
	in[0].Position = "TOP"
	in[0].Champion = "Garen"

	r, err := roster.Build(in)
	require.NoError(t, err)

	entries := r.Entries()
	require.Len(t, entries, roster.SlotCount)
	assert.Equal(t, in[0].MemberID, entries[0].MemberID)
	assert.Equal(t, "TOP", entries[0].Position)
	assert.Equal(t, "Garen", entries[0].Champion)
	assert.Len(t, r.Side(roster.SideBlue), roster.SideSize)
	assert.Len(t, r.Side(roster.SideRed), roster.SideSize)
	assert.Len(t, r.MemberIDs(), roster.SlotCount)
}

func TestBuild_InterleavedSides(t *testing.T) {
	t.Parallel()

	in := validAssignments()
	for i := range in {
		if i%2 == 0 {
			in[i].Side = roster.SideBlue
		} else {
			in[i].Side = roster.SideRed
		}
	}

	_, err := roster.Build(in)
	assert.NoError(t, err)
}

func TestBuild_EntriesAreCopies(t *testing.T) {
	t.Parallel()

	r, err := roster.Build(validAssignments())
	require.NoError(t, err)

	entries := r.Entries()
	entries[0].MemberID = uuid.Nil
	assert.NotEqual(t, uuid.Nil, r.Entries()[0].MemberID)
}

func TestBuild_EmptySlot(t *testing.T) {
	t.Parallel()

	in := validAssignments()
	in[3].MemberID = uuid.Nil

	_, err := roster.Build(in)
	require.Error(t, err)
	assert.ErrorIs(t, err, roster.ErrIncompleteRoster)

	var slotErr *roster.SlotError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, 3, slotErr.Slot)
}

func TestBuild_DuplicateMemberAcrossSides(t *testing.T) {
	t.Parallel()

	seven := uuid.MustParse("00000000-0000-0000-0000-000000000007")
	in := validAssignments()
	in[1].MemberID = seven
	in[6].MemberID = seven

	_, err := roster.Build(in)
	require.Error(t, err)
	assert.ErrorIs(t, err, roster.ErrDuplicateMember)

	var slotErr *roster.SlotError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, seven, slotErr.MemberID)
	assert.Equal(t, 6, slotErr.Slot)
	assert.Equal(t, 1, slotErr.OtherSlot)
	assert.Contains(t, err.Error(), seven.String())
}

func TestBuild_UnbalancedSides(t *testing.T) {
	t.Parallel()

	in := validAssignments()
	in[5].Side = roster.SideBlue

	_, err := roster.Build(in)
	require.Error(t, err)
	assert.ErrorIs(t, err, roster.ErrUnbalancedSides)

	var countErr *roster.SideCountError
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, 6, countErr.Blue)
	assert.Equal(t, 4, countErr.Red)
}

func TestBuild_WrongLength(t *testing.T) {
	t.Parallel()

	_, err := roster.Build(validAssignments()[:9])
	assert.ErrorIs(t, err, roster.ErrUnbalancedSides)

	_, err = roster.Build(append(validAssignments(), roster.Assignment{Side: roster.SideRed, MemberID: uuid.New()}))
	assert.ErrorIs(t, err, roster.ErrUnbalancedSides)

	_, err = roster.Build(nil)
	assert.ErrorIs(t, err, roster.ErrUnbalancedSides)
}

func TestBuild_InvalidSide(t *testing.T) {
	t.Parallel()

	in := validAssignments()
	in[2].Side = "GREEN"

	_, err := roster.Build(in)
	require.Error(t, err)
	assert.ErrorIs(t, err, roster.ErrInvalidSide)
}

func TestBuild_ErrorPrecedence(t *testing.T) {
	t.Parallel()

	// Empty slot, duplicate and side imbalance at once: the empty slot is reported.
	in := validAssignments()
	in[0].MemberID = uuid.Nil
	in[2].MemberID = in[3].MemberID
	in[9].Side = roster.SideBlue

	_, err := roster.Build(in)
	assert.ErrorIs(t, err, roster.ErrIncompleteRoster)

	in[0].MemberID = uuid.New()
	_, err = roster.Build(in)
	assert.ErrorIs(t, err, roster.ErrDuplicateMember)
}

func TestBuild_SucceedsIffValid(t *testing.T) {
	t.Parallel()

	// Every blue/red mask of ten filled, distinct slots succeeds only at 5/5.
	for mask := 0; mask < 1<<roster.SlotCount; mask++ {
		in := validAssignments()
		blue := 0
		for i := range in {
			if mask&(1<<i) != 0 {
				in[i].Side = roster.SideBlue
				blue++
			} else {
				in[i].Side = roster.SideRed
			}
		}

		_, err := roster.Build(in)
		if blue == roster.SideSize {
			assert.NoError(t, err, "mask %b", mask)
		} else {
			assert.ErrorIs(t, err, roster.ErrUnbalancedSides, "mask %b", mask)
		}
	}
}
