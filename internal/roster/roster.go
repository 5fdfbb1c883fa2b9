// Package roster validates the ten-slot team assignment of a match.
package roster

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Side is the team a slot belongs to.
type Side string

const (
	SideBlue Side = "BLUE"
	SideRed  Side = "RED"
)

// Valid reports whether s is BLUE or RED.
func (s Side) Valid() bool {
	return s == SideBlue || s == SideRed
}

// SlotCount is the number of slots in a roster; SideSize slots per side.
const (
	SlotCount = 10
	SideSize  = 5
)

var (
	// ErrInvalidSide is returned when a slot names a side other than BLUE or RED.
	ErrInvalidSide = errors.New("invalid team side")
	// ErrIncompleteRoster is returned when a slot has no member.
	ErrIncompleteRoster = errors.New("roster has an empty slot")
	// ErrDuplicateMember is returned when a member occupies more than one slot.
	ErrDuplicateMember = errors.New("member is assigned to more than one slot")
	// ErrUnbalancedSides is returned when the roster is not five BLUE and five RED.
	ErrUnbalancedSides = errors.New("roster must have five BLUE and five RED slots")
)

// SlotError ties a roster error to the slot (and member) that caused it.
type SlotError struct {
	Err       error
	Slot      int
	OtherSlot int // for ErrDuplicateMember, the slot that holds the member first; otherwise -1
	MemberID  uuid.UUID
}

func (e *SlotError) Error() string {
	if errors.Is(e.Err, ErrDuplicateMember) {
		return fmt.Sprintf("slot %d: member %s is already in slot %d", e.Slot, e.MemberID, e.OtherSlot)
	}
	return fmt.Sprintf("slot %d: %v", e.Slot, e.Err)
}

func (e *SlotError) Unwrap() error { return e.Err }

// SideCountError reports the side counts of an unbalanced roster.
type SideCountError struct {
	Blue int
	Red  int
}

func (e *SideCountError) Error() string {
	return fmt.Sprintf("%v: got %d BLUE and %d RED", ErrUnbalancedSides, e.Blue, e.Red)
}

func (e *SideCountError) Unwrap() error { return ErrUnbalancedSides }

// Assignment is one desired slot of a roster. A zero MemberID marks the slot empty.
type Assignment struct {
	Side     Side
	MemberID uuid.UUID
	Position string
	Champion string
}

// Entry is a validated roster slot.
type Entry struct {
	Side     Side
	MemberID uuid.UUID
	Position string
	Champion string
}

// Roster is a validated ten-slot assignment: five BLUE and five RED slots,
// each holding a distinct member.
type Roster struct {
	entries []Entry
}

// Entries returns a copy of the roster slots in order.
func (r Roster) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Side returns the entries on side s, in slot order.
func (r Roster) Side(s Side) []Entry {
	out := make([]Entry, 0, SideSize)
	for _, e := range r.entries {
		if e.Side == s {
			out = append(out, e)
		}
	}
	return out
}

// MemberIDs returns the members of the roster in slot order.
func (r Roster) MemberIDs() []uuid.UUID {
	out := make([]uuid.UUID, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.MemberID
	}
	return out
}

// Build validates assignments and returns the roster. Errors are reported in
// this order: invalid side, empty slot, duplicate member, side counts.
func Build(assignments []Assignment) (Roster, error) {
	for i, a := range assignments {
		if !a.Side.Valid() {
			return Roster{}, &SlotError{Err: ErrInvalidSide, Slot: i, OtherSlot: -1}
		}
	}

	for i, a := range assignments {
		if a.MemberID == uuid.Nil {
			return Roster{}, &SlotError{Err: ErrIncompleteRoster, Slot: i, OtherSlot: -1}
		}
	}

	first := make(map[uuid.UUID]int, len(assignments))
	for i, a := range assignments {
		if prev, ok := first[a.MemberID]; ok {
			return Roster{}, &SlotError{Err: ErrDuplicateMember, Slot: i, OtherSlot: prev, MemberID: a.MemberID}
		}
		first[a.MemberID] = i
	}

	var blue, red int
	for _, a := range assignments {
		if a.Side == SideBlue {
			blue++
		} else {
			red++
		}
	}
	if blue != SideSize || red != SideSize {
		return Roster{}, &SideCountError{Blue: blue, Red: red}
	}

	entries := make([]Entry, len(assignments))
	for i, a := range assignments {
		entries[i] = Entry(a)
	}
	return Roster{entries: entries}, nil
}
