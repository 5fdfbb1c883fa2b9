package roster

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrSlotOutOfRange is returned when a Board operation names a slot outside 0..9.
var ErrSlotOutOfRange = errors.New("slot out of range")

// ErrEmptySlot is returned when moving from a slot that holds no member.
var ErrEmptySlot = errors.New("slot is empty")

// Slot is one editable position on a Board. Position and Champion belong to
// the slot, not to the member in it.
type Slot struct {
	Side     Side
	MemberID uuid.UUID
	Position string
	Champion string
}

// Empty reports whether the slot has no member.
func (s Slot) Empty() bool { return s.MemberID == uuid.Nil }

// Board is a roster being edited. Every operation returns a new Board and
// leaves the receiver untouched, and no member ever occupies two slots.
type Board struct {
	slots [SlotCount]Slot
}

// NewBoard returns an empty board with slots 0-4 on BLUE and 5-9 on RED.
func NewBoard() Board {
	var b Board
	for i := range b.slots {
		if i < SideSize {
			b.slots[i].Side = SideBlue
		} else {
			b.slots[i].Side = SideRed
		}
	}
	return b
}

// Slot returns slot i.
func (b Board) Slot(i int) (Slot, error) {
	if err := checkSlot(i); err != nil {
		return Slot{}, err
	}
	return b.slots[i], nil
}

// SlotOf returns the slot holding member, or -1.
func (b Board) SlotOf(member uuid.UUID) int {
	if member == uuid.Nil {
		return -1
	}
	for i, s := range b.slots {
		if s.MemberID == member {
			return i
		}
	}
	return -1
}

// Place puts member into slot to. If the member already sits in another slot
// that slot is vacated, metadata included. A member previously in slot to is
// dropped from the board; slot to keeps its position and champion.
func (b Board) Place(to int, member uuid.UUID) (Board, error) {
	if err := checkSlot(to); err != nil {
		return b, err
	}
	if member == uuid.Nil {
		return b, fmt.Errorf("placing into slot %d: %w", to, ErrEmptySlot)
	}
	from := b.SlotOf(member)
	if from == to {
		return b, nil
	}
	if from >= 0 {
		b.slots[from] = vacate(b.slots[from])
	}
	b.slots[to].MemberID = member
	return b, nil
}

// Move relocates the member in slot from to slot to, vacating from.
func (b Board) Move(from, to int) (Board, error) {
	if err := checkSlot(from); err != nil {
		return b, err
	}
	if err := checkSlot(to); err != nil {
		return b, err
	}
	if b.slots[from].Empty() {
		return b, fmt.Errorf("moving from slot %d: %w", from, ErrEmptySlot)
	}
	return b.Place(to, b.slots[from].MemberID)
}

// Clear empties slot i and drops its position and champion.
func (b Board) Clear(i int) (Board, error) {
	if err := checkSlot(i); err != nil {
		return b, err
	}
	b.slots[i] = vacate(b.slots[i])
	return b, nil
}

// SetPosition sets the position tag of slot i.
func (b Board) SetPosition(i int, position string) (Board, error) {
	if err := checkSlot(i); err != nil {
		return b, err
	}
	b.slots[i].Position = position
	return b, nil
}

// SetChampion sets the champion tag of slot i.
func (b Board) SetChampion(i int, champion string) (Board, error) {
	if err := checkSlot(i); err != nil {
		return b, err
	}
	b.slots[i].Champion = champion
	return b, nil
}

// Assignments returns the board as a slice suitable for Build.
func (b Board) Assignments() []Assignment {
	out := make([]Assignment, SlotCount)
	for i, s := range b.slots {
		out[i] = Assignment(s)
	}
	return out
}

// Build validates the board.
func (b Board) Build() (Roster, error) {
	return Build(b.Assignments())
}

func vacate(s Slot) Slot {
	return Slot{Side: s.Side}
}

func checkSlot(i int) error {
	if i < 0 || i >= SlotCount {
		return fmt.Errorf("slot %d: %w", i, ErrSlotOutOfRange)
	}
	return nil
}
