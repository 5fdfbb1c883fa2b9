// Package balance splits ten players into two five-player teams with the
// smallest possible difference in total score.
package balance

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// TeamSize is the number of players per side.
const TeamSize = 5

// PlayerCount is the number of players a balance request must contain.
const PlayerCount = 2 * TeamSize

// ErrInvalidInput is returned when the candidate set is not exactly ten distinct players.
var ErrInvalidInput = errors.New("invalid balance input")

// InputError describes why a candidate set was rejected.
type InputError struct {
	Count     int
	Duplicate uuid.UUID // uuid.Nil unless a duplicate id was found
}

func (e *InputError) Error() string {
	if e.Duplicate != uuid.Nil {
		return fmt.Sprintf("member %s appears more than once", e.Duplicate)
	}
	return fmt.Sprintf("exactly %d members are required, got %d", PlayerCount, e.Count)
}

// Is reports ErrInvalidInput as a match.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Candidate is a player offered to the engine.
type Candidate struct {
	ID    uuid.UUID
	Score int
}

// Team is one side of a proposed split.
type Team struct {
	Members []Candidate
	Score   int
}

// Result is the chosen split. Members of each team keep their input order.
type Result struct {
	Blue         Team
	Red          Team
	Differential int
}

// Balance returns the split of candidates into BLUE and RED that minimises
// the absolute score difference.
//
// Every split is visited: the 126 five-member combinations that contain
// candidate 0 are enumerated in lexicographic index order and each is taken
// as BLUE. The remaining 126 splits mirror these with the same differential.
// Among equal differentials the first combination found wins, so identical
// input always yields identical output.
func Balance(candidates []Candidate) (Result, error) {
	if err := Validate(candidates); err != nil {
		return Result{}, err
	}

	total := 0
	for _, c := range candidates {
		total += c.Score
	}

	var best [TeamSize]int
	bestDiff := -1

	var combo [TeamSize]int
	combo[0] = 0
	var walk func(depth, start, sum int)
	walk = func(depth, start, sum int) {
		if depth == TeamSize {
			diff := abs(total - 2*sum)
			if bestDiff < 0 || diff < bestDiff {
				bestDiff = diff
				best = combo
			}
			return
		}
		for i := start; i <= PlayerCount-(TeamSize-depth); i++ {
			combo[depth] = i
			walk(depth+1, i+1, sum+candidates[i].Score)
		}
	}
	walk(1, 1, candidates[0].Score)

	return split(candidates, best, bestDiff), nil
}

// Differential returns |blue - red| for an arbitrary assignment of candidates,
// where blue[i] reports whether candidates[i] plays BLUE.
func Differential(candidates []Candidate, blue []bool) int {
	sum := 0
	for i, c := range candidates {
		if blue[i] {
			sum += c.Score
		} else {
			sum -= c.Score
		}
	}
	return abs(sum)
}

// Validate checks that candidates are exactly ten distinct players. Scores
// are not inspected.
func Validate(candidates []Candidate) error {
	if len(candidates) != PlayerCount {
		return &InputError{Count: len(candidates)}
	}
	seen := make(map[uuid.UUID]struct{}, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.ID]; dup {
			return &InputError{Count: len(candidates), Duplicate: c.ID}
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

func split(candidates []Candidate, blueIdx [TeamSize]int, diff int) Result {
	onBlue := make([]bool, len(candidates))
	for _, i := range blueIdx {
		onBlue[i] = true
	}

	res := Result{
		Blue:         Team{Members: make([]Candidate, 0, TeamSize)},
		Red:          Team{Members: make([]Candidate, 0, TeamSize)},
		Differential: diff,
	}
	for i, c := range candidates {
		if onBlue[i] {
			res.Blue.Members = append(res.Blue.Members, c)
			res.Blue.Score += c.Score
		} else {
			res.Red.Members = append(res.Red.Members, c)
			res.Red.Score += c.Score
		}
	}
	return res
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
