package member

import (
	"fmt"
	"strings"
)

// ScoreTable maps tiers to balance scores. Tiers absent from the table
// score as unranked.
type ScoreTable struct {
	scores   map[Tier]int
	unranked int
}

// DefaultScoreTable returns the stock tier mapping.
func DefaultScoreTable() ScoreTable {
	st, _ := NewScoreTable(map[string]int{
		"IRON": 100, "BRONZE": 200, "SILVER": 300, "GOLD": 400, "PLATINUM": 500,
		"EMERALD": 600, "DIAMOND": 700, "MASTER": 800, "GRANDMASTER": 900, "CHALLENGER": 1000,
	}, 50)
	return st
}

// NewScoreTable builds a ScoreTable from tier names (case-insensitive).
// Scores must increase strictly with tier order and every configured
// score must exceed the unranked baseline.
func NewScoreTable(scores map[string]int, unranked int) (ScoreTable, error) {
	st := ScoreTable{scores: make(map[Tier]int, len(scores)), unranked: unranked}
	for name, score := range scores {
		tier, err := ParseTier(name)
		if err != nil {
			return ScoreTable{}, err
		}
		st.scores[tier] = score
	}

	prev, prevTier := unranked, Tier("UNRANKED")
	for _, tier := range Tiers {
		score, ok := st.scores[tier]
		if !ok {
			continue
		}
		if score <= prev {
			return ScoreTable{}, fmt.Errorf("tier score for %s (%d) must be greater than %s (%d)", tier, score, prevTier, prev)
		}
		prev, prevTier = score, tier
	}
	return st, nil
}

// Score returns the balance score for a tier; nil means unranked.
func (st ScoreTable) Score(tier *Tier) int {
	if tier == nil {
		return st.unranked
	}
	if score, ok := st.scores[*tier]; ok {
		return score
	}
	return st.unranked
}

// ParseTier normalises a tier name. It returns an error for unknown names.
func ParseTier(name string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(name)))
	for _, known := range Tiers {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tier %q", name)
}
