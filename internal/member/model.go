package member

import (
	"time"

	"github.com/google/uuid"
)

// Tier is a ranked-queue tier. Tiers are ordered; see Tiers.
type Tier string

const (
	TierIron        Tier = "IRON"
	TierBronze      Tier = "BRONZE"
	TierSilver      Tier = "SILVER"
	TierGold        Tier = "GOLD"
	TierPlatinum    Tier = "PLATINUM"
	TierEmerald     Tier = "EMERALD"
	TierDiamond     Tier = "DIAMOND"
	TierMaster      Tier = "MASTER"
	TierGrandmaster Tier = "GRANDMASTER"
	TierChallenger  Tier = "CHALLENGER"
)

// Tiers lists every tier from lowest to highest.
var Tiers = []Tier{
	TierIron, TierBronze, TierSilver, TierGold, TierPlatinum,
	TierEmerald, TierDiamond, TierMaster, TierGrandmaster, TierChallenger,
}

// Member represents a row in the members table.
type Member struct {
	ID         uuid.UUID
	Name       string
	Handle     string  // "gameName#tagLine"
	ExternalID *string // rating-source account id; nil when registered without a lookup
	Tier       *Tier   // nil when unranked
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TierName returns the tier as a string, or "UNRANKED" when no tier is set.
func (m *Member) TierName() string {
	if m.Tier == nil {
		return "UNRANKED"
	}
	return string(*m.Tier)
}
