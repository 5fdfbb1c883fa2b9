package handler

import (
	"time"

	"github.com/scrimnight/scrimnight/internal/match"
	"github.com/scrimnight/scrimnight/internal/member"
)

const timeLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

type memberResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Handle     string  `json:"handle"`
	ExternalID *string `json:"externalId"`
	Tier       string  `json:"tier"`
	Score      int     `json:"score"`
	TotalGames int     `json:"totalGames"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	WinRate    float64 `json:"winRate"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

func toMemberResponse(m *member.Member, scores member.ScoreTable, rec match.Record) memberResponse {
	return memberResponse{
		ID:         m.ID.String(),
		Name:       m.Name,
		Handle:     m.Handle,
		ExternalID: m.ExternalID,
		Tier:       m.TierName(),
		Score:      scores.Score(m.Tier),
		TotalGames: rec.Games(),
		Wins:       rec.Wins,
		Losses:     rec.Losses,
		WinRate:    rec.WinRate(),
		CreatedAt:  formatTime(m.CreatedAt),
		UpdatedAt:  formatTime(m.UpdatedAt),
	}
}

type playerResponse struct {
	MemberID string  `json:"memberId"`
	Name     string  `json:"name"`
	Handle   string  `json:"handle"`
	Side     string  `json:"side"`
	Position *string `json:"position"`
	Champion *string `json:"champion"`
	Win      *bool   `json:"win"`
}

type matchResponse struct {
	ID         string           `json:"id"`
	PlayedAt   string           `json:"playedAt"`
	Info       *string          `json:"info"`
	Outcome    string           `json:"outcome"`
	Status     string           `json:"status"`
	ResolvedAt *string          `json:"resolvedAt"`
	Players    []playerResponse `json:"players"`
	CreatedAt  string           `json:"createdAt"`
	UpdatedAt  string           `json:"updatedAt"`
}

func toMatchResponse(m *match.Match) matchResponse {
	status := match.StatusPending
	if m.IsCompleted() {
		status = match.StatusCompleted
	}

	players := make([]playerResponse, 0, len(m.Players))
	for _, p := range m.Players {
		players = append(players, playerResponse{
			MemberID: p.MemberID.String(),
			Name:     p.Name,
			Handle:   p.Handle,
			Side:     string(p.Side),
			Position: p.Position,
			Champion: p.Champion,
			Win:      m.Won(p),
		})
	}

	return matchResponse{
		ID:         m.ID.String(),
		PlayedAt:   formatTime(m.PlayedAt),
		Info:       m.Info,
		Outcome:    string(m.Outcome),
		Status:     status,
		ResolvedAt: formatTimePtr(m.ResolvedAt),
		Players:    players,
		CreatedAt:  formatTime(m.CreatedAt),
		UpdatedAt:  formatTime(m.UpdatedAt),
	}
}
