package models

import "time"

// DraftType selects the pick ordering rule
type DraftType string

const (
	DraftSnake   DraftType = "snake"
	DraftLinear  DraftType = "linear"
	DraftAuction DraftType = "auction"
)

// DraftStatus is the lifecycle state of a live draft
type DraftStatus string

const (
	StatusInitialized DraftStatus = "initialized"
	StatusActive      DraftStatus = "active"
	StatusPaused      DraftStatus = "paused"
	StatusCompleted   DraftStatus = "completed"
	StatusFailed      DraftStatus = "failed"
)

// RosterTemplate holds the number of slots per kind
type RosterTemplate map[SlotKind]int

// DefaultRosterTemplate is QB, 2 RB, 2 WR, TE, FLEX, K, DST and 6 bench spots
func DefaultRosterTemplate() RosterTemplate {
	return RosterTemplate{
		SlotQB:    1,
		SlotRB:    2,
		SlotWR:    2,
		SlotTE:    1,
		SlotFLEX:  1,
		SlotK:     1,
		SlotDST:   1,
		SlotBench: 6,
	}
}

// Size is the total number of slots in the template
func (t RosterTemplate) Size() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}

// StarterCount is the number of required starting slots
func (t RosterTemplate) StarterCount() int {
	return t.Size() - t[SlotBench]
}

// DraftConfig configures one draft
type DraftConfig struct {
	LeagueID       string         `json:"leagueId"`
	Rounds         int            `json:"rounds"`
	PickTimeLimit  time.Duration  `json:"pickTimeLimit"`
	DraftType      DraftType      `json:"draftType"`
	RosterTemplate RosterTemplate `json:"rosterTemplate"`
}

// Tier is a human-readable band of players at one position
type Tier struct {
	Number    int      `json:"number"`
	PlayerIDs []string `json:"playerIds"`
}

// RankedPlayer is a player scored for a specific team
type RankedPlayer struct {
	PlayerID string  `json:"playerId"`
	Score    float64 `json:"score"`
}

// DraftBoard is the shared, read-only evaluation of the player pool for one draft
type DraftBoard struct {
	Evaluations          []PlayerEvaluation        `json:"evaluations"`
	Tiers                map[Position][]Tier       `json:"tiers"`
	PersonalizedRankings map[string][]RankedPlayer `json:"personalizedRankings"`
	Sleepers             []string                  `json:"sleepers"`
	Busts                []string                  `json:"busts"`
	Breakouts            []string                  `json:"breakouts"`
}

// Evaluation looks up a player on the board
func (b *DraftBoard) Evaluation(playerID string) (PlayerEvaluation, bool) {
	for _, e := range b.Evaluations {
		if e.Player.ID == playerID {
			return e, true
		}
	}
	return PlayerEvaluation{}, false
}

// DraftPick is one resolved selection. Picks are append-only.
type DraftPick struct {
	PickNumber   int           `json:"pickNumber"`
	Round        int           `json:"round"`
	TeamID       string        `json:"teamId"`
	PlayerID     string        `json:"playerId"`
	PlayerName   string        `json:"playerName"`
	Position     Position      `json:"position"`
	TimeTaken    time.Duration `json:"timeTaken"`
	Confidence   float64       `json:"confidence"`
	Alternatives []string      `json:"alternatives"`
	Reasoning    string        `json:"reasoning"`
	Fallback     bool          `json:"fallback,omitempty"`
}

// DraftState is the unit of persistence and recovery for a live draft
type DraftState struct {
	DraftID       string                   `json:"draftId"`
	LeagueID      string                   `json:"leagueId"`
	Config        DraftConfig              `json:"config"`
	Personalities []TeamPersonalityProfile `json:"personalities"`
	DraftOrder    []string                 `json:"draftOrder"`
	Board         DraftBoard               `json:"board"`
	CurrentPick   int                      `json:"currentPick"`
	Picks         []DraftPick              `json:"picks"`
	Completed     bool                     `json:"completed"`
	Status        DraftStatus              `json:"status"`
	FailureReason string                   `json:"failureReason,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

// TotalPicks is rounds × teams
func (s *DraftState) TotalPicks() int {
	return s.Config.Rounds * len(s.DraftOrder)
}

// Personality returns the profile for a team
func (s *DraftState) Personality(teamID string) (TeamPersonalityProfile, bool) {
	for _, p := range s.Personalities {
		if p.TeamID == teamID {
			return p, true
		}
	}
	return TeamPersonalityProfile{}, false
}

// DraftedIDs is the set of players already taken
func (s *DraftState) DraftedIDs() map[string]bool {
	ids := make(map[string]bool, len(s.Picks))
	for _, p := range s.Picks {
		ids[p.PlayerID] = true
	}
	return ids
}
