package models

// SlotKind is the kind of lineup position a roster slot represents
type SlotKind string

const (
	SlotQB    SlotKind = "QB"
	SlotRB    SlotKind = "RB"
	SlotWR    SlotKind = "WR"
	SlotTE    SlotKind = "TE"
	SlotFLEX  SlotKind = "FLEX"
	SlotK     SlotKind = "K"
	SlotDST   SlotKind = "DST"
	SlotBench SlotKind = "BENCH"
)

// StartingSlotOrder is the canonical order of starting lineup slots
var StartingSlotOrder = []SlotKind{SlotQB, SlotRB, SlotWR, SlotTE, SlotFLEX, SlotK, SlotDST}

// Accepts reports whether a player at pos may occupy a slot of this kind
func (k SlotKind) Accepts(pos Position) bool {
	switch k {
	case SlotFLEX:
		return pos.FlexEligible()
	case SlotBench:
		return true
	default:
		return string(k) == string(pos)
	}
}

// RiskProfile is the discretized risk level of a roster
type RiskProfile string

const (
	RiskConservative RiskProfile = "conservative"
	RiskModerate     RiskProfile = "moderate"
	RiskAggressive   RiskProfile = "aggressive"
)

// RosterSlot is one lineup position. Filled slots are never mutated; a new
// slot value replaces the old one.
type RosterSlot struct {
	Kind         SlotKind `json:"kind"`
	Required     bool     `json:"required"`
	Filled       bool     `json:"filled"`
	PlayerID     string   `json:"playerId,omitempty"`
	PlayerName   string   `json:"playerName,omitempty"`
	Position     Position `json:"position,omitempty"`
	RoundDrafted int      `json:"roundDrafted,omitempty"`
	Reasoning    string   `json:"reasoning,omitempty"`
}

// RosterConstruction is one team's completed simulated build
type RosterConstruction struct {
	TeamID          string                 `json:"teamId"`
	TeamName        string                 `json:"teamName"`
	Personality     TeamPersonalityProfile `json:"personality"`
	StartingLineup  []RosterSlot           `json:"startingLineup"`
	Bench           []RosterSlot           `json:"bench"`
	TotalValue      float64                `json:"totalValue"`
	PositionBalance float64                `json:"positionBalance"`
	Upside          float64                `json:"upside"`
	Floor           float64                `json:"floor"`
	Competitiveness float64                `json:"competitiveness"`
	Uniqueness      float64                `json:"uniqueness"`
	RiskProfile     RiskProfile            `json:"riskProfile"`
	ProjectedWins   float64                `json:"projectedWins"`
	RookieCount     int                    `json:"rookieCount"`
	UniqueFactors   []string               `json:"uniqueFactors,omitempty"`
	Storyline       string                 `json:"storyline,omitempty"`
	Rivals          []string               `json:"rivals,omitempty"`
}

// PlayerIDs returns the ids of every drafted player on the roster
func (r RosterConstruction) PlayerIDs() []string {
	ids := make([]string, 0, len(r.StartingLineup)+len(r.Bench))
	for _, s := range r.StartingLineup {
		if s.Filled {
			ids = append(ids, s.PlayerID)
		}
	}
	for _, s := range r.Bench {
		if s.Filled {
			ids = append(ids, s.PlayerID)
		}
	}
	return ids
}
