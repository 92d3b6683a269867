package models

// Position is an NFL roster position a player is eligible for
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDST Position = "DST"
)

// AllPositions lists every draftable position in display order
var AllPositions = []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDST}

// Valid reports whether p is a known position
func (p Position) Valid() bool {
	switch p {
	case PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDST:
		return true
	}
	return false
}

// FlexEligible reports whether p can fill a FLEX slot
func (p Position) FlexEligible() bool {
	return p == PositionRB || p == PositionWR || p == PositionTE
}

// InjuryStatus is the reported practice/game status of a player
type InjuryStatus string

const (
	InjuryHealthy      InjuryStatus = "healthy"
	InjuryQuestionable InjuryStatus = "questionable"
	InjuryDoubtful     InjuryStatus = "doubtful"
	InjuryOut          InjuryStatus = "out"
	InjuryReserve      InjuryStatus = "ir"
)

// PlayerProfile is the immutable player record supplied by the data feed
type PlayerProfile struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Position        Position     `json:"position"`
	NFLTeam         string       `json:"nflTeam"`
	ProjectedPoints float64      `json:"projectedPoints"`
	ADP             float64      `json:"adp"`
	InjuryStatus    InjuryStatus `json:"injuryStatus"`
	YearsExperience int          `json:"yearsExperience"`
	ByeWeek         int          `json:"byeWeek"`
}

// PlayerEvaluation is the normalized, league-relative view of a player.
// All scores are in [0,1] except ADPDifferential, which is signed and in picks.
type PlayerEvaluation struct {
	Player          PlayerProfile `json:"player"`
	OverallValue    float64       `json:"overallValue"`
	PositionalValue float64       `json:"positionalValue"`
	TeamFit         float64       `json:"teamFit"`
	ADPDifferential float64       `json:"adpDifferential"`
	InjuryRisk      float64       `json:"injuryRisk"`
	Upside          float64       `json:"upside"`
	Floor           float64       `json:"floor"`
	Consistency     float64       `json:"consistency"`
	Age             int           `json:"age"`
	RookieBonus     float64       `json:"rookieBonus"`
	Scarcity        float64       `json:"scarcity"`
	// Imputed is set when projections were missing and a baseline was used
	Imputed bool `json:"imputed,omitempty"`
}

// ID is shorthand for the evaluated player's id
func (e PlayerEvaluation) ID() string { return e.Player.ID }

// Position is shorthand for the evaluated player's position
func (e PlayerEvaluation) Position() Position { return e.Player.Position }

// IsRookie reports whether the player has no NFL experience
func (e PlayerEvaluation) IsRookie() bool { return e.Player.YearsExperience == 0 }

// Signals are contextual inputs to evaluation that are computed elsewhere
type Signals struct {
	TeamOffense        map[string]float64 `json:"teamOffense,omitempty"`
	ScheduleDifficulty map[string]float64 `json:"scheduleDifficulty,omitempty"`
	MarketSentiment    map[string]float64 `json:"marketSentiment,omitempty"`
}
