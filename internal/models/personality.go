package models

// Strategy is a drafting archetype
type Strategy string

const (
	StrategyValueBased Strategy = "value_based"
	StrategyPositional Strategy = "positional"
	StrategyContrarian Strategy = "contrarian"
	StrategySafe       Strategy = "safe"
	StrategyAggressive Strategy = "aggressive"
	StrategyBalanced   Strategy = "balanced"
)

// AllStrategies is the archetype catalog order used for round-robin assignment
var AllStrategies = []Strategy{
	StrategyValueBased,
	StrategyPositional,
	StrategyContrarian,
	StrategySafe,
	StrategyAggressive,
	StrategyBalanced,
}

// Valid reports whether s is a known archetype
func (s Strategy) Valid() bool {
	for _, known := range AllStrategies {
		if s == known {
			return true
		}
	}
	return false
}

// PersonalityTraits are behavioral flags layered on top of the archetype
type PersonalityTraits struct {
	RookieFocused      bool `json:"rookieFocused"`
	VeteranBias        bool `json:"veteranBias"`
	InjuryAverse       bool `json:"injuryAverse"`
	HandcuffsLover     bool `json:"handcuffsLover"`
	SleeperHunter      bool `json:"sleeperHunter"`
	ConsistencyFocused bool `json:"consistencyFocused"`
	UpsideChaser       bool `json:"upsideChaser"`
}

// TeamPersonalityProfile drives every pick a simulated manager makes.
// It is fixed for the lifetime of one draft.
type TeamPersonalityProfile struct {
	TeamID              string               `json:"teamId"`
	TeamName            string               `json:"teamName"`
	Strategy            Strategy             `json:"strategy"`
	RiskTolerance       float64              `json:"riskTolerance"`
	PositionPreferences map[Position]float64 `json:"positionPreferences"`
	Traits              PersonalityTraits    `json:"personalityTraits"`
	DraftNotes          string               `json:"draftNotes"`
}

// TeamSeat identifies a team taking part in a draft
type TeamSeat struct {
	TeamID      string `json:"teamId"`
	Name        string `json:"name"`
	OwnerUserID string `json:"ownerUserId,omitempty"`
}

// UserBehavior is the optional signal used to bias a team's personality
type UserBehavior struct {
	UserID        string  `json:"userId"`
	RiskTolerance float64 `json:"riskTolerance"`
	Engagement    float64 `json:"engagement"`
	DraftsPlayed  int     `json:"draftsPlayed"`
}
