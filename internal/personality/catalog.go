package personality

import "github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"

// Bundle is the default trait set for an archetype
type Bundle struct {
	RiskTolerance       float64
	PositionPreferences map[models.Position]float64
	Traits              models.PersonalityTraits
	Notes               string
}

func prefs(qb, rb, wr, te, k, dst float64) map[models.Position]float64 {
	return map[models.Position]float64{
		models.PositionQB:  qb,
		models.PositionRB:  rb,
		models.PositionWR:  wr,
		models.PositionTE:  te,
		models.PositionK:   k,
		models.PositionDST: dst,
	}
}

// Catalog is the static archetype catalog
var Catalog = map[models.Strategy]Bundle{
	models.StrategyValueBased: {
		RiskTolerance:       0.5,
		PositionPreferences: prefs(1.0, 1.0, 1.0, 1.0, 0.8, 0.8),
		Traits:              models.PersonalityTraits{ConsistencyFocused: true},
		Notes:               "Takes the best player on the board and lets value come to them.",
	},
	models.StrategyPositional: {
		RiskTolerance:       0.45,
		PositionPreferences: prefs(0.9, 1.2, 1.1, 0.9, 0.7, 0.7),
		Traits:              models.PersonalityTraits{HandcuffsLover: true},
		Notes:               "Builds the roster slot by slot, running backs early.",
	},
	models.StrategyContrarian: {
		RiskTolerance:       0.7,
		PositionPreferences: prefs(1.1, 0.9, 1.0, 1.1, 0.8, 0.8),
		Traits:              models.PersonalityTraits{SleeperHunter: true, UpsideChaser: true},
		Notes:               "Fades consensus and attacks positions the room is ignoring.",
	},
	models.StrategySafe: {
		RiskTolerance:       0.2,
		PositionPreferences: prefs(1.0, 1.0, 1.0, 1.0, 0.9, 0.9),
		Traits:              models.PersonalityTraits{VeteranBias: true, InjuryAverse: true, ConsistencyFocused: true},
		Notes:               "Wants proven, healthy veterans with weekly floors.",
	},
	models.StrategyAggressive: {
		RiskTolerance:       0.9,
		PositionPreferences: prefs(0.9, 1.1, 1.2, 1.0, 0.6, 0.6),
		Traits:              models.PersonalityTraits{RookieFocused: true, UpsideChaser: true},
		Notes:               "Swings for league-winning ceilings and young breakouts.",
	},
	models.StrategyBalanced: {
		RiskTolerance:       0.5,
		PositionPreferences: prefs(1.0, 1.0, 1.0, 1.0, 0.9, 0.9),
		Traits:              models.PersonalityTraits{},
		Notes:               "Weighs value, position and need evenly across the draft.",
	},
}
