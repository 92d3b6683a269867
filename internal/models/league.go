package models

import "time"

// Rivalry pairs two teams the narrative pass expects to clash
type Rivalry struct {
	TeamA  string `json:"teamA"`
	TeamB  string `json:"teamB"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// Matchup is a projected regular-season game worth watching
type Matchup struct {
	Week  int     `json:"week"`
	TeamA string  `json:"teamA"`
	TeamB string  `json:"teamB"`
	Kind  string  `json:"kind"` // "rivalry" or "contender"
	Hype  float64 `json:"hype"`
}

// PlayoffTiers buckets teams by expected finish
type PlayoffTiers struct {
	Favorites []string `json:"favorites"`
	Wildcards []string `json:"wildcards"`
	Sleepers  []string `json:"sleepers"`
}

// LeagueComposition is the output of a full league simulation
type LeagueComposition struct {
	LeagueID           string               `json:"leagueId"`
	Generation         int                  `json:"generation"`
	Rosters            []RosterConstruction `json:"rosters"`
	CompetitiveBalance float64              `json:"competitiveBalance"`
	ParityScore        float64              `json:"parityScore"`
	Storylines         []string             `json:"storylines"`
	PlayoffTiers       PlayoffTiers         `json:"playoffTiers"`
	Rivalries          []Rivalry            `json:"rivalries"`
	KeyMatchups        []Matchup            `json:"keyMatchups"`
	GeneratedAt        time.Time            `json:"generatedAt"`
}
