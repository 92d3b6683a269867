package dal

import (
	"context"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
)

// DefaultLeagueID is the league seeded on first start. Leagues without their
// own player feed draft from its pool.
const DefaultLeagueID = "default"

// Store is the persistent store behind live drafts and league generation.
// Saves are upserts, so writing the same state twice is harmless.
type Store interface {
	// LoadDraftState returns a NotFound error for unknown drafts
	LoadDraftState(ctx context.Context, draftID string) (*models.DraftState, error)
	SaveDraftState(ctx context.Context, state *models.DraftState) error
	ListDraftIDs(ctx context.Context, status models.DraftStatus) ([]string, error)

	LoadPlayerPool(ctx context.Context, leagueID string) ([]models.PlayerProfile, error)
	UpsertPlayers(ctx context.Context, leagueID string, players []models.PlayerProfile) error

	// LoadLeagueTeams returns teams in seat order, or NotFound
	LoadLeagueTeams(ctx context.Context, leagueID string) ([]models.TeamSeat, error)
	SaveLeagueTeams(ctx context.Context, leagueID string, teams []models.TeamSeat) error

	// MaterializeRosterPlayer records a drafted player on a team roster.
	// Repeating the call for the same draft and player is a no-op.
	MaterializeRosterPlayer(ctx context.Context, rp RosterPlayer) error
	RosterPlayers(ctx context.Context, draftID string) ([]RosterPlayer, error)

	// LoadLeagueComposition returns NotFound until a league is generated
	LoadLeagueComposition(ctx context.Context, leagueID string) (*models.LeagueComposition, error)
	SaveLeagueComposition(ctx context.Context, comp *models.LeagueComposition) error

	Close() error
}

// RosterPlayer is one materialized roster row
type RosterPlayer struct {
	DraftID    string `json:"draftId"`
	TeamID     string `json:"teamId"`
	PlayerID   string `json:"playerId"`
	PickNumber int    `json:"pickNumber"`
}
