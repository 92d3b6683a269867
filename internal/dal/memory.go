package dal

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
)

// MemoryStore implements Store in process memory. Draft states and league
// compositions are kept encoded so callers never share references with the
// store, the same as a database round trip.
type MemoryStore struct {
	mu           sync.RWMutex
	drafts       map[string][]byte
	status       map[string]models.DraftStatus
	players      map[string][]models.PlayerProfile
	teams        map[string][]models.TeamSeat
	roster       map[string][]RosterPlayer
	compositions map[string][]byte
}

// NewMemoryStore creates an in-memory store seeded with the default league
func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{
		drafts:       make(map[string][]byte),
		status:       make(map[string]models.DraftStatus),
		players:      make(map[string][]models.PlayerProfile),
		teams:        make(map[string][]models.TeamSeat),
		roster:       make(map[string][]RosterPlayer),
		compositions: make(map[string][]byte),
	}
	// cannot fail against an empty map
	_ = seedDefaults(context.Background(), m)
	return m
}

func (m *MemoryStore) LoadDraftState(_ context.Context, draftID string) (*models.DraftState, error) {
	m.mu.RLock()
	blob, ok := m.drafts[draftID]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.NotFoundf("draft %s not found", draftID)
	}

	var state models.DraftState
	if err := json.Unmarshal(blob, &state); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStateCorruption, "decode draft state")
	}
	return &state, nil
}

func (m *MemoryStore) SaveDraftState(_ context.Context, state *models.DraftState) error {
	if state == nil || state.DraftID == "" {
		return apperrors.Validationf("draft id is required")
	}
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode draft state: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[state.DraftID] = blob
	m.status[state.DraftID] = state.Status
	return nil
}

func (m *MemoryStore) ListDraftIDs(_ context.Context, status models.DraftStatus) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, s := range m.status {
		if s == status {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryStore) LoadPlayerPool(_ context.Context, leagueID string) ([]models.PlayerProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pool, ok := m.players[leagueID]
	if !ok || len(pool) == 0 {
		pool = m.players[DefaultLeagueID]
	}
	out := make([]models.PlayerProfile, len(pool))
	copy(out, pool)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpsertPlayers(_ context.Context, leagueID string, players []models.PlayerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.players[leagueID]
	index := make(map[string]int, len(existing))
	for i, p := range existing {
		index[p.ID] = i
	}
	for _, p := range players {
		if i, ok := index[p.ID]; ok {
			existing[i] = p
			continue
		}
		index[p.ID] = len(existing)
		existing = append(existing, p)
	}
	m.players[leagueID] = existing
	return nil
}

func (m *MemoryStore) LoadLeagueTeams(_ context.Context, leagueID string) ([]models.TeamSeat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	teams, ok := m.teams[leagueID]
	if !ok || len(teams) == 0 {
		return nil, apperrors.NotFoundf("league %s has no teams", leagueID)
	}
	out := make([]models.TeamSeat, len(teams))
	copy(out, teams)
	return out, nil
}

func (m *MemoryStore) SaveLeagueTeams(_ context.Context, leagueID string, teams []models.TeamSeat) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.TeamSeat, len(teams))
	copy(out, teams)
	m.teams[leagueID] = out
	return nil
}

func (m *MemoryStore) MaterializeRosterPlayer(_ context.Context, rp RosterPlayer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.roster[rp.DraftID] {
		if existing.PlayerID == rp.PlayerID {
			return nil
		}
	}
	m.roster[rp.DraftID] = append(m.roster[rp.DraftID], rp)
	return nil
}

func (m *MemoryStore) RosterPlayers(_ context.Context, draftID string) ([]RosterPlayer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]RosterPlayer, len(m.roster[draftID]))
	copy(out, m.roster[draftID])
	sort.Slice(out, func(i, j int) bool { return out[i].PickNumber < out[j].PickNumber })
	return out, nil
}

func (m *MemoryStore) LoadLeagueComposition(_ context.Context, leagueID string) (*models.LeagueComposition, error) {
	m.mu.RLock()
	blob, ok := m.compositions[leagueID]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.NotFoundf("league %s has no composition", leagueID)
	}

	var comp models.LeagueComposition
	if err := json.Unmarshal(blob, &comp); err != nil {
		return nil, fmt.Errorf("decode league composition: %w", err)
	}
	return &comp, nil
}

func (m *MemoryStore) SaveLeagueComposition(_ context.Context, comp *models.LeagueComposition) error {
	if comp == nil || comp.LeagueID == "" {
		return apperrors.Validationf("league id is required")
	}
	blob, err := json.Marshal(comp)
	if err != nil {
		return fmt.Errorf("encode league composition: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.compositions[comp.LeagueID] = blob
	return nil
}

func (m *MemoryStore) Close() error { return nil }
