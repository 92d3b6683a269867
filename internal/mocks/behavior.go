package mocks

import (
	"context"
	"hash/fnv"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/logger"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
)

// MockBehaviorProvider stands in for the ClickHouse analytics store in local
// development. Known users get fixed profiles; anyone else gets a stable
// profile derived from a hash of the user id.
type MockBehaviorProvider struct {
	known map[string]models.UserBehavior
	// Err, when set, is returned from every lookup
	Err error
}

// NewMockBehaviorProvider creates the development behavior provider
func NewMockBehaviorProvider() *MockBehaviorProvider {
	logger.Info("Using MOCK behavior signals for local development")

	return &MockBehaviorProvider{
		known: map[string]models.UserBehavior{
			"commissioner": {UserID: "commissioner", RiskTolerance: 0.55, Engagement: 0.9, DraftsPlayed: 12},
			"gambler":      {UserID: "gambler", RiskTolerance: 0.85, Engagement: 0.6, DraftsPlayed: 7},
			"grinder":      {UserID: "grinder", RiskTolerance: 0.15, Engagement: 0.4, DraftsPlayed: 20},
		},
	}
}

// GetBehavior returns the profile for a user
func (m *MockBehaviorProvider) GetBehavior(_ context.Context, userID string) (models.UserBehavior, error) {
	if m.Err != nil {
		return models.UserBehavior{}, m.Err
	}
	if b, ok := m.known[userID]; ok {
		return b, nil
	}

	h := fnv.New32a()
	h.Write([]byte(userID))
	v := h.Sum32()
	return models.UserBehavior{
		UserID:        userID,
		RiskTolerance: float64(v%100) / 100,
		Engagement:    float64((v/100)%100) / 100,
		DraftsPlayed:  int((v / 10000) % 15),
	}, nil
}

// MarketSentiment has no signal in development
func (m *MockBehaviorProvider) MarketSentiment(context.Context) (map[string]float64, error) {
	return map[string]float64{}, m.Err
}
