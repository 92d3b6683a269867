// Package behavior supplies historical user-behavior signals used to bias
// simulated manager personalities. Signals are optional: a missing or failing
// provider never blocks draft creation.
package behavior

import (
	"context"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
)

// Provider looks up behavior for a platform user
type Provider interface {
	GetBehavior(ctx context.Context, userID string) (models.UserBehavior, error)
}

// SentimentSource supplies per-player market sentiment in [-1,1]
type SentimentSource interface {
	MarketSentiment(ctx context.Context) (map[string]float64, error)
}
