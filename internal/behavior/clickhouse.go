package behavior

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
)

// ClickHouseProvider aggregates draft interaction analytics into behavior
// signals. Each row of draft_interactions is one user action in a draft room;
// reach_score is how far ahead of ADP the user picked, scaled to [0,1].
type ClickHouseProvider struct {
	conn driver.Conn
}

// NewClickHouseProvider connects and pings ClickHouse
func NewClickHouseProvider(addr, database, username, password string) (*ClickHouseProvider, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseProvider{conn: conn}, nil
}

// GetBehavior returns a user's risk tolerance, engagement and draft count
// over the last 180 days
func (c *ClickHouseProvider) GetBehavior(ctx context.Context, userID string) (models.UserBehavior, error) {
	query := `
		SELECT
			toUInt32(uniqExact(draft_id)) AS drafts,
			ifNotFinite(avg(reach_score), 0.5) AS risk,
			least(1.0, count() / 500.0) AS engagement
		FROM draft_interactions
		WHERE user_id = $1
		AND timestamp >= now() - INTERVAL 180 DAY
	`

	var (
		drafts     uint32
		risk       float64
		engagement float64
	)
	row := c.conn.QueryRow(ctx, query, userID)
	if err := row.Scan(&drafts, &risk, &engagement); err != nil {
		return models.UserBehavior{}, apperrors.CapabilityUnavailable("behavior signals", err)
	}
	if drafts == 0 {
		return models.UserBehavior{}, apperrors.NotFoundf("no draft history for user %s", userID)
	}

	return models.UserBehavior{
		UserID:        userID,
		RiskTolerance: risk,
		Engagement:    engagement,
		DraftsPlayed:  int(drafts),
	}, nil
}

// MarketSentiment compares how often each player was queued versus passed
// over in the last 30 days
func (c *ClickHouseProvider) MarketSentiment(ctx context.Context) (map[string]float64, error) {
	query := `
		SELECT
			player_id,
			(countIf(action = 'queue') - countIf(action = 'pass')) / greatest(count(), 1) AS sentiment
		FROM draft_interactions
		WHERE timestamp >= now() - INTERVAL 30 DAY
		AND player_id != ''
		GROUP BY player_id
	`

	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, apperrors.CapabilityUnavailable("market sentiment", err)
	}
	defer rows.Close()

	sentiment := make(map[string]float64)
	for rows.Next() {
		var id string
		var s float64
		if err := rows.Scan(&id, &s); err != nil {
			return nil, apperrors.CapabilityUnavailable("market sentiment", err)
		}
		sentiment[id] = s
	}
	return sentiment, rows.Err()
}

// Close closes the ClickHouse connection
func (c *ClickHouseProvider) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
