package draft

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/Billy-Davies-2/gridiron-draft-sim/internal/errors"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/snake"
)

// validState is a 4-team, 2-round draft with picks made through pick
func validState(picks int) *models.DraftState {
	order := []string{"a", "b", "c", "d"}
	s := &models.DraftState{
		DraftID:     "d-1",
		Config:      models.DraftConfig{Rounds: 2},
		DraftOrder:  order,
		CurrentPick: picks + 1,
		Status:      models.StatusActive,
	}
	for _, id := range order {
		s.Personalities = append(s.Personalities, models.TeamPersonalityProfile{TeamID: id})
	}
	for n := 1; n <= picks; n++ {
		team, round := snake.Team(n, order)
		s.Picks = append(s.Picks, models.DraftPick{
			PickNumber: n,
			Round:      round,
			TeamID:     team,
			PlayerID:   fmt.Sprintf("p%d", n),
		})
	}
	if picks == s.TotalPicks() {
		s.Completed = true
		s.Status = models.StatusCompleted
	}
	return s
}

func TestValidateAcceptsConsistentStates(t *testing.T) {
	for _, picks := range []int{0, 3, 8} {
		assert.NoError(t, Validate(validState(picks)), "picks=%d", picks)
	}
}

func TestValidateRejectsCorruption(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *models.DraftState)
	}{
		{"duplicate team in order", func(s *models.DraftState) { s.DraftOrder[1] = "a" }},
		{"team without personality", func(s *models.DraftState) { s.Personalities[3].TeamID = "z" }},
		{"missing personality", func(s *models.DraftState) { s.Personalities = s.Personalities[:3] }},
		{"empty order", func(s *models.DraftState) { s.DraftOrder = nil; s.Personalities = nil }},
		{"current pick too low", func(s *models.DraftState) { s.CurrentPick = 0 }},
		{"current pick past the end", func(s *models.DraftState) { s.CurrentPick = 10 }},
		{"pick count mismatch", func(s *models.DraftState) { s.CurrentPick = 3 }},
		{"pick out of sequence", func(s *models.DraftState) { s.Picks[1].PickNumber = 3 }},
		{"wrong team picked", func(s *models.DraftState) { s.Picks[0].TeamID = "b" }},
		{"player drafted twice", func(s *models.DraftState) { s.Picks[2].PlayerID = s.Picks[0].PlayerID }},
		{"completed early", func(s *models.DraftState) { s.Completed = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validState(5)
			tt.mutate(s)
			err := Validate(s)
			assert.True(t, apperrors.IsStateCorruption(err), "got %v", err)
		})
	}

	assert.True(t, apperrors.IsStateCorruption(Validate(nil)))
}

func TestValidateSnakeTurn(t *testing.T) {
	// pick 5 opens round two in reverse order
	s := validState(5)
	assert.Equal(t, "d", s.Picks[4].TeamID)
	s.Picks[4].TeamID = "a"
	assert.Error(t, Validate(s))
}
