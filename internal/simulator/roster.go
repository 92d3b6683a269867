package simulator

import (
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
)

// Roster is an arena of slots addressed by index. Roster values are never
// mutated: Fill and Place return a new Roster sharing nothing with the old.
type Roster struct {
	slots []models.RosterSlot
}

// NewRoster lays out the starting lineup in canonical order followed by the bench
func NewRoster(t models.RosterTemplate) Roster {
	slots := make([]models.RosterSlot, 0, t.Size())
	for _, kind := range models.StartingSlotOrder {
		for i := 0; i < t[kind]; i++ {
			slots = append(slots, models.RosterSlot{Kind: kind, Required: true})
		}
	}
	for i := 0; i < t[models.SlotBench]; i++ {
		slots = append(slots, models.RosterSlot{Kind: models.SlotBench})
	}
	return Roster{slots: slots}
}

// RosterFromPicks rebuilds a roster by replaying picks in order
func RosterFromPicks(t models.RosterTemplate, picks []models.DraftPick) Roster {
	r := NewRoster(t)
	for _, p := range picks {
		r, _ = r.Place(p.PlayerID, p.PlayerName, p.Position, p.Round, p.Reasoning)
	}
	return r
}

// Len is the number of slots
func (r Roster) Len() int { return len(r.slots) }

// Slot returns the slot at index i
func (r Roster) Slot(i int) models.RosterSlot { return r.slots[i] }

// Fill returns a roster with slot i replaced
func (r Roster) Fill(i int, s models.RosterSlot) Roster {
	next := make([]models.RosterSlot, len(r.slots))
	copy(next, r.slots)
	next[i] = s
	return Roster{slots: next}
}

// OpenSlot finds where a player at pos would go: an exact starting slot,
// then FLEX, then bench. It returns -1 when every fitting slot is taken.
func (r Roster) OpenSlot(pos models.Position) int {
	for _, kind := range []models.SlotKind{models.SlotKind(pos), models.SlotFLEX, models.SlotBench} {
		for i, s := range r.slots {
			if !s.Filled && s.Kind == kind && s.Kind.Accepts(pos) {
				return i
			}
		}
	}
	return -1
}

// Place fills the first compatible open slot and returns the new roster and
// the slot index. A full roster grows an extra bench slot.
func (r Roster) Place(playerID, name string, pos models.Position, round int, reasoning string) (Roster, int) {
	slot := models.RosterSlot{
		Filled:       true,
		PlayerID:     playerID,
		PlayerName:   name,
		Position:     pos,
		RoundDrafted: round,
		Reasoning:    reasoning,
	}

	i := r.OpenSlot(pos)
	if i < 0 {
		slot.Kind = models.SlotBench
		next := make([]models.RosterSlot, len(r.slots), len(r.slots)+1)
		copy(next, r.slots)
		return Roster{slots: append(next, slot)}, len(next)
	}

	slot.Kind = r.slots[i].Kind
	slot.Required = r.slots[i].Required
	return r.Fill(i, slot), i
}

// OpenRequired counts unfilled starting slots
func (r Roster) OpenRequired() int {
	n := 0
	for _, s := range r.slots {
		if s.Required && !s.Filled {
			n++
		}
	}
	return n
}

// Complete reports whether every starting slot is filled
func (r Roster) Complete() bool { return r.OpenRequired() == 0 }

// RequiredOpenFor reports whether a player at pos would fill an unfilled
// starting slot
func (r Roster) RequiredOpenFor(pos models.Position) bool {
	i := r.OpenSlot(pos)
	return i >= 0 && r.slots[i].Required
}

// Counts is the number of drafted players per position
func (r Roster) Counts() map[models.Position]int {
	c := make(map[models.Position]int)
	for _, s := range r.slots {
		if s.Filled {
			c[s.Position]++
		}
	}
	return c
}

// Starting returns a copy of the starting lineup slots
func (r Roster) Starting() []models.RosterSlot {
	var out []models.RosterSlot
	for _, s := range r.slots {
		if s.Kind != models.SlotBench {
			out = append(out, s)
		}
	}
	return out
}

// Bench returns a copy of the bench slots
func (r Roster) Bench() []models.RosterSlot {
	var out []models.RosterSlot
	for _, s := range r.slots {
		if s.Kind == models.SlotBench {
			out = append(out, s)
		}
	}
	return out
}

// PlayerIDs lists drafted players in slot order
func (r Roster) PlayerIDs() []string {
	var ids []string
	for _, s := range r.slots {
		if s.Filled {
			ids = append(ids, s.PlayerID)
		}
	}
	return ids
}
