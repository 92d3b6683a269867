// Package snake implements snake-draft ordering: the pick order runs forward
// in odd rounds and reverses in even rounds.
package snake

// Round is the 1-based round of an absolute 1-based pick number
func Round(pick, teamCount int) int {
	if teamCount <= 0 || pick <= 0 {
		return 0
	}
	return (pick + teamCount - 1) / teamCount
}

// Index returns the position in draftOrder of the team on the clock for an
// absolute 1-based pick number
func Index(pick, teamCount int) int {
	posInRound := (pick-1)%teamCount + 1
	if Round(pick, teamCount)%2 == 1 {
		return posInRound - 1
	}
	return teamCount - posInRound
}

// Team returns the team on the clock and the round for a pick, or an empty
// id when the pick or order is out of range
func Team(pick int, order []string) (string, int) {
	if len(order) == 0 || pick <= 0 {
		return "", 0
	}
	return order[Index(pick, len(order))], Round(pick, len(order))
}

// Sequence expands draftOrder into the full team sequence for a draft
func Sequence(order []string, rounds int) []string {
	seq := make([]string, 0, rounds*len(order))
	for p := 1; p <= rounds*len(order); p++ {
		id, _ := Team(p, order)
		seq = append(seq, id)
	}
	return seq
}
