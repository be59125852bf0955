package rules

// Transition names the rule branch a cell took between two generations
type Transition uint8

const (
	// Unchanged covers a dead cell that stays dead
	Unchanged Transition = iota
	// Underpopulation kills a live cell with fewer than two neighbors
	Underpopulation
	// Survival keeps a live cell with two or three neighbors
	Survival
	// Overpopulation kills a live cell with more than three neighbors
	Overpopulation
	// Birth revives a dead cell with exactly three neighbors
	Birth
)

var transitionNames = [...]string{
	Unchanged:       "unchanged",
	Underpopulation: "underpopulation",
	Survival:        "survival",
	Overpopulation:  "overpopulation",
	Birth:           "birth",
}

func (t Transition) String() string {
	if int(t) < len(transitionNames) {
		return transitionNames[t]
	}
	return "unknown"
}

// Alive reports the next state a transition leaves the cell in
func (t Transition) Alive() bool {
	return t == Survival || t == Birth
}

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

Conway's Game of Life rules: (alive && neighbors == 2) || neighbors == 3
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	return (alive && neighbors == 2) || neighbors == 3
}

// Classify returns the rule branch taken by a cell with the given neighbor count
func Classify(neighbors int, alive bool) Transition {
	switch {
	case alive && neighbors < 2:
		return Underpopulation
	case alive && neighbors > 3:
		return Overpopulation
	case alive:
		return Survival
	case neighbors == 3:
		return Birth
	default:
		return Unchanged
	}
}
