package main

import "time"

// Time budgeting mirrors how a human paces a game: complex middlegames get
// more of the clock, quiet openings less. The complexity hint comes from the
// evaluator's imbalance analysis.

const (
	minThinkTime = 50 * time.Millisecond
	maxThinkTime = 60 * time.Second
	// Total material above this means the game just started.
	openingMaterial = 7000
)

type TimeManager struct {
	eval *Evaluator
}

func NewTimeManager(eval *Evaluator) *TimeManager {
	return &TimeManager{eval: eval}
}

// ThinkTime scales the base budget by the position's complexity. A zero or
// negative base budget stays zero: the caller wants an instant answer.
func (tm *TimeManager) ThinkTime(p Position, baseBudget time.Duration) time.Duration {
	if baseBudget <= 0 {
		return 0
	}
	complexity := tm.eval.ComplexityHint(p)
	if materialCount(p, White)+materialCount(p, Black) > openingMaterial {
		complexity *= 0.7
	}
	budget := time.Duration(float64(baseBudget) * complexity)
	// The floor never raises the budget above what the caller asked for.
	floor := minThinkTime
	if baseBudget < floor {
		floor = baseBudget
	}
	if budget < floor {
		budget = floor
	}
	if budget > maxThinkTime {
		budget = maxThinkTime
	}
	return budget
}
