package main

import (
	"math/rand"
	"sync/atomic"
	"time"
)

const (
	mateScore    = 100000
	defaultDepth = 6
)

// SearchOptions wires the search to its collaborators. Stop is the shared
// cancellation flag; the search never resets it, only reads it.
type SearchOptions struct {
	TT      *TranspositionTable
	Orderer *MoveOrderer
	Eval    *Evaluator
	Stop    *atomic.Bool

	TimeBudget time.Duration
	MaxDepth   int

	FilterCandidates  bool
	FilterSeed        int64
	CheckShortCircuit bool
	LogStats          bool
}

type SearchResult struct {
	Move    Move          `json:"move"`
	Score   int           `json:"score"`
	Depth   int           `json:"depth"`
	Nodes   int64         `json:"nodes"`
	Elapsed time.Duration `json:"elapsed"`
}

// searchContext carries the per-call state down the recursion. It is built
// once per Search call so concurrent searches (from separate engines) never
// share mutable state.
type searchContext struct {
	tt       *TranspositionTable
	orderer  *MoveOrderer
	eval     *Evaluator
	stop     *atomic.Bool
	rng      *rand.Rand
	deadline time.Time
	timed    bool
	stats    *SearchStats

	filterCandidates  bool
	checkShortCircuit bool
}

// timedOut is the cooperative stop poll: a clock read plus an atomic load.
// Called at every recursive entry and at the top of each move loop.
func (s *searchContext) timedOut() bool {
	if s.stop != nil && s.stop.Load() {
		return true
	}
	return s.timed && time.Now().After(s.deadline)
}

func (s *searchContext) sideScore(p Position) int {
	score := s.eval.Evaluate(p)
	if p.Side == Black {
		return -score
	}
	return score
}

func (s *searchContext) candidates(p Position, legal []Move, ply int) []Move {
	if !s.filterCandidates || ply == 0 {
		return legal
	}
	filtered := FilterCandidates(p, legal, s.rng)
	s.stats.Candidates += int64(len(filtered))
	return filtered
}

// negamax is a fail-soft alpha-beta over the side-to-move-relative score.
// After a stop is observed it unwinds without storing anything.
func (s *searchContext) negamax(p Position, depth, alpha, beta, ply int) int {
	if s.timedOut() {
		return 0
	}
	s.stats.Nodes++

	inCheck := p.InCheck(p.Side)
	if inCheck && s.checkShortCircuit && ply > 0 {
		// Being in check is scored as near-mate, worse the closer to the
		// root it happens. Crude, but it makes the engine respect checks
		// the way a club player does. See the terminal handling below for
		// the genuine mate case.
		return -(mateScore - ply)
	}

	if depth <= 0 {
		return s.quiescence(p, alpha, beta, ply)
	}

	ttMove := Move{}
	if entry, ok := s.tt.Probe(p.Hash, depth); ok {
		s.stats.TTHits++
		ttMove = entry.Move
		if ply > 0 {
			switch entry.Bound {
			case BoundExact:
				return entry.Score
			case BoundLower:
				if entry.Score > alpha {
					alpha = entry.Score
				}
			case BoundUpper:
				if entry.Score < beta {
					beta = entry.Score
				}
			}
			if alpha >= beta {
				return entry.Score
			}
		}
	} else if entry, ok := s.tt.Lookup(p.Hash); ok {
		// Too shallow to cut, still a fine ordering hint.
		ttMove = entry.Move
	}

	legal := LegalMoves(p)
	if len(legal) == 0 {
		if inCheck {
			return -(mateScore - ply)
		}
		return 0
	}
	moves := s.candidates(p, legal, ply)
	s.orderer.Order(p, moves, ttMove, ply)

	alphaOrig := alpha
	bestScore := -mateScore * 2
	bestMove := moves[0]
	for _, m := range moves {
		if s.timedOut() {
			return bestScore
		}
		score := -s.negamax(p.Apply(m), depth-1, -beta, -alpha, ply+1)
		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			s.stats.Cutoffs++
			s.orderer.RecordCutoff(p, m, ply, depth)
			break
		}
	}

	if s.timedOut() {
		return bestScore
	}
	bound := BoundExact
	if bestScore <= alphaOrig {
		bound = BoundUpper
	} else if bestScore >= beta {
		bound = BoundLower
	}
	s.tt.Store(p.Hash, depth, bestScore, bestMove, bound)
	s.stats.TTStores++
	return bestScore
}

// quiescence keeps searching captures past the horizon until the position is
// quiet. Every recursion removes a piece, so it terminates on its own.
func (s *searchContext) quiescence(p Position, alpha, beta, ply int) int {
	if s.timedOut() {
		return 0
	}
	s.stats.QNodes++

	standPat := s.sideScore(p)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	var captures []Move
	for _, m := range LegalMoves(p) {
		if IsCapture(p, m) {
			captures = append(captures, m)
		}
	}
	s.orderer.OrderCaptures(p, captures)

	for _, m := range captures {
		if s.timedOut() {
			return alpha
		}
		score := -s.quiescence(p.Apply(m), -beta, -alpha, ply+1)
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// searchRoot runs one full-depth pass over the root moves and reports whether
// it completed without hitting the stop condition.
func (s *searchContext) searchRoot(p Position, moves []Move, depth int) (Move, int, bool) {
	ttMove := Move{}
	if entry, ok := s.tt.Lookup(p.Hash); ok {
		ttMove = entry.Move
	}
	s.orderer.Order(p, moves, ttMove, 0)

	alpha := -mateScore * 2
	beta := mateScore * 2
	bestMove := moves[0]
	bestScore := alpha
	for _, m := range moves {
		if s.timedOut() {
			return bestMove, bestScore, false
		}
		score := -s.negamax(p.Apply(m), depth-1, -beta, -alpha, 1)
		if s.timedOut() {
			return bestMove, bestScore, false
		}
		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
		}
	}
	s.tt.Store(p.Hash, depth, bestScore, bestMove, BoundExact)
	return bestMove, bestScore, true
}

// Search runs iterative deepening up to opts.MaxDepth within the time budget.
// The result always reflects the deepest fully completed iteration; an
// interrupted deeper pass never overwrites it. With at least one legal move
// the result always carries a valid move.
func Search(p Position, opts SearchOptions) SearchResult {
	start := time.Now()
	stats := &SearchStats{}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultDepth
	}
	if maxDepth > maxSearchPly {
		maxDepth = maxSearchPly
	}
	seed := opts.FilterSeed
	if seed == 0 {
		seed = candidateFilterSeed
	}

	ctx := &searchContext{
		tt:                opts.TT,
		orderer:           opts.Orderer,
		eval:              opts.Eval,
		stop:              opts.Stop,
		rng:               rand.New(rand.NewSource(seed)),
		stats:             stats,
		filterCandidates:  opts.FilterCandidates,
		checkShortCircuit: opts.CheckShortCircuit,
	}
	if opts.TimeBudget > 0 {
		ctx.timed = true
		ctx.deadline = start.Add(opts.TimeBudget)
	}

	result := SearchResult{Score: ctx.sideScore(p)}
	legal := LegalMoves(p)
	if len(legal) == 0 {
		if p.InCheck(p.Side) {
			result.Score = -mateScore
		} else {
			result.Score = 0
		}
		result.Elapsed = time.Since(start)
		return result
	}

	// A zero budget means "answer now": rank the root moves by the static
	// score of their outcome, no recursion.
	if opts.TimeBudget == 0 && opts.MaxDepth <= 0 {
		best := legal[0]
		bestScore := -mateScore * 2
		for _, m := range legal {
			score := -ctx.sideScore(p.Apply(m))
			if score > bestScore {
				bestScore = score
				best = m
			}
		}
		result.Move = best
		result.Score = bestScore
		result.Elapsed = time.Since(start)
		return result
	}

	moves := make([]Move, len(legal))
	copy(moves, legal)
	for depth := 1; depth <= maxDepth; depth++ {
		bestMove, bestScore, completed := ctx.searchRoot(p, moves, depth)
		if !completed {
			break
		}
		result.Move = bestMove
		result.Score = bestScore
		result.Depth = depth
		if bestScore >= mateScore-maxSearchPly {
			// Forced mate found, deeper search cannot improve it.
			break
		}
	}

	if !result.Move.IsValid() {
		result.Move = legal[0]
	}
	result.Nodes = stats.Nodes + stats.QNodes
	result.Elapsed = time.Since(start)

	stats.Depth = result.Depth
	stats.Score = result.Score
	stats.Elapsed = result.Elapsed
	if opts.LogStats {
		stats.log("search")
	}
	return result
}
