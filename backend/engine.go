package main

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrSearchBusy    = errors.New("search already running")
	ErrSearchNotBusy = errors.New("no search running")
)

// Engine owns the current position, the cache and the search collaborators.
// One search runs at a time; Cancel flips the shared stop flag that the
// search polls cooperatively.
type Engine struct {
	mu       sync.Mutex
	position Position
	history  []Move

	tt      *TranspositionTable
	orderer *MoveOrderer
	eval    *Evaluator
	timeman *TimeManager

	thinking   atomic.Bool
	stopSignal atomic.Bool
}

func NewEngine(cfg Config) *Engine {
	eval := NewEvaluator(cfg.PlayingStyle)
	return &Engine{
		position: StartPosition(),
		tt:       NewTranspositionTable(cfg.AiTtSize),
		orderer:  NewMoveOrderer(cfg.AiEnableKillerMoves, cfg.AiEnableHistoryMoves),
		eval:     eval,
		timeman:  NewTimeManager(eval),
	}
}

func (e *Engine) Position() Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

func (e *Engine) History() []Move {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Move, len(e.history))
	copy(out, e.history)
	return out
}

// LoadFEN replaces the current position. Any running search keeps operating
// on its own copy; callers should Cancel first if they want it gone.
func (e *Engine) LoadFEN(fen string) error {
	p, err := ParseFEN(fen)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.position = p
	e.history = e.history[:0]
	e.mu.Unlock()
	return nil
}

func (e *Engine) Reset() {
	e.mu.Lock()
	e.position = StartPosition()
	e.history = e.history[:0]
	e.mu.Unlock()
	e.tt.Clear()
	e.orderer.Reset()
}

// MakeMove validates the move against the legal set before applying it.
func (e *Engine) MakeMove(m Move) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, legal := range LegalMoves(e.position) {
		if m.Equals(legal) || (m.From == legal.From && m.To == legal.To) {
			e.position = e.position.Apply(legal)
			e.history = append(e.history, legal)
			if GetConfig().LogMoves {
				log.Printf("[backend] move %s applied, side to move %s", legal.UCI(), e.position.Side)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrIllegalMove, m.UCI())
}

func (e *Engine) searchOptions(cfg Config, p Position, budgetMs, maxDepth int) SearchOptions {
	if budgetMs < 0 {
		budgetMs = cfg.AiTimeBudgetMs
	}
	if maxDepth < 0 {
		maxDepth = cfg.AiMaxDepth
	}
	budget := time.Duration(budgetMs) * time.Millisecond
	if cfg.AiScaleTimeBudget {
		budget = e.timeman.ThinkTime(p, budget)
	}
	return SearchOptions{
		TT:                e.tt,
		Orderer:           e.orderer,
		Eval:              e.eval,
		Stop:              &e.stopSignal,
		TimeBudget:        budget,
		MaxDepth:          maxDepth,
		FilterCandidates:  cfg.AiCandidateFilter,
		FilterSeed:        cfg.AiCandidateSeed,
		CheckShortCircuit: cfg.AiCheckShortCircuit,
		LogStats:          cfg.AiLogSearchStats,
	}
}

// Search runs synchronously on the current position. Negative budgetMs or
// maxDepth fall back to the configured values; a zero budget with zero depth
// asks for an instant static answer.
func (e *Engine) Search(budgetMs, maxDepth int) (SearchResult, error) {
	if !e.thinking.CompareAndSwap(false, true) {
		return SearchResult{}, ErrSearchBusy
	}
	defer e.thinking.Store(false)

	e.stopSignal.Store(false)
	cfg := GetConfig()
	p := e.Position()
	return Search(p, e.searchOptions(cfg, p, budgetMs, maxDepth)), nil
}

// StartThinking runs the search in the background and delivers the result to
// done. Progress snapshots are optional; pass nil to skip them.
func (e *Engine) StartThinking(budgetMs, maxDepth int, done func(SearchResult), progress func(SearchProgress)) error {
	if !e.thinking.CompareAndSwap(false, true) {
		return ErrSearchBusy
	}
	e.stopSignal.Store(false)
	cfg := GetConfig()
	p := e.Position()
	opts := e.searchOptions(cfg, p, budgetMs, maxDepth)

	go func() {
		defer e.thinking.Store(false)
		start := time.Now()
		if progress != nil {
			progress(SearchProgress{FEN: p.FEN(), Started: true})
		}
		result := Search(p, opts)
		if progress != nil {
			progress(SearchProgress{
				FEN:       p.FEN(),
				Depth:     result.Depth,
				Score:     result.Score,
				BestMove:  result.Move.UCI(),
				ElapsedMs: time.Since(start).Milliseconds(),
				Done:      true,
			})
		}
		if done != nil {
			done(result)
		}
	}()
	return nil
}

func (e *Engine) IsThinking() bool {
	return e.thinking.Load()
}

// Cancel sets the stop signal. The search unwinds at its next poll point, so
// cancellation is cooperative, not immediate.
func (e *Engine) Cancel() error {
	if !e.thinking.Load() {
		return ErrSearchNotBusy
	}
	e.stopSignal.Store(true)
	return nil
}

// Reconfigure applies a new config: TT capacity, playing style and ordering
// toggles take effect immediately, and the thread count is stored for
// reporting only. A running search is stopped and waited out first so the
// table is never resized under it.
func (e *Engine) Reconfigure(cfg Config) {
	e.stopSignal.Store(true)
	for e.thinking.Load() {
		time.Sleep(time.Millisecond)
	}
	configStore.Update(cfg)
	if nextPowerOfTwo(cfg.AiTtSize) != e.tt.Capacity() {
		e.tt.Resize(cfg.AiTtSize)
	}
	e.eval.SetStyle(cfg.PlayingStyle)
	e.orderer = NewMoveOrderer(cfg.AiEnableKillerMoves, cfg.AiEnableHistoryMoves)
	e.stopSignal.Store(false)
}

func (e *Engine) Evaluate() (int, []string) {
	p := e.Position()
	return e.eval.Evaluate(p), e.eval.Explain(p)
}

func (e *Engine) CacheStatus() (count, capacity int) {
	return e.tt.Count(), e.tt.Capacity()
}
