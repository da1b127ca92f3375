package main

import "sync"

type Config struct {
	PlayingStyle   string `json:"playing_style"`
	LogMoves       bool   `json:"log_moves"`
	AiTimeBudgetMs int    `json:"ai_time_budget_ms"`
	AiMaxDepth     int    `json:"ai_max_depth"`
	AiTtSize       int    `json:"ai_tt_size"`
	// Accepted and reported, but the search stays single-threaded.
	AiThreads            int   `json:"ai_threads"`
	AiEnableKillerMoves  bool  `json:"ai_enable_killer_moves"`
	AiEnableHistoryMoves bool  `json:"ai_enable_history_moves"`
	AiCheckShortCircuit  bool  `json:"ai_check_short_circuit"`
	AiCandidateFilter    bool  `json:"ai_candidate_filter"`
	AiCandidateSeed      int64 `json:"ai_candidate_seed"`
	AiScaleTimeBudget    bool  `json:"ai_scale_time_budget"`
	AiLogSearchStats     bool  `json:"ai_log_search_stats"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		PlayingStyle: defaultStyle,
		LogMoves:     false,

		// Time budget mode
		AiTimeBudgetMs: 1000,
		AiMaxDepth:     6,

		// TT: power of two, the table rounds up anyway
		AiTtSize: 1 << 20,

		AiThreads: 1,

		// Move ordering helpers
		AiEnableKillerMoves:  true,
		AiEnableHistoryMoves: true,

		// Human-style selectivity
		AiCheckShortCircuit: true,
		AiCandidateFilter:   true,
		AiCandidateSeed:     candidateFilterSeed,

		// Spend more clock on sharp positions
		AiScaleTimeBudget: true,

		AiLogSearchStats: false, // turn ON temporarily to tune; disable later
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}
