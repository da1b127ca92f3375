package main

import (
	"fmt"
	"time"
)

// SearchStats accumulates counters over one Search call. Logging is gated by
// config so normal play stays quiet.
type SearchStats struct {
	Nodes      int64
	QNodes     int64
	TTHits     int64
	TTStores   int64
	Cutoffs    int64
	Candidates int64
	Depth      int
	Score      int
	Elapsed    time.Duration
}

func (s *SearchStats) log(label string) {
	if s == nil {
		return
	}
	elapsedMs := s.Elapsed.Milliseconds()
	nps := int64(0)
	if elapsedMs > 0 {
		nps = (s.Nodes + s.QNodes) * 1000 / elapsedMs
	}
	fmt.Printf("[ai:%s] depth=%d score=%d nodes=%d qnodes=%d tt_hits=%d tt_stores=%d cutoffs=%d candidates=%d elapsed=%dms nps=%d\n",
		label, s.Depth, s.Score, s.Nodes, s.QNodes, s.TTHits, s.TTStores, s.Cutoffs, s.Candidates, elapsedMs, nps)
}
