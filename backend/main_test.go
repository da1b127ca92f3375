package main

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGameStatusTerminalStates(t *testing.T) {
	cases := map[string]string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1":      "running",
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3": "checkmate",
		"k7/8/1Q6/8/8/8/8/K7 b - - 0 1":                                 "stalemate",
		"k7/8/8/8/8/8/8/K6R w - - 100 80":                               "draw",
	}
	for fen, want := range cases {
		p, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := gameStatus(p); got != want {
			t.Fatalf("gameStatus(%q) = %q, want %q", fen, got, want)
		}
	}
}

func TestEngineStatusReflectsPosition(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	if err := engine.MakeMove(NewMove(12, 28)); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	status := engineStatus(engine)
	if status.SideToMove != "Black" {
		t.Fatalf("expected Black to move, got %q", status.SideToMove)
	}
	if len(status.History) != 1 || status.History[0].UCI != "e2e4" {
		t.Fatalf("unexpected history: %+v", status.History)
	}
	if status.Status != "running" {
		t.Fatalf("expected a running game, got %q", status.Status)
	}
}

func TestDecodeSearchRequest(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/search", strings.NewReader(`{"time_budget_ms":250,"max_depth":4}`))
	budgetMs, maxDepth := decodeSearchRequest(r)
	if budgetMs != 250 || maxDepth != 4 {
		t.Fatalf("got budget=%d depth=%d", budgetMs, maxDepth)
	}

	r = httptest.NewRequest("POST", "/api/search", strings.NewReader(`{}`))
	budgetMs, maxDepth = decodeSearchRequest(r)
	if budgetMs != -1 || maxDepth != -1 {
		t.Fatalf("missing fields should yield the config fallback, got %d/%d", budgetMs, maxDepth)
	}

	r = httptest.NewRequest("POST", "/api/search", strings.NewReader("not json"))
	budgetMs, maxDepth = decodeSearchRequest(r)
	if budgetMs != -1 || maxDepth != -1 {
		t.Fatalf("garbage payloads should yield the config fallback, got %d/%d", budgetMs, maxDepth)
	}
}

func TestSearchResultToResponse(t *testing.T) {
	result := SearchResult{
		Move:    NewMove(12, 28),
		Score:   42,
		Depth:   5,
		Nodes:   1234,
		Elapsed: 1500 * time.Millisecond,
	}
	resp := searchResultToResponse(result)
	if resp.BestMove != "e2e4" || resp.Score != 42 || resp.Depth != 5 || resp.ElapsedMs != 1500 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestTTCacheStatusUsage(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	engine.tt.Store(1, 1, 0, NewMove(0, 1), BoundExact)
	status := ttCacheStatus(engine)
	if status.Count != 1 {
		t.Fatalf("expected one entry, got %d", status.Count)
	}
	if status.Usage <= 0 || status.Usage > 1 {
		t.Fatalf("usage out of range: %f", status.Usage)
	}
	if status.UsedBytes != status.EntryBytes {
		t.Fatalf("one entry should use exactly one entry's bytes")
	}
}
