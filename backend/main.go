package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unsafe"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

type StatusResponse struct {
	FEN        string    `json:"fen"`
	SideToMove string    `json:"side_to_move"`
	Status     string    `json:"status"`
	InCheck    bool      `json:"in_check"`
	Thinking   bool      `json:"thinking"`
	MoveNumber int       `json:"move_number"`
	History    []moveDTO `json:"history"`
	Config     Config    `json:"config"`
}

type moveDTO struct {
	UCI  string `json:"uci"`
	From string `json:"from"`
	To   string `json:"to"`
}

type evaluationResponse struct {
	Score      int        `json:"score"`
	Style      string     `json:"style"`
	Complexity float64    `json:"complexity"`
	Notes      []string   `json:"notes"`
	Imbalances Imbalances `json:"imbalances"`
}

type ttCacheStatusResponse struct {
	Count         int     `json:"count"`
	Capacity      int     `json:"capacity"`
	Usage         float64 `json:"usage"`
	EntryBytes    uint64  `json:"entry_bytes"`
	UsedBytes     uint64  `json:"used_bytes"`
	CapacityBytes uint64  `json:"capacity_bytes"`
}

type searchRequest struct {
	TimeBudgetMs *int `json:"time_budget_ms"`
	MaxDepth     *int `json:"max_depth"`
}

type searchResponse struct {
	BestMove  string `json:"best_move"`
	Score     int    `json:"score"`
	Depth     int    `json:"depth"`
	Nodes     int64  `json:"nodes"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

func main() {
	engine := NewEngine(GetConfig())
	hub := NewHub()
	progressHub := NewProgressHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx.Done())
	go progressHub.Run(ctx.Done())

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, engineStatus(engine))
	})

	r.Get("/api/position", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"fen": engine.Position().FEN()})
	})

	r.Post("/api/position", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			FEN string `json:"fen"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if err := engine.LoadFEN(payload.FEN); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		status := engineStatus(engine)
		writeJSON(w, http.StatusOK, status)
		hub.broadcastStatus <- status
	})

	r.Post("/api/reset", func(w http.ResponseWriter, r *http.Request) {
		engine.Cancel()
		engine.Reset()
		status := engineStatus(engine)
		writeJSON(w, http.StatusOK, status)
		hub.broadcastStatus <- status
	})

	r.Get("/api/moves", func(w http.ResponseWriter, r *http.Request) {
		legal := LegalMoves(engine.Position())
		moves := make([]moveDTO, 0, len(legal))
		for _, m := range legal {
			moves = append(moves, moveToDTO(m))
		}
		writeJSON(w, http.StatusOK, map[string]any{"moves": moves})
	})

	r.Post("/api/move", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Move string `json:"move"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		move, err := ParseUCIMove(payload.Move)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if err := engine.MakeMove(move); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		p := engine.Position()
		writeJSON(w, http.StatusOK, engineStatus(engine))
		hub.broadcastMove <- movePayload{
			Move:    moveToDTO(move),
			FEN:     p.FEN(),
			InCheck: p.InCheck(p.Side),
			Status:  gameStatus(p),
		}
	})

	r.Post("/api/search", func(w http.ResponseWriter, r *http.Request) {
		budgetMs, maxDepth := decodeSearchRequest(r)
		result, err := engine.Search(budgetMs, maxDepth)
		if err != nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		resp := searchResultToResponse(result)
		writeJSON(w, http.StatusOK, resp)
		hub.broadcastResult <- searchPayload(resp)
	})

	r.Post("/api/search/start", func(w http.ResponseWriter, r *http.Request) {
		budgetMs, maxDepth := decodeSearchRequest(r)
		err := engine.StartThinking(budgetMs, maxDepth,
			func(result SearchResult) {
				hub.broadcastResult <- searchPayload(searchResultToResponse(result))
			},
			func(progress SearchProgress) {
				progressHub.Publish(progress)
			},
		)
		if err != nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]bool{"started": true})
	})

	r.Post("/api/cancel", func(w http.ResponseWriter, r *http.Request) {
		if err := engine.Cancel(); err != nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
	})

	r.Get("/api/evaluate", func(w http.ResponseWriter, r *http.Request) {
		p := engine.Position()
		score, notes := engine.Evaluate()
		writeJSON(w, http.StatusOK, evaluationResponse{
			Score:      score,
			Style:      GetConfig().PlayingStyle,
			Complexity: engine.eval.ComplexityHint(p),
			Notes:      notes,
			Imbalances: engine.eval.AnalyzeImbalances(p),
		})
	})

	r.Get("/api/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, GetConfig())
	})

	r.Post("/api/config", func(w http.ResponseWriter, r *http.Request) {
		var payload Config
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		engine.Reconfigure(payload)
		writeJSON(w, http.StatusOK, GetConfig())
		hub.broadcastConfig <- configPayload{Config: GetConfig()}
	})

	r.Get("/api/cache/tt", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ttCacheStatus(engine))
	})
	r.Delete("/api/cache/tt", func(w http.ResponseWriter, r *http.Request) {
		engine.tt.Clear()
		writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
	})

	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, engine, w, r)
	})
	r.Get("/ws/progress", func(w http.ResponseWriter, r *http.Request) {
		serveProgressWS(progressHub, w, r)
	})

	server := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Println("backend listening on :8080")
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Printf("[backend] shutdown signal received: %v", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Printf("[backend] server error: %v", err)
		}
	}

	engine.Cancel()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[backend] graceful shutdown failed: %v", err)
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Printf("[backend] forced close failed: %v", closeErr)
		}
	}

	cancel()
	if runErr != nil {
		log.Printf("[backend] exiting after server error: %v", runErr)
	}
}

func serveWS(hub *Hub, engine *Engine, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(client)

	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(engineStatus(engine))})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			return
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(engineStatus(engine))})
		}
	}
}

func decodeSearchRequest(r *http.Request) (budgetMs, maxDepth int) {
	budgetMs, maxDepth = -1, -1
	var payload searchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return budgetMs, maxDepth
	}
	if payload.TimeBudgetMs != nil && *payload.TimeBudgetMs >= 0 {
		budgetMs = *payload.TimeBudgetMs
	}
	if payload.MaxDepth != nil && *payload.MaxDepth >= 0 {
		maxDepth = *payload.MaxDepth
	}
	return budgetMs, maxDepth
}

func engineStatus(engine *Engine) StatusResponse {
	p := engine.Position()
	history := engine.History()
	dtos := make([]moveDTO, 0, len(history))
	for _, m := range history {
		dtos = append(dtos, moveToDTO(m))
	}
	return StatusResponse{
		FEN:        p.FEN(),
		SideToMove: p.Side.String(),
		Status:     gameStatus(p),
		InCheck:    p.InCheck(p.Side),
		Thinking:   engine.IsThinking(),
		MoveNumber: p.FullMoves,
		History:    dtos,
		Config:     GetConfig(),
	}
}

func gameStatus(p Position) string {
	if len(LegalMoves(p)) == 0 {
		if p.InCheck(p.Side) {
			return "checkmate"
		}
		return "stalemate"
	}
	if p.HalfMoves >= 100 {
		return "draw"
	}
	return "running"
}

func moveToDTO(m Move) moveDTO {
	return moveDTO{
		UCI:  m.UCI(),
		From: squareName(m.From),
		To:   squareName(m.To),
	}
}

func searchResultToResponse(result SearchResult) searchResponse {
	return searchResponse{
		BestMove:  result.Move.UCI(),
		Score:     result.Score,
		Depth:     result.Depth,
		Nodes:     result.Nodes,
		ElapsedMs: result.Elapsed.Milliseconds(),
	}
}

func ttCacheStatus(engine *Engine) ttCacheStatusResponse {
	count, capacity := engine.CacheStatus()
	entryBytes := uint64(unsafe.Sizeof(TTEntry{}))
	usage := 0.0
	if capacity > 0 {
		usage = float64(count) / float64(capacity)
	}
	return ttCacheStatusResponse{
		Count:         count,
		Capacity:      capacity,
		Usage:         usage,
		EntryBytes:    entryBytes,
		UsedBytes:     uint64(count) * entryBytes,
		CapacityBytes: uint64(capacity) * entryBytes,
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
