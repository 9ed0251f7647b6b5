// internal/httpserver/server.go
//
// HTTP server wiring for the category clue game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/puzzles/count".
//   - Game endpoints: POST /game/new, /game/guess, /game/next, /game/replay; GET /game/{id}.
//   - Daily puzzle endpoint: mounted under /daily.
//
// Notes:
//   - Sessions live only in the in-memory store; nothing is persisted.
//   - A session's category is only sent to the client once the session is finished.
//   - Mutations go through s.mu so two requests never change one session at once.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/clues/internal/game"
	"github.com/robalobadob/clues/internal/puzzles"
	"github.com/robalobadob/clues/internal/store"
)

// Options configures a Server.
type Options struct {
	ClientOrigin string // CORS origin allowed to call the API
	DailySalt    string // salt for the daily puzzle pick

	// SessionTimeout drops sessions not touched for this long; 0 keeps them forever.
	SessionTimeout time.Duration
}

// Server bundles router, puzzle repository and session store.
type Server struct {
	r     *chi.Mux
	repo  *puzzles.Repository
	store store.Store
	opts  Options
	now   func() time.Time

	mu sync.Mutex // serializes session mutations
}

// New constructs a Server, installs middleware, and registers routes.
func New(repo *puzzles.Repository, st store.Store, opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{r: chi.NewRouter(), repo: repo, store: st, opts: opts, now: time.Now}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"clues-go","endpoints":["/health","/puzzles/count","POST /game/new","POST /game/guess","POST /game/next","POST /game/replay","GET /game/{id}","/daily"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/puzzles/count", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]int{"count": s.repo.Count()})
	})

	s.r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Post("/guess", s.handleGuess)
		r.Post("/next", s.handleNext)
		r.Post("/replay", s.handleReplay)
		r.Get("/{id}", s.handleGetGame)
	})

	s.mountDaily(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if s.opts.SessionTimeout > 0 {
		go s.sweepLoop(ctx, s.opts.SessionTimeout)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// sweepLoop periodically drops sessions idle for longer than timeout.
func (s *Server) sweepLoop(ctx context.Context, timeout time.Duration) {
	interval := timeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweepIdle(ctx, time.Now().Add(-timeout))
		}
	}
}

// sweepIdle deletes every session last saved before cutoff and returns how many went.
func (s *Server) sweepIdle(ctx context.Context, cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, id := range s.store.Idle(ctx, cutoff) {
		if err := s.store.Delete(ctx, id); err == nil {
			n++
		}
	}
	if n > 0 {
		log.Info().Int("expired", n).Int("active", s.store.Len()).Msg("swept idle sessions")
	}
	return n
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one debug line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("requestId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// ------------------------------ GAME ---------------------------------------

// gameView is the client-facing shape of a session.
type gameView struct {
	GameID      string      `json:"gameId"`
	PuzzleID    int         `json:"puzzleId"`
	Clues       []string    `json:"clues"` // revealed clues only
	Revealed    int         `json:"revealed"`
	Guesses     []string    `json:"guesses"`
	GuessCount  int         `json:"guessCount"`
	GuessesLeft int         `json:"guessesLeft"`
	Status      game.Status `json:"status"`
	Category    string      `json:"category,omitempty"` // only once finished
}

func newView(id string, g *game.Session) gameView {
	v := gameView{
		GameID:      id,
		PuzzleID:    g.PuzzleID(),
		Clues:       g.RevealedClues(),
		Revealed:    g.Revealed(),
		Guesses:     g.Guesses(),
		GuessCount:  g.GuessCount(),
		GuessesLeft: g.GuessesLeft(),
		Status:      g.Status(),
	}
	if g.Status().Terminal() {
		v.Category = g.Category()
	}
	return v
}

// newGameReq is the payload for POST /game/new.
type newGameReq struct {
	PuzzleID int  `json:"puzzleId"` // optional; defaults to the first puzzle
	Daily    bool `json:"daily"`    // use today's puzzle, overrides PuzzleID
}

// handleNewGame creates a session and stores it under a fresh id.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	puzzleID := req.PuzzleID
	switch {
	case req.Daily:
		puzzleID = s.dailyPuzzleID()
	case puzzleID == 0:
		puzzleID = s.repo.FirstID()
	}

	g, err := game.Start(s.repo, puzzleID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	id := uuid.NewString()
	if err := s.store.Save(r.Context(), id, g); err != nil {
		log.Error().Err(err).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	log.Debug().Str("gameId", id).Int("puzzleId", puzzleID).Msg("new game")

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(newView(id, g))
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Outcome game.Outcome `json:"outcome"`
	Game    gameView     `json:"game"`
}

// handleGuess applies a guess to a stored session.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	g, ok := s.lookup(w, r, req.GameID)
	if !ok {
		return
	}

	s.mu.Lock()
	out, err := g.SubmitGuess(req.Guess)
	view := newView(req.GameID, g)
	if err == nil {
		err = s.store.Save(r.Context(), req.GameID, g)
	}
	s.mu.Unlock()
	if err != nil {
		writeGameError(w, err)
		return
	}
	if out.Terminal {
		log.Info().Str("gameId", req.GameID).Int("puzzleId", g.PuzzleID()).
			Str("status", string(out.Status)).Int("guesses", out.GuessCount).Msg("game finished")
	}
	_ = json.NewEncoder(w).Encode(guessRes{Outcome: out, Game: view})
}

// gameReq is the payload for POST /game/next and /game/replay.
type gameReq struct {
	GameID string `json:"gameId"`
}

// handleNext restarts the session on the following puzzle.
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.restart(w, r, func(g *game.Session) int { return g.NextPuzzleID() })
}

// handleReplay restarts the session on the same puzzle.
func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	s.restart(w, r, func(g *game.Session) int { return g.PuzzleID() })
}

func (s *Server) restart(w http.ResponseWriter, r *http.Request, target func(*game.Session) int) {
	var req gameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	g, ok := s.lookup(w, r, req.GameID)
	if !ok {
		return
	}

	s.mu.Lock()
	err := g.Start(target(g))
	view := newView(req.GameID, g)
	if err == nil {
		err = s.store.Save(r.Context(), req.GameID, g)
	}
	s.mu.Unlock()
	if err != nil {
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(view)
}

// handleGetGame returns the current view of a session.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, ok := s.lookup(w, r, id)
	if !ok {
		return
	}
	s.mu.Lock()
	view := newView(id, g)
	s.mu.Unlock()
	_ = json.NewEncoder(w).Encode(view)
}

// lookup loads a session or writes a 404.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request, id string) (*game.Session, bool) {
	g, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"game_not_found"}`, http.StatusNotFound)
		return nil, false
	}
	return g, true
}

// writeGameError maps engine/repository errors onto HTTP statuses.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrEmptyGuess):
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
	case errors.Is(err, puzzles.ErrNotFound):
		http.Error(w, `{"error":"puzzle_not_found"}`, http.StatusNotFound)
	default:
		log.Error().Err(err).Msg("game error")
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
	}
}
