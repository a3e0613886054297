// internal/httpserver/server.go
//
// HTTP server wiring for the hangman backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Game endpoints: POST /game/new, GET /game, POST /game/guess.
//   - Debug endpoints behind bcrypt-checked basic auth (only when configured).
//
// Notes:
//   - CORS is origin‑aware and credentials‑enabled (so cookies work).
//   - Players are identified by a signed session token (see token.go); the
//     first POST /game/new issues one and later requests keep it fresh.
//   - Invalid or repeated letters are not errors: the response reports
//     applied=false and, for repeats, a message.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/session"
)

// Server bundles router, round controller and configuration.
type Server struct {
	r      *chi.Mux
	rounds *session.Service
	cfg    config.Config
}

// New constructs a Server, installs middleware, and registers routes.
func New(rounds *session.Service, cfg config.Config) *Server {
	s := &Server{r: chi.NewRouter(), rounds: rounds, cfg: cfg}

	// --- middleware ---
	s.r.Use(chimw.RequestID)               // add X-Request-ID
	s.r.Use(chimw.RealIP)                  // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))   // request-scoped logger
	s.r.Use(hlog.AccessHandler(accessLog)) // one line per request
	s.r.Use(chimw.Recoverer)               // recover from panics
	s.r.Use(jsonContentType)               // default JSON responses
	s.r.Use(s.cors)                        // credentials-friendly CORS
	s.r.Use(s.withSession)                 // attach session id when token is valid
	if cfg.RequestTimeout > 0 {
		s.r.Use(chimw.Timeout(cfg.RequestTimeout)) // bound handler time
	}

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"hangman-go","endpoints":["/health","POST /game/new","GET /game","POST /game/guess"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// --- game ---
	s.r.Post("/game/new", s.handleNewGame)
	s.r.Get("/game", s.handleCurrent)
	s.r.Post("/game/guess", s.handleGuess)

	// --- debug (opt-in) ---
	if cfg.DebugPasswordHash != "" {
		s.r.With(s.requireDebugAuth).Get("/debug/catalog", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]int{"entries": len(s.rounds.Catalog())})
		})
	}

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "not_found", http.StatusNotFound)
	})

	return s
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

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
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", refreshHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one structured line per request.
func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("req_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// requireDebugAuth checks HTTP basic auth against the configured bcrypt hash.
func (s *Server) requireDebugAuth(next http.Handler) http.Handler {
	hash := []byte(s.cfg.DebugPasswordHash)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, pw, ok := r.BasicAuth()
		if !ok || bcrypt.CompareHashAndPassword(hash, []byte(pw)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			writeError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ GAME ---------------------------------------

// roundView is the render-ready projection of a round. Every field is
// derived from the stored state on each request.
type roundView struct {
	GameID           string      `json:"gameId"`
	Mode             string      `json:"mode"`
	Status           game.Status `json:"status"`
	Hint             string      `json:"hint"`
	Mask             string      `json:"mask"`
	Correct          []string    `json:"correct"`
	Incorrect        []string    `json:"incorrect"`
	IncorrectGuesses int         `json:"incorrectGuesses"`
	MaxIncorrect     int         `json:"maxIncorrect"`
	Stage            int         `json:"stage"`
	Drawing          string      `json:"drawing"`
	Word             string      `json:"word,omitempty"` // revealed once finished
}

func viewOf(r game.Round) roundView {
	st := r.State
	correct, incorrect := game.Classify(st)
	v := roundView{
		GameID:           r.ID,
		Mode:             r.Mode,
		Status:           st.Status,
		Hint:             st.Word.Hint,
		Mask:             game.Mask(st),
		Correct:          correct,
		Incorrect:        incorrect,
		IncorrectGuesses: st.Incorrect,
		MaxIncorrect:     game.MaxIncorrect,
		Stage:            game.Stage(st),
		Drawing:          game.Drawing(game.Stage(st)),
	}
	if st.Status.Finished() {
		v.Word = st.Word.Word
	}
	return v
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode string `json:"mode"` // "random" (default) | "daily"
}
type newGameRes struct {
	roundView
	Token string `json:"token,omitempty"` // set when a session was just issued
}

// handleNewGame starts a round for the caller's session, issuing a session
// first when the caller has none.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, "bad_json", http.StatusBadRequest)
		return
	}

	var res newGameRes
	sid, ok := sessionFrom(r.Context())
	if !ok {
		var (
			exp time.Time
			err error
		)
		sid, res.Token, exp, err = s.issueSession()
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("issue session")
			writeError(w, "sign_failed", http.StatusInternalServerError)
			return
		}
		s.setSessionCookie(w, res.Token, exp)
	}

	round, err := s.rounds.Start(r.Context(), sid, req.Mode)
	if errors.Is(err, session.ErrUnknownMode) {
		writeError(w, "unknown_mode", http.StatusBadRequest)
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("start round")
		writeError(w, "start_failed", http.StatusInternalServerError)
		return
	}
	res.roundView = viewOf(round)
	_ = json.NewEncoder(w).Encode(res)
}

// handleCurrent returns the caller's active round.
func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionFrom(r.Context())
	if !ok {
		writeError(w, "no_session", http.StatusUnauthorized)
		return
	}
	round, err := s.rounds.Current(r.Context(), sid)
	if errors.Is(err, session.ErrNoRound) {
		writeError(w, "no_round", http.StatusNotFound)
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load round")
		writeError(w, "load_failed", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(viewOf(round))
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	Letter string `json:"letter"`
}
type guessRes struct {
	roundView
	Applied bool   `json:"applied"`
	Repeat  bool   `json:"repeat"`
	Message string `json:"message,omitempty"`
}

// handleGuess applies one letter to the caller's active round.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionFrom(r.Context())
	if !ok {
		writeError(w, "no_session", http.StatusUnauthorized)
		return
	}
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "bad_json", http.StatusBadRequest)
		return
	}
	out, err := s.rounds.Guess(r.Context(), sid, req.Letter)
	if errors.Is(err, session.ErrNoRound) {
		writeError(w, "no_round", http.StatusNotFound)
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("apply guess")
		writeError(w, "save_failed", http.StatusInternalServerError)
		return
	}

	res := guessRes{roundView: viewOf(out.Round), Applied: out.Applied, Repeat: out.Repeat}
	if out.Repeat {
		res.Message = fmt.Sprintf("You already guessed '%s'", strings.ToUpper(req.Letter))
	}
	_ = json.NewEncoder(w).Encode(res)
}

// writeError sends {"error":code} with the given status.
func writeError(w http.ResponseWriter, code string, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
