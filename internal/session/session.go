// internal/session/session.go
//
// Round controller: the single owner of each player's active round.
// Responsibilities:
//   - Start rounds (random or daily word) and replace the previous one.
//   - Apply guesses through the engine and store the resulting state.
//   - Report whether a guess changed the round or repeated a letter.
//   - Expire rounds whose session went quiet.
//
// Start and Guess are serialized per session, so a session's
// read-modify-write never interleaves with another request for the same
// session. Different sessions proceed in parallel.

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/store"
)

// Round modes accepted by Start.
const (
	ModeRandom = "random"
	ModeDaily  = "daily"
)

var (
	// ErrNoRound is returned when a session has not started a round.
	ErrNoRound = errors.New("session: no active round")
	// ErrUnknownMode is returned by Start for a mode other than random/daily.
	ErrUnknownMode = errors.New("session: unknown mode")
)

// Outcome is the result of a guess.
type Outcome struct {
	Round   game.Round
	Applied bool // the guess changed the state
	Repeat  bool // the letter had already been guessed
}

// Service starts rounds and applies guesses on behalf of sessions.
type Service struct {
	locks     sessionLocks
	store     store.Store
	catalog   game.Catalog
	random    game.Picker
	dailySalt string
	now       func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithPicker replaces the random picker (tests use game.Fixed / game.Seeded).
func WithPicker(p game.Picker) Option { return func(s *Service) { s.random = p } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithDailySalt sets the salt of the word of the day.
func WithDailySalt(salt string) Option { return func(s *Service) { s.dailySalt = salt } }

// New constructs a Service over st drawing words from catalog.
func New(st store.Store, catalog game.Catalog, opts ...Option) *Service {
	s := &Service{
		store:   st,
		catalog: catalog,
		random:  game.Random,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Catalog returns the catalog rounds are drawn from.
func (s *Service) Catalog() game.Catalog { return s.catalog }

// Start begins a new round for sessionID, discarding any previous one.
// An empty mode means ModeRandom.
func (s *Service) Start(ctx context.Context, sessionID, mode string) (game.Round, error) {
	now := s.now().UTC()

	var p game.Picker
	switch mode {
	case "", ModeRandom:
		mode, p = ModeRandom, s.random
	case ModeDaily:
		p = daily.Picker(now, s.dailySalt)
	default:
		return game.Round{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	defer s.locks.lock(sessionID)()

	r := game.Round{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Mode:      mode,
		State:     game.NewRound(s.catalog, p),
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, r); err != nil {
		return game.Round{}, fmt.Errorf("start round: %w", err)
	}
	log.Debug().Str("round", r.ID).Str("mode", mode).Msg("round started")
	return r, nil
}

// Current returns the active round of sessionID.
func (s *Service) Current(ctx context.Context, sessionID string) (game.Round, error) {
	r, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return game.Round{}, ErrNoRound
	}
	return r, err
}

// Guess applies letter to the active round of sessionID. The stored round
// is only rewritten when the state actually changed.
func (s *Service) Guess(ctx context.Context, sessionID, letter string) (Outcome, error) {
	defer s.locks.lock(sessionID)()

	r, err := s.Current(ctx, sessionID)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Round: r}
	if r.State.Status == game.StatusPlaying {
		out.Repeat = game.AlreadyGuessed(r.State, letter)
	}
	next := game.ApplyGuess(r.State, letter)
	if next == r.State {
		return out, nil
	}

	r.State = next
	r.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, r); err != nil {
		return Outcome{}, fmt.Errorf("save guess: %w", err)
	}
	if next.Status.Finished() {
		log.Info().Str("round", r.ID).Str("status", string(next.Status)).Int("incorrect", next.Incorrect).Msg("round finished")
	}
	out.Round, out.Applied = r, true
	return out, nil
}

// Expire removes rounds untouched for longer than ttl.
func (s *Service) Expire(ctx context.Context, ttl time.Duration) (int, error) {
	return s.store.DeleteExpired(ctx, s.now().UTC().Add(-ttl))
}

// RunJanitor calls Expire every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, ttl, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.Expire(ctx, ttl)
			if err != nil {
				log.Warn().Err(err).Msg("expire rounds")
				continue
			}
			if n > 0 {
				log.Info().Int("rounds", n).Msg("expired rounds")
			}
		}
	}
}
