package game

import (
	"context"
	"encoding/json"
	"errors"

	"blackjack-tutor/server/apperr"

	"go.uber.org/zap"
)

type Phase int

const (
	Uninitialized Phase = iota
	Syncing
	Ready
	AwaitingResult
	Ended
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Syncing:
		return "syncing"
	case Ready:
		return "ready"
	case AwaitingResult:
		return "awaiting_result"
	case Ended:
		return "ended"
	}
	return "unknown"
}

var (
	// ErrTurnSpent is returned when a second round trip is attempted in one turn.
	ErrTurnSpent = errors.New("game: remote round trip already made this turn")
	// ErrNotSynced is returned by Act before any state has been fetched.
	ErrNotSynced = errors.New("game: no game state, sync first")

	errEnded = apperr.Validationf(apperr.CodeSessionEnded, "The game has ended. Goodbye.")
)

// Coordinator drives one conversational turn against the game service.
// It is built from the session attributes at the start of the turn and its
// Attributes are written back at the end. State only changes after a
// successful round trip.
type Coordinator struct {
	svc     Service
	log     *zap.Logger
	phase   Phase
	session *Session
	spent   bool
}

// NewCoordinator restores a coordinator from session attributes. Attributes
// that are missing or lack a userID leave it Uninitialized.
func NewCoordinator(svc Service, attrs json.RawMessage, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Coordinator{svc: svc, log: log, phase: Uninitialized}
	if len(attrs) == 0 {
		return c
	}
	s, err := DecodeSession(attrs)
	if err != nil {
		log.Debug("session attributes unusable, resyncing", zap.Error(err))
		return c
	}
	c.session = s
	c.phase = Ready
	return c
}

func (c *Coordinator) Phase() Phase { return c.phase }

// Session is the last known good game state, or nil before the first sync.
func (c *Coordinator) Session() *Session { return c.session }

// Attributes are the session attributes to persist for the next turn.
func (c *Coordinator) Attributes() json.RawMessage {
	if c.session == nil {
		return nil
	}
	return c.session.Raw
}

// Sync fetches the user's game from the service. On failure the coordinator
// stays Uninitialized so the next turn tries again.
func (c *Coordinator) Sync(ctx context.Context, userID string) error {
	if c.phase == Ended {
		return errEnded
	}
	if c.spent {
		return ErrTurnSpent
	}
	c.spent = true
	c.phase = Syncing

	s, err := c.svc.Fetch(ctx, userID)
	if err != nil {
		c.phase = Uninitialized
		c.log.Warn("game fetch failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	c.session = s
	c.phase = Ready
	c.log.Info("game synced", zap.Strings("possible_actions", s.PossibleActions))
	return nil
}

// Act posts a legal action. Illegal or missing actions never reach the
// service. A failed post leaves the previous state exactly as it was.
func (c *Coordinator) Act(ctx context.Context, action string) error {
	switch c.phase {
	case Ended:
		return errEnded
	case Uninitialized:
		return ErrNotSynced
	}
	canonical, err := c.session.Validate(action)
	if err != nil {
		return err
	}
	if c.spent {
		return ErrTurnSpent
	}
	c.spent = true
	c.phase = AwaitingResult

	s, err := c.svc.Post(ctx, c.session.UserID, canonical)
	c.phase = Ready
	if err != nil {
		c.log.Warn("game action failed", zap.String("action", canonical), zap.Error(err))
		return err
	}
	c.session = s
	c.log.Info("game action applied",
		zap.String("action", canonical),
		zap.Strings("possible_actions", s.PossibleActions))
	return nil
}

// End stops the game for this conversation. No further calls are made.
func (c *Coordinator) End() {
	if c.phase != Ended && c.session != nil {
		c.log.Info("game left", zap.String("user_id", c.session.UserID))
	}
	c.phase = Ended
}
