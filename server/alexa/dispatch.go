package alexa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"blackjack-tutor/server/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrWrongApplication is returned when the envelope targets another skill.
var ErrWrongApplication = errors.New("alexa: application id mismatch")

// IntentHandler answers one intent. A returned *apperr.Error is spoken back
// with its Message; any other error becomes the generic apology.
type IntentHandler func(ctx context.Context, t *Turn) (*Response, error)

// Skill is what a voice application implements.
type Skill interface {
	OnLaunch(ctx context.Context, t *Turn) (*Response, error)
	OnIntent(name string) (IntentHandler, bool)
	OnSessionEnded(ctx context.Context, t *Turn)
}

// AttributeStore mirrors session attributes server-side for the lifetime of
// a voice session.
type AttributeStore interface {
	Load(ctx context.Context, sessionID string) (json.RawMessage, error)
	Save(ctx context.Context, sessionID string, attrs json.RawMessage) error
	Delete(ctx context.Context, sessionID string) error
}

// Prompts are the dispatcher's own lines.
type Prompts struct {
	Reprompt string
	Apology  string
	Unknown  string
	Busy     string
}

func DefaultPrompts() Prompts {
	return Prompts{
		Reprompt: "What else can I help with?",
		Apology:  "Sorry, internal error. What else can I help with?",
		Unknown:  "I'm sorry, I didn't understand that. For instructions on what you can say, please say help me.",
		Busy:     "I'm getting a lot of requests from you right now. Please try again in a moment.",
	}
}

// Turn is the per-request context handed to a Skill. Handlers read slots and
// the user from it and set Attributes to what the next turn should see.
type Turn struct {
	Envelope   *RequestEnvelope
	Attributes json.RawMessage
	Log        *zap.Logger
}

func (t *Turn) UserID() string { return t.Envelope.Session.User.UserID }

func (t *Turn) SessionID() string { return t.Envelope.Session.SessionID }

// Slot returns the named slot of the current intent.
func (t *Turn) Slot(name string) string { return t.Envelope.Request.Intent.SlotValue(name) }

// Limiter decides whether a caller may take another turn.
type Limiter interface {
	Allow(key string) bool
}

type Dispatcher struct {
	skill   Skill
	appID   string
	store   AttributeStore
	limiter Limiter
	prompts Prompts
	log     *zap.Logger
}

// NewDispatcher builds a dispatcher. An empty appID disables the application
// check; a nil store leaves attributes to the platform alone.
func NewDispatcher(skill Skill, appID string, store AttributeStore, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{skill: skill, appID: appID, store: store, prompts: DefaultPrompts(), log: log}
}

func (d *Dispatcher) WithPrompts(p Prompts) *Dispatcher {
	d.prompts = p
	return d
}

// WithLimiter throttles turns per user. Throttled turns are still answered.
func (d *Dispatcher) WithLimiter(l Limiter) *Dispatcher {
	d.limiter = l
	return d
}

// Dispatch runs one turn. Exactly one response comes back for every accepted
// envelope, whatever the handler does.
func (d *Dispatcher) Dispatch(ctx context.Context, env *RequestEnvelope) (*ResponseEnvelope, error) {
	if d.appID != "" && env.Session.Application.ApplicationID != d.appID {
		d.log.Warn("rejected envelope",
			zap.String("application_id", env.Session.Application.ApplicationID))
		return nil, ErrWrongApplication
	}

	fields := []zap.Field{
		zap.String("turn_id", uuid.NewString()),
		zap.String("session_id", env.Session.SessionID),
		zap.String("request_type", env.Request.Type),
	}
	if env.Request.Intent != nil {
		fields = append(fields, zap.String("intent", env.Request.Intent.Name))
	}
	t := &Turn{Envelope: env, Attributes: env.Session.Attributes, Log: d.log.With(fields...)}
	if !hasAttributes(t.Attributes) {
		t.Attributes = nil
		d.restore(ctx, t)
	}
	initial := t.Attributes

	if env.Request.Type == SessionEndedRequest {
		d.skill.OnSessionEnded(ctx, t)
		d.forget(ctx, t)
		t.Log.Info("session ended", zap.String("reason", env.Request.Reason))
		return &ResponseEnvelope{Version: Version}, nil
	}

	if !d.allow(t) {
		t.Log.Warn("turn throttled", zap.String("user_id", t.UserID()))
		resp := Ask(d.prompts.Busy, d.prompts.Reprompt)
		return &ResponseEnvelope{Version: Version, SessionAttributes: t.Attributes, Response: *resp}, nil
	}

	resp, err := d.run(ctx, t)
	if err != nil {
		resp = d.speak(t, err)
		if !errors.As(err, new(*apperr.Error)) {
			t.Attributes = initial
		}
	}

	if resp.ShouldEndSession {
		d.forget(ctx, t)
	} else {
		d.persist(ctx, t)
	}
	return &ResponseEnvelope{Version: Version, SessionAttributes: t.Attributes, Response: *resp}, nil
}

// allow keys the limiter on the user, or the session when there is none.
func (d *Dispatcher) allow(t *Turn) bool {
	if d.limiter == nil {
		return true
	}
	key := t.UserID()
	if key == "" {
		key = t.SessionID()
	}
	return d.limiter.Allow(key)
}

func (d *Dispatcher) run(ctx context.Context, t *Turn) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
			resp = nil
		}
	}()

	switch t.Envelope.Request.Type {
	case LaunchRequest:
		resp, err = d.skill.OnLaunch(ctx, t)
	case IntentRequest:
		if t.Envelope.Request.Intent == nil {
			return Ask(d.prompts.Unknown, d.prompts.Reprompt), nil
		}
		h, ok := d.skill.OnIntent(t.Envelope.Request.Intent.Name)
		if !ok {
			t.Log.Info("unhandled intent")
			return Ask(d.prompts.Unknown, d.prompts.Reprompt), nil
		}
		resp, err = h(ctx, t)
	default:
		t.Log.Warn("unknown request type")
		return Ask(d.prompts.Unknown, d.prompts.Reprompt), nil
	}
	if err == nil && resp == nil {
		err = errors.New("handler returned no response")
	}
	return resp, err
}

// speak turns a handler error into the single prompt the user hears.
func (d *Dispatcher) speak(t *Turn, err error) *Response {
	e, ok := apperr.As(err)
	if !ok {
		t.Log.Error("turn failed", zap.Error(err))
		return Ask(d.prompts.Apology, d.prompts.Reprompt)
	}
	lvl := t.Log.Info
	if e.Kind != apperr.Validation {
		lvl = t.Log.Warn
	}
	lvl("turn rejected",
		zap.String("kind", string(e.Kind)),
		zap.String("code", string(e.Code)),
		zap.Error(e.Cause))
	return Ask(e.Message, d.prompts.Reprompt)
}

func (d *Dispatcher) restore(ctx context.Context, t *Turn) {
	if d.store == nil || t.SessionID() == "" {
		return
	}
	attrs, err := d.store.Load(ctx, t.SessionID())
	if err != nil {
		t.Log.Warn("session store load failed", zap.Error(err))
		return
	}
	if hasAttributes(attrs) {
		t.Attributes = attrs
	}
}

func (d *Dispatcher) persist(ctx context.Context, t *Turn) {
	if d.store == nil || t.SessionID() == "" || !hasAttributes(t.Attributes) {
		return
	}
	if err := d.store.Save(ctx, t.SessionID(), t.Attributes); err != nil {
		t.Log.Warn("session store save failed", zap.Error(err))
	}
}

func (d *Dispatcher) forget(ctx context.Context, t *Turn) {
	if d.store == nil || t.SessionID() == "" {
		return
	}
	if err := d.store.Delete(ctx, t.SessionID()); err != nil {
		t.Log.Warn("session store delete failed", zap.Error(err))
	}
}
