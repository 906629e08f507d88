// Package skill is the blackjack tutor: basic-strategy advice and a
// voice front end to the remote game.
package skill

import (
	"context"
	"strings"

	"blackjack-tutor/server/advisor"
	"blackjack-tutor/server/alexa"
	"blackjack-tutor/server/engine"
	"blackjack-tutor/server/game"

	"go.uber.org/zap"
)

const (
	IntentBasicStrategy = "BasicStrategyIntent"
	IntentPlayGame      = "PlayGameIntent"
	IntentHelp          = "AMAZON.HelpIntent"
	IntentStop          = "AMAZON.StopIntent"
	IntentCancel        = "AMAZON.CancelIntent"
)

const (
	adviceTitle = "Basic Strategy Suggestion"
	gameTitle   = "Blackjack Game"

	welcomeSpeech   = "Welcome to the Blackjack Basic Strategy helper. You can ask a question like, what should I do with a 14 against a dealer 10? ... Now, what can I help you with."
	welcomeReprompt = "For instructions on what you can say, please say help me."
	helpSpeech      = "You can ask questions such as, what should I do with a 14 against dealer 10, or, you can say exit... Now, what can I help you with?"
	helpReprompt    = "You can say things like, what should I do with a 14 against dealer 10, or you can say exit... Now, what can I help you with?"
	goodbye         = "Goodbye"
	reinitSpeech    = "I'm sorry, I had to reinitialize the game. What else can I help with?"
	anythingElse    = "What else can I help with?"
)

// Blackjack implements alexa.Skill.
type Blackjack struct {
	advisor *advisor.Resolver
	games   game.Service
	log     *zap.Logger
	intents map[string]alexa.IntentHandler
}

func New(res *advisor.Resolver, games game.Service, log *zap.Logger) *Blackjack {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Blackjack{advisor: res, games: games, log: log}
	b.intents = map[string]alexa.IntentHandler{
		IntentBasicStrategy: b.basicStrategy,
		IntentPlayGame:      b.playGame,
		IntentHelp:          b.help,
		IntentStop:          b.stop,
		IntentCancel:        b.stop,
	}
	return b
}

func (b *Blackjack) OnLaunch(ctx context.Context, t *alexa.Turn) (*alexa.Response, error) {
	return alexa.Ask(welcomeSpeech, welcomeReprompt), nil
}

func (b *Blackjack) OnIntent(name string) (alexa.IntentHandler, bool) {
	h, ok := b.intents[name]
	return h, ok
}

func (b *Blackjack) OnSessionEnded(ctx context.Context, t *alexa.Turn) {
	t.Log.Debug("blackjack session closed")
}

// Prompts are the dispatcher lines in this skill's voice.
func Prompts() alexa.Prompts {
	p := alexa.DefaultPrompts()
	p.Reprompt = anythingElse
	p.Unknown = "I'm sorry, I didn't understand that. " + helpSpeech
	return p
}

func (b *Blackjack) basicStrategy(ctx context.Context, t *alexa.Turn) (*alexa.Response, error) {
	hand, dealer, err := engine.Interpret(engine.Slots{
		HardTotal: t.Slot("HardTotal"),
		SoftTotal: t.Slot("SoftTotal"),
		PairCard:  t.Slot("PairCard"),
		Dealer:    t.Slot("DealerCard"),
	})
	if err != nil {
		return nil, err
	}
	adv, err := b.advisor.Resolve(ctx, hand, dealer)
	if err != nil {
		return nil, err
	}
	return alexa.TellWithCard(adv.Speech, adviceTitle, string(adv.Action)), nil
}

// playGame makes at most one call to the game service. Without game state
// that call is the fetch, and the spoken action waits for the next turn.
func (b *Blackjack) playGame(ctx context.Context, t *alexa.Turn) (*alexa.Response, error) {
	c := game.NewCoordinator(b.games, t.Attributes, t.Log)
	if c.Phase() == game.Uninitialized {
		if err := c.Sync(ctx, t.UserID()); err != nil {
			return nil, err
		}
		t.Attributes = c.Attributes()
		return alexa.AskWithCard(reinitSpeech, anythingElse, gameTitle, cardActions(c.Session().PossibleActions)), nil
	}

	if err := c.Act(ctx, t.Slot("Action")); err != nil {
		return nil, err
	}
	t.Attributes = c.Attributes()
	actions := c.Session().PossibleActions
	return alexa.AskWithCard(actionsSpeech(actions), anythingElse, gameTitle, cardActions(actions)), nil
}

func (b *Blackjack) help(ctx context.Context, t *alexa.Turn) (*alexa.Response, error) {
	return alexa.Ask(helpSpeech, helpReprompt), nil
}

// stop ends the voice session with Tell; that is what ends the game, since
// no later turn carries its attributes.
func (b *Blackjack) stop(ctx context.Context, t *alexa.Turn) (*alexa.Response, error) {
	return alexa.Tell(goodbye), nil
}

func actionsSpeech(actions []string) string {
	if len(actions) == 0 {
		return "OK. There is nothing to do on this hand right now. " + anythingElse
	}
	return "OK. You can now " + spokenList(actions) + ". " + anythingElse
}

func spokenList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
}

func cardActions(actions []string) string {
	if len(actions) == 0 {
		return "No actions available"
	}
	return strings.Join(actions, ", ")
}
