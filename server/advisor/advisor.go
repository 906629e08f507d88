// Package advisor turns a canonical hand into spoken basic-strategy advice,
// including the "if that is not allowed" fallback for double and surrender.
package advisor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"blackjack-tutor/server/apperr"
	"blackjack-tutor/server/engine"
	"blackjack-tutor/server/strategy"

	"go.uber.org/zap"
)

const noInsuranceSpeech = "You should never take insurance."

// Advisory is the composed answer for one question.
type Advisory struct {
	Action   strategy.Action
	Fallback *strategy.Action
	Speech   string
}

type Resolver struct {
	engine strategy.Engine
	rules  strategy.Rules
	log    *zap.Logger
}

func NewResolver(e strategy.Engine, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{engine: e, rules: strategy.DefaultRules(), log: log}
}

// Resolve makes one engine request, plus a second sequential one when the
// primary answer is double or surrender.
func (r *Resolver) Resolve(ctx context.Context, hand engine.Hand, dealer int) (Advisory, error) {
	action, err := r.ask(ctx, hand, dealer, r.rules)
	if err != nil {
		return Advisory{}, err
	}
	if action == strategy.NoInsurance {
		return Advisory{Action: action, Speech: noInsuranceSpeech}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You should %s with %s against %s %s",
		action, describe(hand), engine.Article(dealer), engine.CardName(dealer))

	adv := Advisory{Action: action}
	var fallbackRules strategy.Rules
	switch action {
	case strategy.Double:
		fallbackRules = r.rules.NoDouble()
	case strategy.Surrender:
		fallbackRules = r.rules.NoSurrender()
	}
	if action == strategy.Double || action == strategy.Surrender {
		fb, err := r.ask(ctx, hand, dealer, fallbackRules)
		if err != nil {
			return Advisory{}, err
		}
		adv.Fallback = &fb
		fmt.Fprintf(&sb, ". If %s is not allowed, you should %s", action, fb)
	}
	sb.WriteString(".")
	adv.Speech = sb.String()

	r.log.Debug("advisory resolved",
		zap.Ints("cards", hand.Cards),
		zap.Int("dealer", dealer),
		zap.String("action", string(action)),
		zap.Bool("fallback", adv.Fallback != nil))
	return adv, nil
}

func (r *Resolver) ask(ctx context.Context, hand engine.Hand, dealer int, rules strategy.Rules) (strategy.Action, error) {
	a, err := r.engine.Recommend(ctx, hand.Cards, dealer, rules)
	if err != nil {
		return "", apperr.Wrap(apperr.StrategyEngine, apperr.CodeEngineFailed,
			"I'm sorry, I couldn't work out a suggestion right now.", err)
	}
	// Engines may be remote, so re-check and normalise what came back.
	p, err := strategy.ParseAction(string(a))
	if err != nil {
		return "", apperr.Wrap(apperr.StrategyEngine, apperr.CodeEngineUnknownAction,
			"I'm sorry, I couldn't work out a suggestion right now.", err)
	}
	return p, nil
}

func describe(h engine.Hand) string {
	if h.IsPair {
		return "a pair of " + engine.PluralName(h.Cards[0])
	}
	if h.IsSoft {
		return "soft " + strconv.Itoa(h.Total)
	}
	return strconv.Itoa(h.Total)
}
