// Package strategy answers "what is the basic-strategy play" for a hand
// against a dealer upcard under a rule set.
package strategy

import (
	"context"
	"fmt"
	"strings"
)

type Action string

const (
	Hit         Action = "hit"
	Stand       Action = "stand"
	Double      Action = "double"
	Split       Action = "split"
	Surrender   Action = "surrender"
	NoInsurance Action = "noinsurance"
)

// ParseAction accepts the engine's wire spelling of an action.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case Hit, Stand, Double, Split, Surrender, NoInsurance:
		return a, nil
	}
	return "", fmt.Errorf("unrecognized action %q", s)
}

const (
	ComplexitySimple   = "simple"
	ComplexityAdvanced = "advanced"

	SurrenderLate = "late"
	SurrenderNone = "none"
)

// Rules is the table configuration sent with every request.
type Rules struct {
	Decks            int     `json:"decks"`
	DealerHitsSoft17 bool    `json:"dealerHitsSoft17"`
	Complexity       string  `json:"strategyComplexity"`
	DoubleRange      *[2]int `json:"doubleRange,omitempty"` // totals allowed to double; nil means any
	Surrender        string  `json:"surrender,omitempty"`   // "" means late
	OfferInsurance   bool    `json:"offerInsurance"`
}

// DefaultRules is a single deck, dealer hits soft 17, advanced chart.
func DefaultRules() Rules {
	return Rules{Decks: 1, DealerHitsSoft17: true, Complexity: ComplexityAdvanced}
}

// NoDouble returns a copy of r with doubling forbidden.
func (r Rules) NoDouble() Rules {
	r.DoubleRange = &[2]int{0, 0}
	return r
}

// NoSurrender returns a copy of r with surrender disabled.
func (r Rules) NoSurrender() Rules {
	r.Surrender = SurrenderNone
	return r
}

func (r Rules) canDouble(total int) bool {
	if r.DoubleRange == nil {
		return true
	}
	return total >= r.DoubleRange[0] && total <= r.DoubleRange[1] && r.DoubleRange[1] > 0
}

func (r Rules) canSurrender() bool {
	return r.Surrender != SurrenderNone && r.Complexity != ComplexitySimple
}

// Engine recommends a player action. cards are blackjack values with ace=1
// and dealer is the upcard value in [1,10].
type Engine interface {
	Recommend(ctx context.Context, cards []int, dealer int, rules Rules) (Action, error)
}
