package engine

import (
	"strconv"
	"strings"

	"blackjack-tutor/server/apperr"
)

const (
	MinTotal     = 2
	MaxTotal     = 21
	MinSoftTotal = 12
)

const anythingElse = "  What else can I help with?"

var (
	errMissingTotal = apperr.Validationf(apperr.CodeMissingTotal,
		"I'm sorry, I didn't hear a player total."+anythingElse)
	errTotalOutOfRange = apperr.Validationf(apperr.CodeTotalOutOfRange,
		"I'm sorry, the player total must be between 2 and 21 inclusive."+anythingElse)
	errSoftTooLow = apperr.Validationf(apperr.CodeSoftTotalTooLow,
		"I'm sorry, soft player totals must be at least 12."+anythingElse)
	errMissingDealer = apperr.Validationf(apperr.CodeMissingDealer,
		"I'm sorry, I did not hear a dealer card."+anythingElse)
	errDealerOutOfRange = apperr.Validationf(apperr.CodeDealerOutOfRange,
		"I'm sorry, the dealer card must be an ace or a value from 2 to 10."+anythingElse)
)

// Interpret turns raw slots into a canonical hand and a dealer upcard.
// Hard total wins over soft total, which wins over pair card. Checks run in
// a fixed order and only the first failure is reported.
func Interpret(s Slots) (Hand, int, error) {
	var (
		total   int
		soft    bool
		pair    int
		present bool
	)
	switch {
	case filled(s.HardTotal):
		total, present = parseTotal(s.HardTotal)
	case filled(s.SoftTotal):
		total, present = parseTotal(s.SoftTotal)
		soft = true
	case filled(s.PairCard):
		if v, ok := CardValue(s.PairCard); ok {
			pair = v
			total = 2 * v
			present = total != 0
			if v == Ace {
				total = MinSoftTotal
				soft = true
			}
		}
	}

	if !present {
		return Hand{}, 0, errMissingTotal
	}
	if total < MinTotal || total > MaxTotal {
		return Hand{}, 0, errTotalOutOfRange
	}
	if soft && total < MinSoftTotal {
		return Hand{}, 0, errSoftTooLow
	}
	if !filled(s.Dealer) {
		return Hand{}, 0, errMissingDealer
	}
	dealer, ok := CardValue(s.Dealer)
	if !ok || dealer < Ace || dealer > Ten {
		return Hand{}, 0, errDealerOutOfRange
	}

	return synthesize(total, soft, pair), dealer, nil
}

func synthesize(total int, soft bool, pair int) Hand {
	var cards []int
	switch {
	case pair != 0:
		cards = []int{pair, pair}
	case soft:
		cards = []int{Ace, total - 11}
	default:
		low := 2
		if total > 11 {
			low = Ten
		}
		cards = []int{low, total - low}
	}
	return Hand{
		Cards:  cards,
		Total:  total,
		IsSoft: soft,
		IsPair: cards[0] == cards[1],
	}
}

func filled(v string) bool { return strings.TrimSpace(v) != "" && strings.TrimSpace(v) != "?" }

func parseTotal(v string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
