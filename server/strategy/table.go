package strategy

import (
	"context"
	"fmt"
)

// Chart cells, one per dealer upcard in the order 2..10, ace.
//
//	H hit, S stand, P split, - no split (play the total)
//	D double else hit, T double else stand
//	R surrender else hit, Q surrender else stand
var hardChart = map[int]string{
	4:  "HHHHHHHHHH",
	5:  "HHHHHHHHHH",
	6:  "HHHHHHHHHH",
	7:  "HHHHHHHHHH",
	8:  "HHHDDHHHHH",
	9:  "DDDDDHHHHH",
	10: "DDDDDDDDHH",
	11: "DDDDDDDDDD",
	12: "HHSSSHHHHH",
	13: "SSSSSHHHHH",
	14: "SSSSSHHHHH",
	15: "SSSSSHHHHR",
	16: "SSSSSHHHRR",
	17: "SSSSSSSSSQ",
}

var softChart = map[int]string{
	12: "HHHHHHHHHH",
	13: "HHDDDHHHHH",
	14: "HHDDDHHHHH",
	15: "HHDDDHHHHH",
	16: "HHDDDHHHHH",
	17: "DDDDDHHHHH",
	18: "STTTTSSHHH",
	19: "SSSSTSSSSS",
}

var pairChart = map[int]string{
	1:  "PPPPPPPPPP",
	2:  "PPPPPPHHHH",
	3:  "PPPPPPHHHH",
	4:  "HHPPPHHHHH",
	5:  "----------",
	6:  "PPPPPPHHHH",
	7:  "PPPPPPPHSH",
	8:  "PPPPPPPPPP",
	9:  "PPPPPSPPSS",
	10: "----------",
}

// Table is an in-process single-deck basic strategy chart. It reads the
// chart as-is; nothing is derived at runtime.
type Table struct{}

func NewTable() *Table { return &Table{} }

func (t *Table) Recommend(ctx context.Context, cards []int, dealer int, rules Rules) (Action, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(cards) < 2 {
		return "", fmt.Errorf("need at least two cards, got %d", len(cards))
	}
	if dealer < 1 || dealer > 10 {
		return "", fmt.Errorf("dealer card %d out of range", dealer)
	}
	for _, c := range cards {
		if c < 0 || c > 11 {
			return "", fmt.Errorf("card %d out of range", c)
		}
	}
	switch rules.Complexity {
	case "", ComplexitySimple, ComplexityAdvanced:
	default:
		return "", fmt.Errorf("unknown strategy complexity %q", rules.Complexity)
	}

	firstTwo := len(cards) == 2
	if rules.OfferInsurance && dealer == 1 && firstTwo {
		return NoInsurance, nil
	}

	col := column(dealer)
	total, soft := handTotal(cards)

	if firstTwo && cards[0] == cards[1] {
		if row, ok := pairChart[cards[0]]; ok && row[col] == 'P' {
			return Split, nil
		}
	}

	cell := byte('S')
	switch {
	case soft:
		if row, ok := softChart[total]; ok {
			cell = row[col]
		}
		if rules.Complexity == ComplexitySimple {
			cell = plainCell(cell)
		}
	case total < 4:
		cell = 'H'
	default:
		if row, ok := hardChart[total]; ok {
			cell = row[col]
		}
		if rules.Complexity != ComplexitySimple && isCompositionHit(cards, dealer) {
			cell = 'H'
		}
	}
	return resolveCell(cell, total, firstTwo, rules), nil
}

func resolveCell(cell byte, total int, firstTwo bool, rules Rules) Action {
	switch cell {
	case 'H':
		return Hit
	case 'D':
		if firstTwo && rules.canDouble(total) {
			return Double
		}
		return Hit
	case 'T':
		if firstTwo && rules.canDouble(total) {
			return Double
		}
		return Stand
	case 'R':
		if firstTwo && rules.canSurrender() {
			return Surrender
		}
		return Hit
	case 'Q':
		if firstTwo && rules.canSurrender() {
			return Surrender
		}
		return Stand
	}
	return Stand
}

// plainCell drops soft doubles for the simple chart.
func plainCell(c byte) byte {
	switch c {
	case 'D':
		return 'H'
	case 'T':
		return 'S'
	}
	return c
}

// 6-2 against 5 or 6 is a hit in single deck even though 8 doubles.
func isCompositionHit(cards []int, dealer int) bool {
	if len(cards) != 2 || (dealer != 5 && dealer != 6) {
		return false
	}
	return (cards[0] == 6 && cards[1] == 2) || (cards[0] == 2 && cards[1] == 6)
}

func column(dealer int) int {
	if dealer == 1 {
		return 9
	}
	return dealer - 2
}

func handTotal(cards []int) (int, bool) {
	total, aces := 0, 0
	for _, c := range cards {
		total += c
		if c == 1 {
			aces++
		}
	}
	if aces > 0 && total+10 <= 21 {
		return total + 10, true
	}
	return total, false
}
