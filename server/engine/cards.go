package engine

import (
	"strconv"
	"strings"
)

var cardNames = map[string]int{
	"ace": Ace, "aces": Ace,
	"jack": Ten, "jacks": Ten,
	"queen": Ten, "queens": Ten,
	"king": Ten, "kings": Ten,

	"two": 2, "twos": 2, "deuce": 2, "deuces": 2,
	"three": 3, "threes": 3,
	"four": 4, "fours": 4,
	"five": 5, "fives": 5,
	"six": 6, "sixes": 6,
	"seven": 7, "sevens": 7,
	"eight": 8, "eights": 8,
	"nine": 9, "nines": 9,
	"ten": 10, "tens": 10,
}

// CardValue maps a spoken card name or numeral to its blackjack value.
// The result is not range-checked; ok is false only when nothing parses.
func CardValue(name string) (int, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return 0, false
	}
	if v, ok := cardNames[n]; ok {
		return v, true
	}
	if v, err := strconv.Atoi(n); err == nil {
		return v, true
	}
	// "8s", "10's"
	n = strings.TrimSuffix(strings.TrimSuffix(n, "s"), "'")
	if v, err := strconv.Atoi(n); err == nil {
		return v, true
	}
	return 0, false
}

// CardName is the spoken name of a card value: "ace" for 1, the numeral otherwise.
func CardName(v int) string {
	if v == Ace {
		return "ace"
	}
	return strconv.Itoa(v)
}

// PluralName is the spoken plural used in "a pair of ...".
func PluralName(v int) string {
	if v == Ace {
		return "aces"
	}
	return strconv.Itoa(v) + "s"
}

// Article picks "an" for values whose spoken name starts with a vowel sound.
func Article(v int) string {
	if v == Ace || v == 8 {
		return "an"
	}
	return "a"
}
