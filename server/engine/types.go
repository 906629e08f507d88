package engine

// Card values follow blackjack counting: ace is 1, faces are 10.
const (
	Ace = 1
	Ten = 10
)

// Hand is the canonical two-card representative of a spoken player hand.
// Strategy lookup only needs total, softness and pair-ness, so Cards is a
// stand-in rather than the literal cards on the table.
type Hand struct {
	Cards  []int `json:"cards"`
	Total  int   `json:"total"`
	IsSoft bool  `json:"is_soft"`
	IsPair bool  `json:"is_pair"`
}

// Slots are the raw slot values of a BasicStrategyIntent. Empty means the
// platform did not fill the slot.
type Slots struct {
	HardTotal string
	SoftTotal string
	PairCard  string
	Dealer    string
}
