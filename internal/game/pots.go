package game

import "github.com/shopspring/decimal"

// Pot is one layer of the round's pot, bounded by a contribution
// threshold. A layer closes whenever a player is all in for less than the
// layers above it; folded players contribute to a layer but are never
// eligible to win it.
type Pot struct {
	Amount   decimal.Decimal `json:"amount"`
	Eligible []string        `json:"eligible"` // player ids in seating order
}

// potLayers splits the players' cumulative round contributions into side
// pots. It repeatedly peels off the smallest outstanding contribution as a
// layer threshold, then merges adjacent layers that share an eligibility
// set.
func potLayers(order []string, players map[string]*Player) []Pot {
	type stake struct {
		id       string
		amount   decimal.Decimal
		eligible bool
	}

	remaining := make([]stake, 0, len(order))
	for _, id := range order {
		p := players[id]
		if p.roundTotal.IsZero() {
			continue
		}
		remaining = append(remaining, stake{
			id:       id,
			amount:   p.roundTotal,
			eligible: p.Status != StatusFolded,
		})
	}

	var layers []Pot
	for len(remaining) > 0 {
		threshold := remaining[0].amount
		for _, s := range remaining[1:] {
			if s.amount.LessThan(threshold) {
				threshold = s.amount
			}
		}

		amount := threshold.Mul(decimal.NewFromInt(int64(len(remaining))))
		eligible := make([]string, 0, len(remaining))
		for _, s := range remaining {
			if s.eligible {
				eligible = append(eligible, s.id)
			}
		}

		if n := len(layers); n > 0 && sameEligible(layers[n-1].Eligible, eligible) {
			layers[n-1].Amount = layers[n-1].Amount.Add(amount)
		} else {
			layers = append(layers, Pot{Amount: amount, Eligible: eligible})
		}

		next := remaining[:0]
		for _, s := range remaining {
			s.amount = s.amount.Sub(threshold)
			if s.amount.IsPositive() {
				next = append(next, s)
			}
		}
		remaining = next
	}
	return layers
}

func sameEligible(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
