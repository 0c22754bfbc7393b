package engine

import "sort"

// Contribution records what one player has put into the hand so far
type Contribution struct {
	PlayerID string
	Seat     int
	Amount   int
	Folded   bool
}

// Pot is a subdivision of the hand's chips eligible to a subset of players.
// The first pot in a slice is the main pot; side pots follow in increasing
// contribution order.
type Pot struct {
	Amount     int      `json:"amount"`
	Eligible   []string `json:"eligiblePlayerIds"`
	CapPerSeat int      `json:"-"` // contribution tier that closed this pot
}

// BuildPots constructs main and side pots from per-player hand contributions.
// It walks the distinct contribution tiers in ascending order; each tier layer
// holds (tier - previousTier) chips from every player who contributed at that
// tier or above, and is eligible to the non-folded players among them.
func BuildPots(contributions []Contribution) []Pot {
	contribs := make([]Contribution, 0, len(contributions))
	for _, c := range contributions {
		if c.Amount > 0 {
			contribs = append(contribs, c)
		}
	}
	if len(contribs) == 0 {
		return nil
	}

	sort.Slice(contribs, func(i, j int) bool {
		if contribs[i].Amount != contribs[j].Amount {
			return contribs[i].Amount < contribs[j].Amount
		}
		return contribs[i].Seat < contribs[j].Seat
	})

	var pots []Pot
	prevTier := 0

	for i := 0; i < len(contribs); i++ {
		tier := contribs[i].Amount
		if tier == prevTier {
			continue
		}

		atOrAbove := contribs[i:]
		amount := (tier - prevTier) * len(atOrAbove)

		eligible := make([]string, 0, len(atOrAbove))
		for _, c := range atOrAbove {
			if !c.Folded {
				eligible = append(eligible, c.PlayerID)
			}
		}

		// If everyone at this tier or above folded, the layer goes to the
		// lowest-seated contributor still in the hand.
		if len(eligible) == 0 {
			if survivor, ok := lowestSeatSurvivor(contribs); ok {
				eligible = []string{survivor}
			}
		}

		pots = append(pots, Pot{Amount: amount, Eligible: eligible, CapPerSeat: tier})
		prevTier = tier
	}

	return pots
}

func lowestSeatSurvivor(contribs []Contribution) (string, bool) {
	bestSeat := -1
	var id string
	for _, c := range contribs {
		if !c.Folded && (bestSeat == -1 || c.Seat < bestSeat) {
			bestSeat = c.Seat
			id = c.PlayerID
		}
	}
	return id, bestSeat != -1
}

// PotTotal sums the amounts of all pots
func PotTotal(pots []Pot) int {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	return total
}

// Payout records chips awarded to one player from one pot
type Payout struct {
	PlayerID string
	Amount   int
	PotIndex int
}

// AwardPots distributes each pot to the eligible players tied at the maximum
// score. Ties split evenly; remainder chips go one at a time to the winners
// with the lowest seat indices. scores and seats are keyed by player id.
func AwardPots(pots []Pot, scores map[string]int64, seats map[string]int) []Payout {
	var payouts []Payout

	for potIdx, pot := range pots {
		if pot.Amount == 0 || len(pot.Eligible) == 0 {
			continue
		}

		var best int64 = -1
		var winners []string
		for _, id := range pot.Eligible {
			s, ok := scores[id]
			if !ok {
				continue
			}
			if s > best {
				best = s
				winners = []string{id}
			} else if s == best {
				winners = append(winners, id)
			}
		}
		if len(winners) == 0 {
			// Uncontested layer (all folded): single eligible survivor
			winners = pot.Eligible[:1]
		}

		sort.Slice(winners, func(i, j int) bool {
			return seats[winners[i]] < seats[winners[j]]
		})

		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)

		for i, id := range winners {
			amount := share
			if i < remainder {
				amount++
			}
			if amount > 0 {
				payouts = append(payouts, Payout{PlayerID: id, Amount: amount, PotIndex: potIdx})
			}
		}
	}

	return payouts
}
