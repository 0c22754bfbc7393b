package engine

import (
	"sort"

	"github.com/holdemlabs/roomsrv/internal/deck"
)

// Category enumerates poker hand categories ordered from weakest to strongest
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category name
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandValue is the result of evaluating a five-card hand. Score collapses
// category and kickers into a single totally-ordered value:
// category*10^10 + k0*10^8 + k1*10^6 + k2*10^4 + k3*10^2 + k4.
type HandValue struct {
	Category Category
	Kickers  []deck.Rank
	Score    int64
}

// score computes the positional encoding for a category and kicker vector
func score(category Category, kickers []deck.Rank) int64 {
	s := int64(category) * 1e10
	mult := int64(1e8)
	for _, k := range kickers {
		s += int64(k) * mult
		mult /= 100
	}
	return s
}

// EvaluateFive evaluates exactly five cards
func EvaluateFive(cards []deck.Card) HandValue {
	ranks := make([]int, len(cards))
	for i, c := range cards {
		ranks[i] = int(c.Rank)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))

	flush := true
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}

	straightHigh, isStraight := straightHighCard(ranks)

	// Count rank multiplicities, then order groups by (count desc, rank desc)
	counts := make(map[int]int)
	for _, r := range ranks {
		counts[r]++
	}
	type group struct{ rank, count int }
	groups := make([]group, 0, len(counts))
	for r, n := range counts {
		groups = append(groups, group{r, n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	var category Category
	var kickers []deck.Rank

	switch {
	case isStraight && flush && straightHigh == int(deck.Ace):
		category = RoyalFlush
		kickers = []deck.Rank{deck.Ace}
	case isStraight && flush:
		category = StraightFlush
		kickers = []deck.Rank{deck.Rank(straightHigh)}
	case groups[0].count == 4:
		category = FourOfAKind
		kickers = []deck.Rank{deck.Rank(groups[0].rank), deck.Rank(groups[1].rank)}
	case groups[0].count == 3 && groups[1].count == 2:
		category = FullHouse
		kickers = []deck.Rank{deck.Rank(groups[0].rank), deck.Rank(groups[1].rank)}
	case flush:
		category = Flush
		kickers = ranksToKickers(ranks)
	case isStraight:
		category = Straight
		kickers = []deck.Rank{deck.Rank(straightHigh)}
	case groups[0].count == 3:
		category = ThreeOfAKind
		kickers = []deck.Rank{deck.Rank(groups[0].rank), deck.Rank(groups[1].rank), deck.Rank(groups[2].rank)}
	case groups[0].count == 2 && groups[1].count == 2:
		category = TwoPair
		kickers = []deck.Rank{deck.Rank(groups[0].rank), deck.Rank(groups[1].rank), deck.Rank(groups[2].rank)}
	case groups[0].count == 2:
		category = OnePair
		kickers = []deck.Rank{
			deck.Rank(groups[0].rank), deck.Rank(groups[1].rank),
			deck.Rank(groups[2].rank), deck.Rank(groups[3].rank),
		}
	default:
		category = HighCard
		kickers = ranksToKickers(ranks)
	}

	return HandValue{Category: category, Kickers: kickers, Score: score(category, kickers)}
}

// straightHighCard reports whether the five descending ranks form a straight
// and returns its high card. The wheel A-2-3-4-5 ranks with 5 as high.
func straightHighCard(ranks []int) (int, bool) {
	distinct := true
	for i := 1; i < len(ranks); i++ {
		if ranks[i] == ranks[i-1] {
			distinct = false
			break
		}
	}
	if !distinct {
		return 0, false
	}

	if ranks[0]-ranks[4] == 4 {
		return ranks[0], true
	}

	// Wheel: A,5,4,3,2
	if ranks[0] == int(deck.Ace) && ranks[1] == 5 && ranks[4] == 2 && ranks[1]-ranks[4] == 3 {
		return 5, true
	}

	return 0, false
}

func ranksToKickers(ranks []int) []deck.Rank {
	kickers := make([]deck.Rank, len(ranks))
	for i, r := range ranks {
		kickers[i] = deck.Rank(r)
	}
	return kickers
}

// Evaluate returns the best five-card value from seven cards (two hole cards
// plus the board) by enumerating all 21 five-card subsets.
func Evaluate(cards []deck.Card) HandValue {
	if len(cards) == 5 {
		return EvaluateFive(cards)
	}

	var best HandValue
	subset := make([]deck.Card, 5)

	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						subset[0], subset[1], subset[2], subset[3], subset[4] =
							cards[a], cards[b], cards[c], cards[d], cards[e]
						if v := EvaluateFive(subset); v.Score > best.Score {
							best = v
						}
					}
				}
			}
		}
	}

	return best
}
