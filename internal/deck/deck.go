package deck

import rand "math/rand/v2"

// Deck represents a standard 52-card shoe. The RNG is injected so tests can
// reproduce exact deals; production callers seed via randutil.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a new shuffled 52-card deck using the provided RNG
func New(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}

	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}

	d.Shuffle()
	return d
}

// NewOrdered creates an unshuffled deck in canonical order, for tests that
// need a known permutation.
func NewOrdered() *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	return d
}

// Shuffle randomizes the deck in place using Fisher-Yates
func (d *Deck) Shuffle() {
	if d.rng == nil {
		return
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top card from the deck
func (d *Deck) Deal() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// DealN deals n cards from the deck, fewer if the deck runs out
func (d *Deck) DealN(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	cards := make([]Card, n)
	for i := 0; i < n; i++ {
		cards[i], _ = d.Deal()
	}
	return cards
}

// Burn discards the top card before dealing community cards
func (d *Deck) Burn() {
	if len(d.cards) > 0 {
		d.cards = d.cards[1:]
	}
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}
