package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holdemlabs/roomsrv/internal/randutil"
)

func TestNewDeckIsFullPermutation(t *testing.T) {
	t.Parallel()

	d := New(randutil.New(42))
	require.Equal(t, 52, d.CardsRemaining())

	seen := make(map[Card]bool)
	for {
		c, ok := d.Deal()
		if !ok {
			break
		}
		require.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, 52)
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	t.Parallel()

	a := New(randutil.New(7))
	b := New(randutil.New(7))
	for i := 0; i < 52; i++ {
		ca, _ := a.Deal()
		cb, _ := b.Deal()
		require.Equal(t, ca, cb, "same seed should deal same order, diverged at %d", i)
	}
}

func TestBurnDiscardsOne(t *testing.T) {
	t.Parallel()

	d := NewOrdered()
	first, _ := NewOrdered().Deal()

	d.Burn()
	c, _ := d.Deal()
	assert.NotEqual(t, first, c, "burn discards the top card")
	assert.Equal(t, 50, d.CardsRemaining())
}

func TestDealNShortDeck(t *testing.T) {
	t.Parallel()

	d := NewOrdered()
	d.DealN(50)
	assert.Len(t, d.DealN(5), 2, "DealN past the end returns what remains")

	_, ok := d.Deal()
	assert.False(t, ok, "empty deck should not deal")
}

func TestCardStringRoundTrip(t *testing.T) {
	t.Parallel()

	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			c := NewCard(suit, rank)
			parsed, err := ParseCard(c.String())
			require.NoError(t, err, "ParseCard(%q)", c.String())
			assert.Equal(t, c, parsed)
		}
	}
}

func TestParseCardRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "A", "Asd", "1s", "Xd", "Ax"} {
		_, err := ParseCard(s)
		assert.Error(t, err, "ParseCard(%q)", s)
	}
}

func TestCardJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewCard(Spades, Ace))
	require.NoError(t, err)
	assert.Equal(t, `"As"`, string(data))

	var c Card
	require.NoError(t, json.Unmarshal([]byte(`"Td"`), &c))
	assert.Equal(t, Ten, c.Rank)
	assert.Equal(t, Diamonds, c.Suit)
}
