package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSeat(t *testing.T) {
	t.Parallel()

	seats := []int{1, 3, 5}

	tests := []struct {
		from, want int
	}{
		{1, 3},
		{3, 5},
		{5, 1}, // wrap
		{0, 1},
		{2, 3}, // from need not be occupied
		{9, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextSeat(seats, tt.from), "NextSeat(%v, %d)", seats, tt.from)
	}

	assert.Equal(t, -1, NextSeat(nil, 0), "empty seat set")
}

func TestBlindSeatsHeadsUp(t *testing.T) {
	t.Parallel()

	// Heads-up the dealer posts the small blind.
	sb, bb := BlindSeats([]int{2, 4}, 2)
	assert.Equal(t, 2, sb)
	assert.Equal(t, 4, bb)
}

func TestBlindSeatsThreeHanded(t *testing.T) {
	t.Parallel()

	sb, bb := BlindSeats([]int{0, 1, 2}, 0)
	assert.Equal(t, 1, sb)
	assert.Equal(t, 2, bb)
}

func TestFirstToActPreflop(t *testing.T) {
	t.Parallel()

	// Heads-up the dealer/small blind acts first preflop.
	assert.Equal(t, 2, FirstToActPreflop([]int{2, 4}, 2))

	// Three-handed: under the gun, after the big blind.
	assert.Equal(t, 0, FirstToActPreflop([]int{0, 1, 2}, 0), "dealer is UTG three-handed")

	// Four-handed: seat after the big blind.
	assert.Equal(t, 3, FirstToActPreflop([]int{0, 1, 2, 3}, 0))
}

func TestFirstToActPostflop(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, FirstToActPostflop([]int{0, 1, 2}, 0))
	// Dealer acts last; wrap past the highest seat.
	assert.Equal(t, 0, FirstToActPostflop([]int{0, 1, 2}, 2))
}

func TestNextDealerRotation(t *testing.T) {
	t.Parallel()

	seats := []int{1, 3, 5}
	dealer := 1
	var seen []int
	for i := 0; i < 3; i++ {
		dealer = NextDealer(seats, dealer)
		seen = append(seen, dealer)
	}
	assert.Equal(t, []int{3, 5, 1}, seen)
}

func TestNextDealerSkipsVacatedSeat(t *testing.T) {
	t.Parallel()

	// Previous dealer busted and is no longer in the eligible set.
	assert.Equal(t, 4, NextDealer([]int{0, 4}, 2))
}
