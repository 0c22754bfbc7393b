package engine

import "sort"

// Seat ordering helpers. All functions take a list of occupied seat indices
// (any order, duplicates not allowed) and reason in clockwise cyclic order.

// NextSeat returns the first seat in cyclic order strictly after from.
// from itself does not need to be present in seats. Returns -1 when seats is
// empty.
func NextSeat(seats []int, from int) int {
	if len(seats) == 0 {
		return -1
	}

	sorted := make([]int, len(seats))
	copy(sorted, seats)
	sort.Ints(sorted)

	for _, s := range sorted {
		if s > from {
			return s
		}
	}
	return sorted[0] // wrap
}

// BlindSeats computes the small and big blind seats for a hand. Heads-up the
// dealer posts the small blind and the other player the big blind.
func BlindSeats(seats []int, dealer int) (sb, bb int) {
	if len(seats) == 2 {
		sb = dealer
		bb = NextSeat(seats, dealer)
		return sb, bb
	}
	sb = NextSeat(seats, dealer)
	bb = NextSeat(seats, sb)
	return sb, bb
}

// FirstToActPreflop returns the first actor before the flop: the seat after
// the big blind, or the dealer heads-up.
func FirstToActPreflop(seats []int, dealer int) int {
	if len(seats) == 2 {
		return dealer
	}
	_, bb := BlindSeats(seats, dealer)
	return NextSeat(seats, bb)
}

// FirstToActPostflop returns the first actor on later streets: the first seat
// after the dealer. Callers pass only seats that can still act, so heads-up
// this naturally lands on the non-dealer when both can act.
func FirstToActPostflop(seats []int, dealer int) int {
	return NextSeat(seats, dealer)
}

// NextDealer rotates the button to the next eligible seat after the previous
// dealer. Eligible means seated with chips and not eliminated; the caller
// filters.
func NextDealer(eligibleSeats []int, prevDealer int) int {
	return NextSeat(eligibleSeats, prevDealer)
}
