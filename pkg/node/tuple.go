package node

// Pair is the result of one processing step of a two-output node. Each slot
// is either present with a value or absent; absent slots produce no channel
// write for that step. The zero value has both slots absent.
type Pair[A, B any] struct {
	first     A
	second    B
	hasFirst  bool
	hasSecond bool
}

// PairOf returns a pair with both slots present.
func PairOf[A, B any](first A, second B) Pair[A, B] {
	return Pair[A, B]{first: first, second: second, hasFirst: true, hasSecond: true}
}

// FirstOnly returns a pair with only the first slot present.
func FirstOnly[A, B any](first A) Pair[A, B] {
	return Pair[A, B]{first: first, hasFirst: true}
}

// SecondOnly returns a pair with only the second slot present.
func SecondOnly[A, B any](second B) Pair[A, B] {
	return Pair[A, B]{second: second, hasSecond: true}
}

// First returns the first slot value and whether it is present.
func (p Pair[A, B]) First() (A, bool) {
	return p.first, p.hasFirst
}

// Second returns the second slot value and whether it is present.
func (p Pair[A, B]) Second() (B, bool) {
	return p.second, p.hasSecond
}

// Triple is the result of one processing step of a three-output node, with
// per-slot presence like Pair. The zero value has all slots absent; populate
// with the With* builders.
type Triple[A, B, C any] struct {
	first     A
	second    B
	third     C
	hasFirst  bool
	hasSecond bool
	hasThird  bool
}

// TripleOf returns a triple with all three slots present.
func TripleOf[A, B, C any](first A, second B, third C) Triple[A, B, C] {
	return Triple[A, B, C]{
		first: first, second: second, third: third,
		hasFirst: true, hasSecond: true, hasThird: true,
	}
}

// WithFirst returns a copy with the first slot present.
func (t Triple[A, B, C]) WithFirst(v A) Triple[A, B, C] {
	t.first = v
	t.hasFirst = true
	return t
}

// WithSecond returns a copy with the second slot present.
func (t Triple[A, B, C]) WithSecond(v B) Triple[A, B, C] {
	t.second = v
	t.hasSecond = true
	return t
}

// WithThird returns a copy with the third slot present.
func (t Triple[A, B, C]) WithThird(v C) Triple[A, B, C] {
	t.third = v
	t.hasThird = true
	return t
}

// First returns the first slot value and whether it is present.
func (t Triple[A, B, C]) First() (A, bool) {
	return t.first, t.hasFirst
}

// Second returns the second slot value and whether it is present.
func (t Triple[A, B, C]) Second() (B, bool) {
	return t.second, t.hasSecond
}

// Third returns the third slot value and whether it is present.
func (t Triple[A, B, C]) Third() (C, bool) {
	return t.third, t.hasThird
}
