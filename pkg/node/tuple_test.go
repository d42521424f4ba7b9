package node

import "testing"

func TestPairPresence(t *testing.T) {
	var zero Pair[int, string]
	if _, ok := zero.First(); ok {
		t.Fatal("zero pair must have no first slot")
	}
	if _, ok := zero.Second(); ok {
		t.Fatal("zero pair must have no second slot")
	}

	p := FirstOnly[int, string](7)
	if v, ok := p.First(); !ok || v != 7 {
		t.Fatalf("expected first=7, got %v present=%v", v, ok)
	}
	if _, ok := p.Second(); ok {
		t.Fatal("first-only pair must have no second slot")
	}

	q := SecondOnly[int]("x")
	if _, ok := q.First(); ok {
		t.Fatal("second-only pair must have no first slot")
	}
	if v, ok := q.Second(); !ok || v != "x" {
		t.Fatalf("expected second=x, got %q present=%v", v, ok)
	}

	both := PairOf(1, "y")
	if v, ok := both.First(); !ok || v != 1 {
		t.Fatalf("expected first=1, got %v present=%v", v, ok)
	}
	if v, ok := both.Second(); !ok || v != "y" {
		t.Fatalf("expected second=y, got %q present=%v", v, ok)
	}
}

func TestTriplePresence(t *testing.T) {
	var zero Triple[int, string, bool]
	if _, ok := zero.First(); ok {
		t.Fatal("zero triple must have no first slot")
	}

	one := zero.WithSecond("mid")
	if _, ok := one.First(); ok {
		t.Fatal("expected only the second slot present")
	}
	if v, ok := one.Second(); !ok || v != "mid" {
		t.Fatalf("expected second=mid, got %q present=%v", v, ok)
	}
	if _, ok := one.Third(); ok {
		t.Fatal("expected only the second slot present")
	}

	all := TripleOf(1, "two", true)
	if v, ok := all.Third(); !ok || !v {
		t.Fatalf("expected third=true, got %v present=%v", v, ok)
	}
}
