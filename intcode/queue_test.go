package intcode

import "testing"

func TestQueue(t *testing.T) {
	var q Queue
	if _, ok := q.Pop(); ok {
		t.Fatal("Pop on empty queue reported ok")
	}
	q.Push(1, 2)
	q.Push(3)
	if g, w := q.String(), "( 1 2 3 )"; g != w {
		t.Errorf("String() = %q, want %q", g, w)
	}
	for _, w := range []int64{1, 2} {
		if g, ok := q.Pop(); !ok || g != w {
			t.Errorf("Pop() = %d, %v; want %d, true", g, ok, w)
		}
	}
	q.Push(4)
	if g, w := q.Values(), []int64{3, 4}; !intsEq(g, w) {
		t.Errorf("Values() = %v, want %v", g, w)
	}
	for _, w := range []int64{3, 4} {
		if g, ok := q.Pop(); !ok || g != w {
			t.Errorf("Pop() = %d, %v; want %d, true", g, ok, w)
		}
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
	q.Push(5)
	if g, ok := q.Pop(); !ok || g != 5 {
		t.Errorf("Pop() after drain = %d, %v; want 5, true", g, ok)
	}
}
