package intcode

import (
	"fmt"
	"strings"
)

// Queue is the first-in first-out input queue of a Machine.
type Queue struct {
	vals []int64
	head int
}

// Push appends vs to the back of the queue.
func (q *Queue) Push(vs ...int64) {
	if q.head > 0 && q.head == len(q.vals) {
		q.vals, q.head = q.vals[:0], 0
	}
	q.vals = append(q.vals, vs...)
}

// Pop removes and returns the value at the front of the queue.
// It reports false if the queue is empty.
func (q *Queue) Pop() (int64, bool) {
	if q.head == len(q.vals) {
		return 0, false
	}
	v := q.vals[q.head]
	q.head++
	return v, true
}

// Len returns the number of queued values.
func (q *Queue) Len() int { return len(q.vals) - q.head }

// Values returns a copy of the queued values, front first.
func (q *Queue) Values() []int64 {
	vs := make([]int64, q.Len())
	copy(vs, q.vals[q.head:])
	return vs
}

func (q Queue) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, v := range q.vals[q.head:] {
		b.WriteByte(' ')
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteByte(' ')
	b.WriteByte(')')
	return b.String()
}
