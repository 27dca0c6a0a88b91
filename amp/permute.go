package amp

// Permutations returns every ordering of items, each exactly once.
// items is not modified.
func Permutations[T any](items []T) [][]T {
	n := len(items)
	work := make([]T, n)
	copy(work, items)
	perms := make([][]T, 0, factorial(n))
	permute(work, n, &perms)
	return perms
}

// permute fixes each candidate in position n-1 in turn and recurses on the
// prefix, restoring the order on the way out.
func permute[T any](items []T, n int, perms *[][]T) {
	if n <= 1 {
		p := make([]T, len(items))
		copy(p, items)
		*perms = append(*perms, p)
		return
	}
	for i := 0; i < n; i++ {
		items[i], items[n-1] = items[n-1], items[i]
		permute(items, n-1, perms)
		items[i], items[n-1] = items[n-1], items[i]
	}
}

func factorial(n int) int {
	f := 1
	for ; n > 1; n-- {
		f *= n
	}
	return f
}

// PhaseRange returns the phase settings lo through hi inclusive.
func PhaseRange(lo, hi int64) []int64 {
	var ps []int64
	for p := lo; p <= hi; p++ {
		ps = append(ps, p)
	}
	return ps
}
