// Package predicate holds the classification functions applied by workers.
package predicate

// Func classifies a single value.  Implementations must be deterministic,
// total and free of side effects; they are called concurrently.
type Func func(n int) bool

// IsPrime reports whether n is prime using 6k±1 trial division.
func IsPrime(n int) bool {
	if n <= 1 {
		return false
	}
	if n <= 3 {
		return true
	}
	if n%2 == 0 || n%3 == 0 {
		return false
	}
	// i <= n/i instead of i*i <= n keeps the bound overflow free
	for i := 5; i <= n/i; i += 6 {
		if n%i == 0 || n%(i+2) == 0 {
			return false
		}
	}
	return true
}

// Count returns how many values satisfy fn; a sequential reference used
// to verify concurrent results.
func Count(fn Func, values ...int) int {
	count := 0
	for _, v := range values {
		if fn(v) {
			count++
		}
	}
	return count
}
