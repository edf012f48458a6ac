// Package assert turns out-of-range index defects into panics in development
// builds (tag freezedebug) and clamps them otherwise.
package assert

import "fmt"

// Index returns i when it lies in [0, n). Otherwise it panics when built with
// the freezedebug tag, or clamps i into range.
func Index(i, n int, what string) int {
	if uint(i) < uint(n) {
		return i
	}

	if Enabled {
		panic(fmt.Sprintf("%s index out of range: %d not in [0, %d)", what, i, n))
	}

	if i < 0 || n <= 0 {
		return 0
	}

	return n - 1
}
