//go:build freezedebug

package assert

// Enabled reports whether index defects panic.
const Enabled = true
