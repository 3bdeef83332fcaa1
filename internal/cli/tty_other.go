//go:build !linux && !darwin

package cli

import "io"

// isTerminal always reports false; the session then reads commands line by
// line.
func isTerminal(io.Reader) bool {
	return false
}
