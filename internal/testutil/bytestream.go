// Package testutil holds helpers shared by fuzz tests.
package testutil

import "time"

// ByteStream derives deterministic values from fuzz input. Once exhausted,
// every read returns a zero value, so the same input always yields the same
// sequence.
type ByteStream struct {
	bytes []byte
	pos   int
}

// NewByteStream creates a stream over the given bytes.
func NewByteStream(b []byte) *ByteStream {
	return &ByteStream{bytes: b}
}

// HasMore reports whether unread bytes remain.
func (s *ByteStream) HasMore() bool {
	return s.pos < len(s.bytes)
}

// NextByte returns the next byte, or 0 if exhausted.
func (s *ByteStream) NextByte() byte {
	if s.pos >= len(s.bytes) {
		return 0
	}

	v := s.bytes[s.pos]
	s.pos++

	return v
}

// NextInt returns a value in [0, maxVal).
func (s *ByteStream) NextInt(maxVal int) int {
	if maxVal <= 0 {
		return 0
	}

	return int(s.NextByte()) % maxVal
}

// NextBool returns a boolean derived from the next byte.
func (s *ByteStream) NextBool() bool {
	return s.NextByte()&1 == 1
}

// NextDuration returns one of a spread of durations from a second up to a
// couple of weeks, so both short timers and day-scale cooldowns get hit.
func (s *ByteStream) NextDuration() time.Duration {
	steps := []time.Duration{
		time.Second,
		5 * time.Second,
		30 * time.Second,
		time.Minute,
		15 * time.Minute,
		time.Hour,
		6 * time.Hour,
		24 * time.Hour,
		3 * 24 * time.Hour,
		7 * 24 * time.Hour,
		14 * 24 * time.Hour,
	}

	return steps[s.NextInt(len(steps))]
}

// NextPick returns one of choices.
func NextPick[T any](s *ByteStream, choices []T) T {
	var zero T
	if len(choices) == 0 {
		return zero
	}

	return choices[s.NextInt(len(choices))]
}
