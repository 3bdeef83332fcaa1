package capture

import (
	"math/rand/v2"
	"sync"
)

// SampleTranscriber picks a random sentence from a fixed pool.
type SampleTranscriber struct {
	mu      sync.Mutex
	rng     *rand.Rand
	samples []string
}

// NewSampleTranscriber returns a transcriber drawing from samples. A zero
// seed picks a random one.
func NewSampleTranscriber(samples []string, seed uint64) *SampleTranscriber {
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &SampleTranscriber{
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		samples: samples,
	}
}

// Transcribe returns the next sample, or "" when the pool is empty.
func (s *SampleTranscriber) Transcribe() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.samples) == 0 {
		return ""
	}

	return s.samples[s.rng.IntN(len(s.samples))]
}

// Fixed always returns the same text.
type Fixed string

// Transcribe implements Transcriber.
func (f Fixed) Transcribe() string {
	return string(f)
}
