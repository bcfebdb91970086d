package games

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"casino/domain/entities"
)

// SeedSize is the length in bytes of a round seed.
const SeedSize = 32

// NewSeed draws a fresh round seed from the operating system's CSPRNG.
// This is the only fallible randomness operation: if the source is
// unavailable the round must be voided, never downgraded to a weaker
// generator.
func NewSeed() ([]byte, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("failed to read seed: %w", entities.ErrRngUnavailable)
	}
	return seed, nil
}

// Stream expands a seed into an unlimited sequence of unbiased draws using
// an SHA-256 counter construction. The seed comes from the CSPRNG, so no
// draw is derivable from client-observable state; the expansion itself is
// deterministic, so a persisted round replays to the identical outcome.
type Stream struct {
	seed    []byte
	counter uint64
	buf     []byte
}

// NewStream creates a stream over the given seed.
func NewStream(seed []byte) *Stream {
	return &Stream{seed: seed}
}

// next64 returns the next 8 bytes of the stream as a uint64.
func (s *Stream) next64() uint64 {
	if len(s.buf) < 8 {
		h := sha256.New()
		h.Write(s.seed)
		var ctr [8]byte
		binary.BigEndian.PutUint64(ctr[:], s.counter)
		h.Write(ctr[:])
		s.counter++
		s.buf = append(s.buf, h.Sum(nil)...)
	}
	v := binary.BigEndian.Uint64(s.buf[:8])
	s.buf = s.buf[8:]
	return v
}

// Draw returns a uniform integer in [0, n). Rejection sampling keeps the
// result unbiased for any n.
func (s *Stream) Draw(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("draw bound must be positive, got %d", n))
	}
	un := uint64(n)
	limit := (^uint64(0) / un) * un
	for {
		v := s.next64()
		if v < limit {
			return int(v % un)
		}
	}
}

// Shuffle permutes n elements in place with Fisher-Yates.
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := s.Draw(i + 1)
		swap(i, j)
	}
}
