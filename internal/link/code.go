package link

import (
	"crypto/rand"
	"fmt"
	"sync"
)

// CodeLength is the fixed length of every linking code.
const CodeLength = 8

// codeAlphabet is the 32-symbol alphabet linking codes are drawn from.
// Uppercase with the lookalikes 0/O and 1/I removed, since members retype
// these codes into a chat box. 32 symbols divide a byte evenly, so a
// masked random byte is already uniform over the alphabet.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeGenerator generates linking codes.
// Implemented by RandomGenerator (production) and FixedGenerator (tests).
type CodeGenerator interface {
	Generate() (string, error)
}

// RandomGenerator draws codes from crypto/rand.
//
// Thread-safety: RandomGenerator is stateless and safe for concurrent use.
type RandomGenerator struct{}

// Generate returns a new hard-to-guess code of CodeLength symbols.
// With 32^8 possible codes and a 5-minute lifetime, online guessing is
// not a practical attack.
func (RandomGenerator) Generate() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate link code: %w", err)
	}
	out := make([]byte, CodeLength)
	for i, b := range buf {
		out[i] = codeAlphabet[b&31]
	}
	return string(out), nil
}

// FixedGenerator returns predetermined codes for testing.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal
// mutex.
type FixedGenerator struct {
	mu    sync.Mutex
	codes []string
	idx   int
}

// NewFixedGenerator creates a generator that returns codes in order.
// Panics when all codes have been consumed; exhausting the list in a test
// is a bug in the test.
func NewFixedGenerator(codes ...string) *FixedGenerator {
	return &FixedGenerator{codes: codes}
}

// Generate returns the next predetermined code.
func (g *FixedGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.codes) {
		panic("FixedGenerator: all codes exhausted")
	}
	code := g.codes[g.idx]
	g.idx++
	return code, nil
}
