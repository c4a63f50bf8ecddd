// Package trace commits to a lowered circuit's exported columns and derives
// the logup challenges from that commitment via a Fiat-Shamir transcript.
// It stops short of a full STARK prover (no polynomial IOP, no FRI): the
// prover is an external collaborator that consumes the column layout
// produced here.
package trace

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/vybium/circuit-lower/internal/circuit-lower/core"
)

// Transcript is a Fiat-Shamir channel over sha3-256: every Send absorbs
// data into the running state, and every challenge draw derives fresh
// randomness from that state before advancing it.
type Transcript struct {
	state []byte
}

// NewTranscript creates a transcript seeded with a single zero byte,
// mirroring the convention of starting a Fiat-Shamir state from a fixed
// constant rather than nothing.
func NewTranscript() *Transcript {
	return &Transcript{state: []byte{0}}
}

// Send absorbs data into the transcript state.
func (t *Transcript) Send(data []byte) {
	buf := make([]byte, 0, len(t.state)+len(data))
	buf = append(buf, t.state...)
	buf = append(buf, data...)
	digest := sha3.Sum256(buf)
	t.state = digest[:]
}

// DrawElement derives a field element from the current state and advances
// the state, so repeated draws produce an independent-looking sequence.
func (t *Transcript) DrawElement() core.Element {
	digest := sha3.Sum256(append(t.state, 0x01))
	t.state = digest[:]
	v := binary.LittleEndian.Uint32(digest[:4]) & core.Modulus
	return core.NewElement(v % core.Modulus)
}

// Read implements io.Reader by emitting successive draws as raw 4-byte
// little-endian words, so a Transcript can stand in wherever
// core.RandomElement wants a randomness source: it lets the logup
// challenges be derived from the column commitment instead of an
// independent crypto/rand draw.
func (t *Transcript) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		digest := sha3.Sum256(append(t.state, byte(n)))
		t.state = digest[:]
		n += copy(p[n:], digest[:4])
	}
	return n, nil
}
