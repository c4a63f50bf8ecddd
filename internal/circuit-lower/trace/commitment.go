package trace

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/vybium/circuit-lower/internal/circuit-lower/core"
)

// ProofNode is one sibling hash in a Merkle authentication path, tagged with
// which side of its parent it sits on.
type ProofNode struct {
	Hash    [32]byte
	IsRight bool
}

// Commitment is a binary Merkle tree over a circuit's exported columns, one
// leaf per row: row i's leaf hashes together that row's eight column
// values. It is the hand-off point to an external STARK prover, which
// commits to (and later opens) these same columns under its own scheme;
// this type exists to exercise that hand-off, not to replace it.
type Commitment struct {
	root   [32]byte
	leaves [][32]byte
	levels [][][32]byte
}

// rowBytes serializes the eight column values at row i into a fixed-size
// buffer suitable for hashing.
func rowBytes(cols core.Columns, i int) []byte {
	buf := make([]byte, 8*4)
	values := [8]core.Element{
		cols.Mult[i], cols.AWire[i], cols.BWire[i], cols.CWire[i],
		cols.Op[i], cols.AVal[i], cols.BVal[i], cols.CVal[i],
	}
	for j, v := range values {
		binary.LittleEndian.PutUint32(buf[j*4:], v.Uint32())
	}
	return buf
}

// Commit builds a Merkle commitment over cols. The number of rows MUST be a
// power of two (the caller is expected to have padded the circuit first).
func Commit(cols core.Columns) (*Commitment, error) {
	n := len(cols.Op)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("trace: column length %d is not a power of two", n)
	}

	leaves := make([][32]byte, n)
	for i := 0; i < n; i++ {
		leaves[i] = sha3.Sum256(rowBytes(cols, i))
	}

	levels := [][][32]byte{leaves}
	current := leaves
	for len(current) > 1 {
		next := make([][32]byte, len(current)/2)
		for i := range next {
			var buf [64]byte
			copy(buf[:32], current[2*i][:])
			copy(buf[32:], current[2*i+1][:])
			next[i] = sha3.Sum256(buf[:])
		}
		levels = append(levels, next)
		current = next
	}

	return &Commitment{root: current[0], leaves: leaves, levels: levels}, nil
}

// Root returns the commitment's root digest.
func (c *Commitment) Root() [32]byte { return c.root }

// Open returns the authentication path for row index.
func (c *Commitment) Open(index int) ([]ProofNode, error) {
	if index < 0 || index >= len(c.leaves) {
		return nil, fmt.Errorf("trace: row index %d out of range [0, %d)", index, len(c.leaves))
	}

	var path []ProofNode
	cur := index
	for level := 0; level < len(c.levels)-1; level++ {
		row := c.levels[level]
		if cur%2 == 0 {
			path = append(path, ProofNode{Hash: row[cur+1], IsRight: true})
		} else {
			path = append(path, ProofNode{Hash: row[cur-1], IsRight: false})
		}
		cur /= 2
	}
	return path, nil
}

// VerifyOpen checks that leaf, combined with path, reduces to root.
func VerifyOpen(root [32]byte, leaf [32]byte, path []ProofNode) bool {
	hash := leaf
	for _, node := range path {
		var buf [64]byte
		if node.IsRight {
			copy(buf[:32], hash[:])
			copy(buf[32:], node.Hash[:])
		} else {
			copy(buf[:32], node.Hash[:])
			copy(buf[32:], hash[:])
		}
		hash = sha3.Sum256(buf[:])
	}
	return hash == root
}

// RowLeaf recomputes the leaf hash for row i of cols, for use with
// VerifyOpen by a caller that only has the columns, not the Commitment.
func RowLeaf(cols core.Columns, i int) [32]byte {
	return sha3.Sum256(rowBytes(cols, i))
}

// DeriveChallenges absorbs a commitment root into a fresh transcript and
// draws the (alpha, z) pair the logup check needs, binding those challenges
// to the committed trace instead of drawing them independently.
func DeriveChallenges(root [32]byte) (alpha, z core.Element) {
	t := NewTranscript()
	t.Send(root[:])
	return t.DrawElement(), t.DrawElement()
}
