package r1cs

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/vybium/circuit-lower/internal/circuit-lower/core"
)

var r1csMagic = [4]byte{'r', '1', 'c', 's'}

const (
	sectionHeader      = uint32(1)
	sectionConstraints = uint32(2)
)

// header is the parsed contents of the r1cs header section.
type header struct {
	fieldSize    uint32
	nWires       uint32
	nPubOut      uint32
	nPubIn       uint32
	nPrvIn       uint32
	nLabels      uint64
	nConstraints uint32
}

// ReadR1CS parses the iden3/snarkjs-compatible .r1cs binary format from r:
// a 4-byte magic and version header, a sequence of sections each tagged
// with a type and byte length, a header section carrying the field prime
// and variable counts, and a constraints section of sparse A/B/C rows.
//
// Any file declaring a prime other than 2^31-1, an unexpected section
// layout, or a short read returns an error; ReadR1CS does not attempt
// partial recovery.
func ReadR1CS(r io.Reader) (*R1CS, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("r1cs: reading magic: %w", err)
	}
	if magic != r1csMagic {
		return nil, fmt.Errorf("r1cs: invalid magic %q, expected %q", magic, r1csMagic)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("r1cs: reading version: %w", err)
	}
	if version != 1 {
		return nil, fmt.Errorf("r1cs: unsupported version %d, expected 1", version)
	}

	var nSections uint32
	if err := binary.Read(r, binary.LittleEndian, &nSections); err != nil {
		return nil, fmt.Errorf("r1cs: reading section count: %w", err)
	}

	var hdr *header
	var constraints []Constraint

	for s := uint32(0); s < nSections; s++ {
		var sectionType uint32
		var sectionSize uint64
		if err := binary.Read(r, binary.LittleEndian, &sectionType); err != nil {
			return nil, fmt.Errorf("r1cs: reading section %d type: %w", s, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &sectionSize); err != nil {
			return nil, fmt.Errorf("r1cs: reading section %d size: %w", s, err)
		}

		body := io.LimitReader(r, int64(sectionSize))

		switch sectionType {
		case sectionHeader:
			h, err := readHeader(body)
			if err != nil {
				return nil, fmt.Errorf("r1cs: header section: %w", err)
			}
			hdr = h
		case sectionConstraints:
			if hdr == nil {
				return nil, fmt.Errorf("r1cs: constraints section precedes header section")
			}
			cs, err := readConstraints(body, hdr)
			if err != nil {
				return nil, fmt.Errorf("r1cs: constraints section: %w", err)
			}
			constraints = cs
		default:
			if _, err := io.Copy(io.Discard, body); err != nil {
				return nil, fmt.Errorf("r1cs: skipping section %d (type %d): %w", s, sectionType, err)
			}
		}
	}

	if hdr == nil {
		return nil, fmt.Errorf("r1cs: missing header section")
	}
	if constraints == nil && hdr.nConstraints > 0 {
		return nil, fmt.Errorf("r1cs: missing constraints section")
	}
	if uint32(len(constraints)) != hdr.nConstraints {
		return nil, fmt.Errorf("r1cs: header declares %d constraints, got %d", hdr.nConstraints, len(constraints))
	}

	return &R1CS{
		Constraints: constraints,
		NumVars:     int(hdr.nWires),
		NumInput:    1 + int(hdr.nPubOut) + int(hdr.nPubIn),
	}, nil
}

func readHeader(r io.Reader) (*header, error) {
	var h header

	if err := binary.Read(r, binary.LittleEndian, &h.fieldSize); err != nil {
		return nil, fmt.Errorf("reading field size: %w", err)
	}

	primeBytes := make([]byte, h.fieldSize)
	if _, err := io.ReadFull(r, primeBytes); err != nil {
		return nil, fmt.Errorf("reading prime: %w", err)
	}
	prime := leBytesToBigInt(primeBytes)
	if prime.Cmp(big.NewInt(int64(core.Modulus))) != 0 {
		return nil, fmt.Errorf("unsupported field modulus %s, expected %d", prime, core.Modulus)
	}

	if err := binary.Read(r, binary.LittleEndian, &h.nWires); err != nil {
		return nil, fmt.Errorf("reading wire count: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &h.nPubOut); err != nil {
		return nil, fmt.Errorf("reading public output count: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &h.nPubIn); err != nil {
		return nil, fmt.Errorf("reading public input count: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &h.nPrvIn); err != nil {
		return nil, fmt.Errorf("reading private input count: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &h.nLabels); err != nil {
		return nil, fmt.Errorf("reading label count: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &h.nConstraints); err != nil {
		return nil, fmt.Errorf("reading constraint count: %w", err)
	}

	return &h, nil
}

func readConstraints(r io.Reader, h *header) ([]Constraint, error) {
	cs := make([]Constraint, h.nConstraints)
	for i := range cs {
		a, err := readLinearCombination(r, h.fieldSize)
		if err != nil {
			return nil, fmt.Errorf("constraint %d, A: %w", i, err)
		}
		b, err := readLinearCombination(r, h.fieldSize)
		if err != nil {
			return nil, fmt.Errorf("constraint %d, B: %w", i, err)
		}
		c, err := readLinearCombination(r, h.fieldSize)
		if err != nil {
			return nil, fmt.Errorf("constraint %d, C: %w", i, err)
		}
		cs[i] = Constraint{A: a, B: b, C: c}
	}
	return cs, nil
}

func readLinearCombination(r io.Reader, fieldSize uint32) (LinearCombination, error) {
	var nTerms uint32
	if err := binary.Read(r, binary.LittleEndian, &nTerms); err != nil {
		return nil, fmt.Errorf("reading term count: %w", err)
	}

	lc := make(LinearCombination, nTerms)
	coeffBuf := make([]byte, fieldSize)
	for i := range lc {
		var wireID uint32
		if err := binary.Read(r, binary.LittleEndian, &wireID); err != nil {
			return nil, fmt.Errorf("reading term %d wire id: %w", i, err)
		}
		if _, err := io.ReadFull(r, coeffBuf); err != nil {
			return nil, fmt.Errorf("reading term %d coefficient: %w", i, err)
		}
		coeff := leBytesToBigInt(coeffBuf)
		coeff.Mod(coeff, big.NewInt(int64(core.Modulus)))
		lc[i] = Term{Coeff: core.NewElement(uint32(coeff.Uint64())), VarIdx: int(wireID)}
	}
	return lc, nil
}

func leBytesToBigInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}
