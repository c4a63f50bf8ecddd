// Package core implements M31 field arithmetic and the PLONK-style circuit
// intermediate representation that the constraint lowering pipeline builds.
package core

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Modulus is the Mersenne prime 2^31 - 1, the base field of the circuit IR.
const Modulus uint32 = (1 << 31) - 1

// Element is a residue modulo Modulus. The zero value is the field's zero.
//
// Values are kept canonically reduced (0 <= v < Modulus) between operations,
// so equality can be tested with ==.
type Element uint32

// Zero is the additive identity.
func Zero() Element { return 0 }

// One is the multiplicative identity.
func One() Element { return 1 }

// NewElement reduces v modulo the field size and returns the element.
func NewElement(v uint32) Element {
	return reduce(uint64(v))
}

// NewElementFromInt64 reduces a signed value modulo the field size.
func NewElementFromInt64(v int64) Element {
	m := int64(Modulus)
	v %= m
	if v < 0 {
		v += m
	}
	return Element(v)
}

// reduce performs the standard Mersenne fold: for p = 2^31-1,
// x mod p = (x & p) + (x >> 31). One fold followed by at most one
// subtraction of p fully reduces every sum or product of two reduced
// elements (any x below 2^62 - 1).
func reduce(x uint64) Element {
	x = (x & uint64(Modulus)) + (x >> 31)
	if x >= uint64(Modulus) {
		x -= uint64(Modulus)
	}
	return Element(x)
}

// Add returns a + b mod p.
func (a Element) Add(b Element) Element {
	return reduce(uint64(a) + uint64(b))
}

// Sub returns a - b mod p.
func (a Element) Sub(b Element) Element {
	return reduce(uint64(a) + uint64(Modulus) - uint64(b))
}

// Neg returns -a mod p.
func (a Element) Neg() Element {
	if a == 0 {
		return 0
	}
	return Element(Modulus) - a
}

// Mul returns a * b mod p.
func (a Element) Mul(b Element) Element {
	return reduce(uint64(a) * uint64(b))
}

// IsZero reports whether a is the additive identity.
func (a Element) IsZero() bool { return a == 0 }

// IsOne reports whether a is the multiplicative identity.
func (a Element) IsOne() bool { return a == 1 }

// Equal reports whether a and b are the same residue.
func (a Element) Equal(b Element) bool { return a == b }

// Inverse computes the multiplicative inverse via Fermat's little theorem
// (a^(p-2) mod p). Callers MUST ensure a is non-zero; inverting zero fails.
func (a Element) Inverse() (Element, error) {
	if a.IsZero() {
		return 0, fmt.Errorf("core: cannot invert zero element")
	}
	return a.pow(uint64(Modulus) - 2), nil
}

// pow computes a^e mod p by square-and-multiply.
func (a Element) pow(e uint64) Element {
	result := One()
	base := a
	for e > 0 {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		e >>= 1
	}
	return result
}

// Uint32 returns the canonical uint32 representation.
func (a Element) Uint32() uint32 { return uint32(a) }

// String renders the element in decimal, matching fmt's default for integers.
func (a Element) String() string { return fmt.Sprintf("%d", uint32(a)) }

// Big returns the element as a big.Int, useful for interop with readers that
// parse arbitrary-width wire formats.
func (a Element) Big() *big.Int { return new(big.Int).SetUint64(uint64(a)) }

// RandomElement draws a uniformly random field element from r.
//
// r is a cryptographic source (e.g. crypto/rand.Reader); the logup check and
// any other probabilistic verifier in this package accepts the reader so
// callers control the randomness source and can supply a seeded reader in
// tests.
func RandomElement(r io.Reader) (Element, error) {
	// Rejection sampling over 31-bit values to avoid modulo bias.
	for {
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, fmt.Errorf("core: failed to read randomness: %w", err)
		}
		v := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
		v &= (1 << 31) - 1
		if v < Modulus {
			return Element(v), nil
		}
	}
}

// MustRandomElement samples from crypto/rand.Reader and panics on I/O error,
// which in practice only happens if the OS entropy source is broken.
func MustRandomElement() Element {
	e, err := RandomElement(rand.Reader)
	if err != nil {
		panic(err)
	}
	return e
}
