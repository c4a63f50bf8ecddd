package core

import "io"

// ExternalSupply is a (id, value) pair the verifier attests to outside the
// trace: in testing, this is exactly the circuit's InputMaps, but a real
// verifier may supply it independently of whatever trace it is checking.
type ExternalSupply struct {
	ID    int
	Value Element
}

// IsLogupSatisfied runs the global copy-constraint check: it samples a pair
// of challenges (alpha, z) from r and verifies that every row's two inputs
// are drawn from the same multiset of (index, value) pairs that rows
// advertise as their own identity, weighted by consumption multiplicity.
//
// It returns false, rather than erroring, when the check fails or when a
// sampled challenge collides with a row/id value (the caller is expected to
// retry with fresh randomness on collision, exactly as it would on a failed
// check).
func (c *Circuit) IsLogupSatisfied(r io.Reader, external []ExternalSupply) (bool, error) {
	alpha, err := RandomElement(r)
	if err != nil {
		return false, err
	}
	z, err := RandomElement(r)
	if err != nil {
		return false, err
	}

	n := c.NumRows()
	denoms := make([]Element, 0, 3*n+len(external))

	term := func(id int, val Element) Element {
		return NewElement(uint32(id)).Add(alpha.Mul(val)).Sub(z)
	}

	for i := 0; i < n; i++ {
		denoms = append(denoms,
			term(c.IdxA[i], c.Out[c.IdxA[i]]),
			term(c.IdxB[i], c.Out[c.IdxB[i]]),
			term(i, c.Out[i]),
		)
	}
	for _, e := range external {
		denoms = append(denoms, term(e.ID, e.Value))
	}

	for _, d := range denoms {
		if d.IsZero() {
			return false, nil
		}
	}

	inv, err := BatchInverse(denoms)
	if err != nil {
		return false, err
	}

	sum := Zero()
	for i := 0; i < n; i++ {
		invA := inv[3*i]
		invB := inv[3*i+1]
		invSelf := inv[3*i+2]
		sum = sum.Add(invA).Add(invB).Sub(NewElement(uint32(c.Mult[i])).Mul(invSelf))
	}
	for j := range external {
		sum = sum.Sub(inv[3*n+j])
	}

	return sum.IsZero(), nil
}
