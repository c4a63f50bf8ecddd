package r1cs

import (
	"fmt"
	"sort"

	"github.com/vybium/circuit-lower/internal/circuit-lower/core"
)

// Assignment is the full variable assignment: index 0 is always the
// constant-one wire, 1..NumInput-1 are instance values, the rest are
// witness values. In Index mode GenerateCircuit replaces it with an all-zero
// assignment of the same length.
type Assignment []core.Element

// GenerateCircuit lowers r into a circuit under the given assignment and
// mode, dispatching each constraint by the classification of its A and B
// linear combinations (see the process* helpers below). Row count and wiring do not
// depend on mode; only which concrete out values land in self-referential
// rows does.
func GenerateCircuit(r *R1CS, assignment Assignment, mode Mode) (*core.Circuit, error) {
	if len(assignment) != r.NumVars {
		return nil, fmt.Errorf("r1cs: assignment length %d does not match variable count %d", len(assignment), r.NumVars)
	}
	if mode == Index {
		assignment = make(Assignment, len(assignment))
	}

	c := core.NewCircuit()
	alloc := core.NewOnDemandAllocator(assignment, r.NumInput)

	// Pre-allocate instance variables in order, as new_input rows; the zero
	// wire (variable 0) is handled directly by the allocator's Get.
	for v := 1; v < r.NumInput; v++ {
		alloc.Get(c, v)
	}

	for _, cons := range r.Constraints {
		a := sortedCopy(cons.A)
		b := sortedCopy(cons.B)
		cc := sortedCopy(cons.C)

		aType, aK := classify(a)
		bType, bK := classify(b)

		switch {
		case aType == lcNullable || bType == lcNullable:
			processAddition(c, alloc, cc)
		case aType == lcConstant:
			if err := processEqual(c, alloc, b, aK, cc); err != nil {
				return nil, err
			}
		case bType == lcConstant:
			if err := processEqual(c, alloc, a, bK, cc); err != nil {
				return nil, err
			}
		default:
			processMultiplication(c, alloc, a, b, cc)
		}
	}

	return c, nil
}

// sortedCopy returns lc sorted by ascending variable index, leaving the
// input untouched, so constraint emission order is deterministic regardless
// of how the upstream reader ordered terms.
func sortedCopy(lc LinearCombination) LinearCombination {
	out := make(LinearCombination, len(lc))
	copy(out, lc)
	sort.SliceStable(out, func(i, j int) bool { return out[i].VarIdx < out[j].VarIdx })
	return out
}

// singleUnallocatedTerm reports whether lc consists of exactly one non-zero
// term on a variable that has not yet been allocated a row (and that
// variable isn't the reserved zero wire), returning that term when so.
func singleUnallocatedTerm(lc LinearCombination, alloc *core.OnDemandAllocator) (Term, bool) {
	var found Term
	count := 0
	for _, t := range lc {
		if t.Coeff.IsZero() {
			continue
		}
		count++
		found = t
	}
	if count != 1 {
		return Term{}, false
	}
	if found.VarIdx == 0 || alloc.IsAllocated(found.VarIdx) {
		return Term{}, false
	}
	return found, true
}

// reduceCoefs folds a linear combination down to a single circuit row: the
// constant part becomes a new_constant row added in at the end, and the
// variable terms are allocated, scaled, and chained together with add.
func reduceCoefs(c *core.Circuit, alloc *core.OnDemandAllocator, lc LinearCombination) int {
	k := core.Zero()
	var terms []Term
	for _, t := range lc {
		if t.VarIdx == 0 {
			k = k.Add(t.Coeff)
			continue
		}
		if !t.Coeff.IsZero() {
			terms = append(terms, t)
		}
	}

	if len(terms) == 0 {
		if k.IsZero() {
			return 0
		}
		return c.NewConstant(k)
	}

	sum := alloc.Get(c, terms[0].VarIdx)
	if !terms[0].Coeff.IsOne() {
		sum = c.MulByConstant(sum, terms[0].Coeff)
	}

	for _, t := range terms[1:] {
		v := alloc.Get(c, t.VarIdx)
		if !t.Coeff.IsOne() {
			v = c.MulByConstant(v, t.Coeff)
		}
		sum = c.Add(sum, v)
	}

	if !k.IsZero() {
		sum = c.Add(sum, c.NewConstant(k))
	}

	return sum
}

// processAddition handles constraints that reduce to 0 = c (the A or B side
// vanished identically).
func processAddition(c *core.Circuit, alloc *core.OnDemandAllocator, cc LinearCombination) {
	rc := reduceCoefs(c, alloc, cc)
	c.ZeroTest(rc)
}

// processEqual handles constant * lc = c, applying the inlining swap rule
// before reducing: if c is a single unallocated variable term, the side
// that defines it is already on the right; if lc is a single unallocated
// term instead, the roles are swapped by rewriting lc = constant^-1 * c.
func processEqual(c *core.Circuit, alloc *core.OnDemandAllocator, lc LinearCombination, constant core.Element, cc LinearCombination) error {
	if _, ok := singleUnallocatedTerm(cc, alloc); !ok {
		if t, ok := singleUnallocatedTerm(lc, alloc); ok {
			inv, err := constant.Inverse()
			if err != nil {
				return fmt.Errorf("r1cs: process_equal: %w", err)
			}
			lc = cc
			cc = LinearCombination{t}
			constant = inv
		}
	}

	v := reduceCoefs(c, alloc, lc)
	if !constant.IsOne() {
		v = c.MulByConstant(v, constant)
	}

	if t, ok := singleUnallocatedTerm(cc, alloc); ok {
		if !t.Coeff.IsOne() {
			inv, err := t.Coeff.Inverse()
			if err != nil {
				return fmt.Errorf("r1cs: process_equal: %w", err)
			}
			v = c.MulByConstant(v, inv)
		}
		alloc.SetAllocated(t.VarIdx, v)
		return nil
	}

	cRow := reduceCoefs(c, alloc, cc)
	diff := c.Add(v, c.Neg(cRow))
	c.ZeroTest(diff)
	return nil
}

// processMultiplication handles a * b = c where both a and b have at least
// one non-constant term.
func processMultiplication(c *core.Circuit, alloc *core.OnDemandAllocator, a, b, cc LinearCombination) {
	ra := reduceCoefs(c, alloc, a)
	rb := reduceCoefs(c, alloc, b)

	if t, ok := singleUnallocatedTerm(cc, alloc); ok {
		v := c.Mul(ra, rb)
		if !t.Coeff.IsOne() {
			if inv, err := t.Coeff.Inverse(); err == nil {
				v = c.MulByConstant(v, inv)
			}
		}
		alloc.SetAllocated(t.VarIdx, v)
		return
	}

	rc := reduceCoefs(c, alloc, cc)
	mulAB := c.Mul(ra, rb)
	diff := c.Add(mulAB, c.Neg(rc))
	c.ZeroTest(diff)
}
