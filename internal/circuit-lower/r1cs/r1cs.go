// Package r1cs parses R1CS and witness binary files and lowers sparse R1CS
// matrices into the circuit intermediate representation defined by
// github.com/vybium/circuit-lower/internal/circuit-lower/core.
package r1cs

import "github.com/vybium/circuit-lower/internal/circuit-lower/core"

// Term is one (coefficient, variable) pair of a sparse linear combination.
type Term struct {
	Coeff  core.Element
	VarIdx int
}

// LinearCombination is a sparse row of an R1CS matrix: a sum of coefficient-
// weighted variables, variable 0 standing for the constant "one" wire.
type LinearCombination []Term

// Constraint is one row of the R1CS relation (A·x) ⊙ (B·x) = (C·x).
type Constraint struct {
	A, B, C LinearCombination
}

// R1CS is a finalized, sparse rank-1 constraint system: a list of
// constraints together with the variable layout (how many of the variables
// are public instance variables, including the implicit "one" at index 0).
type R1CS struct {
	Constraints []Constraint
	NumVars     int // total variable count, including variable 0
	NumInput    int // number of public variables, including variable 0
}

// Mode selects whether the processor uses the real witness assignment or an
// all-zero placeholder. Row count and wiring are identical in both modes;
// only the computed Out values differ.
type Mode int

const (
	// Prove lowers the circuit with the real witness assignment.
	Prove Mode = iota
	// Index lowers the circuit with an all-zero assignment, for structural
	// analysis that doesn't need concrete values.
	Index
)

// lcType is the three-way classification of a linear combination.
type lcType int

const (
	lcNullable lcType = iota
	lcConstant
	lcVariable
)

// classify determines whether lc is identically zero, a nonzero constant, or
// has at least one non-constant term, and returns the constant part when
// relevant (0 for nullable and variable LCs, whatever the folded constant is
// for a constant LC).
func classify(lc LinearCombination) (lcType, core.Element) {
	k := core.Zero()
	hasVar := false
	for _, t := range lc {
		if t.VarIdx == 0 {
			k = k.Add(t.Coeff)
			continue
		}
		if !t.Coeff.IsZero() {
			hasVar = true
		}
	}
	if hasVar {
		return lcVariable, core.Zero()
	}
	if k.IsZero() {
		return lcNullable, core.Zero()
	}
	return lcConstant, k
}
