package circuitlower

import (
	"github.com/vybium/circuit-lower/internal/circuit-lower/core"
	"github.com/vybium/circuit-lower/internal/circuit-lower/r1cs"
)

// FieldElement is a residue modulo the M31 prime 2^31-1, the public type for
// every value this package passes across its API boundary.
type FieldElement = core.Element

// Term is one (coefficient, variable) pair of a sparse linear combination.
type Term = r1cs.Term

// LinearCombination is a sparse R1CS row: a sum of coefficient-weighted
// variables, variable 0 standing for the constant "one" wire.
type LinearCombination = r1cs.LinearCombination

// Constraint is one row of the relation (A·x) ⊙ (B·x) = (C·x).
type Constraint = r1cs.Constraint

// ConstraintSystem is a finalized, sparse R1CS together with its variable
// layout: NumInput public variables (including the implicit "one" at index
// 0) followed by private witness variables, for a total of NumVars.
type ConstraintSystem = r1cs.R1CS

// Mode selects whether lowering uses the real witness assignment (Prove) or
// an all-zero placeholder assignment for structural analysis (Index).
type Mode = r1cs.Mode

const (
	Prove = r1cs.Prove
	Index = r1cs.Index
)

// Columns is the eight-column trace export the prover consumes: mult,
// a_wire/b_wire/c_wire, op, a_val/b_val/c_val, each of length NumRows.
type Columns = core.Columns

// InputRecord pairs a row index with the public value it was declared to
// carry; Circuit.InputMaps accumulates one of these per public input.
type InputRecord = core.InputRecord

// ExternalSupply is a (id, value) pair a verifier attests to independently
// of the trace it is checking, consumed by the global copy-constraint check.
type ExternalSupply = core.ExternalSupply

// Config controls how Lower reads and interprets its inputs.
type Config struct {
	// Mode selects Prove or Index lowering.
	Mode Mode

	// Pad, when true, extends the resulting circuit to the next power of
	// two rows before returning it.
	Pad bool
}
