package r1cs

import (
	"crypto/rand"
	"testing"

	"github.com/vybium/circuit-lower/internal/circuit-lower/core"
)

func multiplierR1CS() *R1CS {
	// variable 0: one, 1: a (instance), 2: c (instance), 3: b (witness)
	// constraint: a * b = c
	return &R1CS{
		NumVars:  4,
		NumInput: 3,
		Constraints: []Constraint{
			{
				A: LinearCombination{{Coeff: core.One(), VarIdx: 1}},
				B: LinearCombination{{Coeff: core.One(), VarIdx: 3}},
				C: LinearCombination{{Coeff: core.One(), VarIdx: 2}},
			},
		},
	}
}

func TestGenerateCircuitMultiplierProve(t *testing.T) {
	cs := multiplierR1CS()
	assignment := Assignment{
		core.One(),
		core.NewElement(3),
		core.NewElement(33),
		core.NewElement(11),
	}

	c, err := GenerateCircuit(cs, assignment, Prove)
	if err != nil {
		t.Fatalf("GenerateCircuit failed: %v", err)
	}

	if !c.IsSatisfied() {
		t.Error("expected lowered circuit to satisfy the local invariant")
	}

	external := make([]core.ExternalSupply, len(c.InputMaps))
	for i, rec := range c.InputMaps {
		external[i] = core.ExternalSupply{ID: rec.Index, Value: rec.Value}
	}
	ok, err := c.IsLogupSatisfied(rand.Reader, external)
	if err != nil {
		t.Fatalf("IsLogupSatisfied failed: %v", err)
	}
	if !ok {
		t.Error("expected logup check to pass")
	}
}

func TestGenerateCircuitModeIndependence(t *testing.T) {
	cs := multiplierR1CS()
	proveAssignment := Assignment{core.One(), core.NewElement(3), core.NewElement(33), core.NewElement(11)}
	indexAssignment := make(Assignment, cs.NumVars)

	proveCircuit, err := GenerateCircuit(cs, proveAssignment, Prove)
	if err != nil {
		t.Fatalf("GenerateCircuit(Prove) failed: %v", err)
	}
	indexCircuit, err := GenerateCircuit(cs, indexAssignment, Index)
	if err != nil {
		t.Fatalf("GenerateCircuit(Index) failed: %v", err)
	}

	if proveCircuit.NumRows() != indexCircuit.NumRows() {
		t.Errorf("NumRows differ: prove=%d index=%d", proveCircuit.NumRows(), indexCircuit.NumRows())
	}
	for i := 0; i < proveCircuit.NumRows(); i++ {
		if proveCircuit.Op[i] != indexCircuit.Op[i] {
			t.Errorf("row %d: Op differs between modes", i)
		}
		if proveCircuit.IdxA[i] != indexCircuit.IdxA[i] || proveCircuit.IdxB[i] != indexCircuit.IdxB[i] {
			t.Errorf("row %d: wiring differs between modes", i)
		}
	}
}

func TestGenerateCircuitDeterminism(t *testing.T) {
	cs := multiplierR1CS()
	assignment := Assignment{core.One(), core.NewElement(3), core.NewElement(33), core.NewElement(11)}

	first, err := GenerateCircuit(cs, assignment, Prove)
	if err != nil {
		t.Fatalf("GenerateCircuit failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := GenerateCircuit(cs, assignment, Prove)
		if err != nil {
			t.Fatalf("GenerateCircuit failed on run %d: %v", i, err)
		}
		if again.NumRows() != first.NumRows() {
			t.Fatalf("run %d: NumRows = %d, want %d", i, again.NumRows(), first.NumRows())
		}
		for j := 0; j < first.NumRows(); j++ {
			if again.Op[j] != first.Op[j] || again.IdxA[j] != first.IdxA[j] ||
				again.IdxB[j] != first.IdxB[j] || again.Out[j] != first.Out[j] ||
				again.Mult[j] != first.Mult[j] {
				t.Fatalf("run %d: row %d differs from the first run", i, j)
			}
		}
	}
}

func TestGenerateCircuitWrongAssignmentLength(t *testing.T) {
	cs := multiplierR1CS()
	if _, err := GenerateCircuit(cs, Assignment{core.One()}, Prove); err == nil {
		t.Error("expected error for mismatched assignment length")
	}
}

func TestGenerateCircuitAdditionConstraint(t *testing.T) {
	// variable 0: one, 1: a (instance), 2: b (instance), 3: sum (witness)
	// constraint: (a + b) * 1 = sum
	cs := &R1CS{
		NumVars:  4,
		NumInput: 3,
		Constraints: []Constraint{
			{
				A: LinearCombination{{Coeff: core.One(), VarIdx: 1}, {Coeff: core.One(), VarIdx: 2}},
				B: LinearCombination{{Coeff: core.One(), VarIdx: 0}},
				C: LinearCombination{{Coeff: core.One(), VarIdx: 3}},
			},
		},
	}
	assignment := Assignment{core.One(), core.NewElement(4), core.NewElement(5), core.NewElement(9)}

	c, err := GenerateCircuit(cs, assignment, Prove)
	if err != nil {
		t.Fatalf("GenerateCircuit failed: %v", err)
	}
	if !c.IsSatisfied() {
		t.Error("expected addition-shaped constraint to satisfy the local invariant")
	}
}
