package core

import "testing"

func TestOnDemandAllocatorGet(t *testing.T) {
	c := NewCircuit()
	assignments := []Element{One(), NewElement(10), NewElement(20), NewElement(30)}
	alloc := NewOnDemandAllocator(assignments, 2)

	if alloc.IsAllocated(1) {
		t.Fatal("variable 1 should not be allocated yet")
	}

	row := alloc.Get(c, 1)
	if !alloc.IsAllocated(1) {
		t.Error("variable 1 should be allocated after Get")
	}
	if c.Out[row] != NewElement(10) {
		t.Errorf("row value = %v, want 10", c.Out[row])
	}

	// Second Get returns the same row without allocating a new one.
	if again := alloc.Get(c, 1); again != row {
		t.Errorf("second Get returned row %d, want %d", again, row)
	}
}

func TestOnDemandAllocatorZeroWire(t *testing.T) {
	c := NewCircuit()
	alloc := NewOnDemandAllocator([]Element{One()}, 1)

	if row := alloc.Get(c, 0); row != 1 {
		t.Errorf("variable 0 should map to row 1 (the constant-one row), got %d", row)
	}
}

func TestOnDemandAllocatorWitnessVsInput(t *testing.T) {
	c := NewCircuit()
	assignments := []Element{One(), NewElement(5), NewElement(9)}
	alloc := NewOnDemandAllocator(assignments, 2)

	inputRow := alloc.Get(c, 1)
	if len(c.InputMaps) != 1 || c.InputMaps[0].Index != inputRow {
		t.Errorf("expected variable 1 to be recorded as a public input at row %d", inputRow)
	}

	witnessRow := alloc.Get(c, 2)
	for _, rec := range c.InputMaps {
		if rec.Index == witnessRow {
			t.Error("witness variable should not be recorded in InputMaps")
		}
	}
	if c.Mult[witnessRow] != 1 {
		t.Errorf("witness row mult = %d, want 1", c.Mult[witnessRow])
	}
}

func TestOnDemandAllocatorSetAllocated(t *testing.T) {
	c := NewCircuit()
	alloc := NewOnDemandAllocator([]Element{One(), NewElement(4)}, 1)

	computed := c.NewWitness(NewElement(16))
	alloc.SetAllocated(1, computed)

	if !alloc.IsAllocated(1) {
		t.Fatal("variable 1 should be allocated after SetAllocated")
	}
	if row := alloc.Get(c, 1); row != computed {
		t.Errorf("Get after SetAllocated = %d, want %d", row, computed)
	}
}
