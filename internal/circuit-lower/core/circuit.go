package core

import "fmt"

// Op selectors. A row is an adder when Op == One, a multiplier when Op ==
// Zero; any other value realizes multiplication by that constant against a
// zero right input (see Circuit.MulByConstant).
const (
	OpMultiplier = Element(0)
	OpAdder      = Element(1)
)

// InputRecord pairs a row index with the value it was declared to carry.
// Circuit.InputMaps accumulates one of these per NewInput call and is the
// "external supply list" the logup check consumes (§4.5 of the design).
type InputRecord struct {
	Index int
	Value Element
}

// Circuit is an append-only table of PLONK-style rows. Row i carries an
// operation selector, two input row indices, a computed output, and a
// consumption multiplicity. Rows are never deleted or reordered; row 0 is
// the constant 0 and row 1 is the constant 1 (the two-row bootstrap).
type Circuit struct {
	Op    []Element
	IdxA  []int
	IdxB  []int
	Out   []Element
	Mult  []int

	// constants memoizes previously materialized constant rows so each
	// distinct constant occupies at most one row (excluding 0 and 1, which
	// are implicit via the bootstrap rows).
	constants map[Element]int

	// InputMaps records (row index, value) for every NewInput call, in
	// creation order. It is the prover's declaration of public input values
	// consumed by the global copy-constraint check.
	InputMaps []InputRecord

	padded bool
}

// NewCircuit creates a circuit with the two bootstrap rows already in place:
// row 0 holds constant 0, row 1 holds constant 1. Both rows point both of
// their input slots at themselves, so each starts with multiplicity 2 to
// balance those two self-consumptions in the logup check; row 0's then grows
// as later rows reference it as a spare input.
func NewCircuit() *Circuit {
	c := &Circuit{
		constants: make(map[Element]int),
	}

	// row 0: constant zero, tautologically self-referential.
	c.Op = append(c.Op, OpAdder)
	c.IdxA = append(c.IdxA, 0)
	c.IdxB = append(c.IdxB, 0)
	c.Out = append(c.Out, Zero())
	c.Mult = append(c.Mult, 2)

	// row 1: constant one, self-referential under multiplication (1*1=1).
	c.Op = append(c.Op, OpMultiplier)
	c.IdxA = append(c.IdxA, 1)
	c.IdxB = append(c.IdxB, 1)
	c.Out = append(c.Out, One())
	c.Mult = append(c.Mult, 2)

	return c
}

// NumRows returns the number of rows currently in the circuit.
func (c *Circuit) NumRows() int { return len(c.Op) }

// rowValue evaluates the local invariant for a prospective row with the
// given selector and already-known input values.
func rowValue(op, a, b Element) Element {
	return op.Mul(a.Add(b)).Add(One().Sub(op).Mul(a).Mul(b))
}

// NewRow appends a row whose output is derived from the local invariant over
// its two inputs, and bumps idxA's and idxB's multiplicities by one each
// (idxA and idxB are "consumed" by this new row).
func (c *Circuit) NewRow(op Element, idxA, idxB int) int {
	value := rowValue(op, c.Out[idxA], c.Out[idxB])

	idx := len(c.Op)
	c.Op = append(c.Op, op)
	c.IdxA = append(c.IdxA, idxA)
	c.IdxB = append(c.IdxB, idxB)
	c.Out = append(c.Out, value)
	c.Mult = append(c.Mult, 0)

	c.Mult[idxA]++
	c.Mult[idxB]++

	return idx
}

// Add appends an adder row computing out[a] + out[b].
func (c *Circuit) Add(a, b int) int {
	return c.NewRow(OpAdder, a, b)
}

// Mul appends a multiplier row computing out[a] * out[b].
func (c *Circuit) Mul(a, b int) int {
	return c.NewRow(OpMultiplier, a, b)
}

// MulByConstant appends a row computing k * out[a], exploiting the generic
// selector: op=k, idxB=0 collapses the invariant to k*a + (1-k)*a*0 = k*a.
func (c *Circuit) MulByConstant(a int, k Element) int {
	return c.NewRow(k, a, 0)
}

// Neg appends a row computing -out[a].
func (c *Circuit) Neg(a int) int {
	return c.MulByConstant(a, One().Neg())
}

// NewConstant returns the row holding k, creating and caching it on first
// use. Distinct constants always materialize to distinct rows; repeated
// requests for the same constant return the same row.
func (c *Circuit) NewConstant(k Element) int {
	if k.IsZero() {
		return 0
	}
	if k.IsOne() {
		return 1
	}
	if idx, ok := c.constants[k]; ok {
		return idx
	}
	idx := c.MulByConstant(1, k)
	c.constants[k] = idx
	return idx
}

// NewInput appends a self-referential public-input row: its output is fixed
// externally (by the assignment) rather than derived from the local
// invariant, which is why idxA points at the row's own index. The row's
// multiplicity starts at 0 and counts only later consumers: the public
// declaration is recorded into InputMaps instead, and its entry in the logup
// check's external supply list balances the row's self-reference.
func (c *Circuit) NewInput(v Element) int {
	idx := len(c.Op)
	c.Op = append(c.Op, OpAdder)
	c.IdxA = append(c.IdxA, idx)
	c.IdxB = append(c.IdxB, 0)
	c.Out = append(c.Out, v)
	c.Mult = append(c.Mult, 0)

	c.Mult[0]++
	c.InputMaps = append(c.InputMaps, InputRecord{Index: idx, Value: v})

	return idx
}

// NewWitness appends a self-referential private-witness row, identical in
// shape to NewInput but with multiplicity seeded at 1 directly: the extra
// count cancels the prover's own lookup contribution instead of being
// recorded as an external declaration.
func (c *Circuit) NewWitness(v Element) int {
	idx := len(c.Op)
	c.Op = append(c.Op, OpAdder)
	c.IdxA = append(c.IdxA, idx)
	c.IdxB = append(c.IdxB, 0)
	c.Out = append(c.Out, v)
	c.Mult = append(c.Mult, 1)

	c.Mult[0]++

	return idx
}

// ZeroTest appends a helper row that forces out[idx] to be zero: the helper
// computes 1*(out[idx] + out[helper]), and its own output is fixed to 0
// (rather than derived), so the invariant reduces to out[idx] + 0 = 0.
func (c *Circuit) ZeroTest(idx int) {
	helper := len(c.Op)
	c.Op = append(c.Op, OpAdder)
	c.IdxA = append(c.IdxA, idx)
	c.IdxB = append(c.IdxB, helper)
	c.Out = append(c.Out, Zero())
	c.Mult = append(c.Mult, 1)

	c.Mult[idx]++
}

// PadToNextPowerOfTwo appends inert rows (op=0, idxA=idxB=0, out=0, mult=0)
// until the row count is a power of two, which the trace export requires.
// It pads by exactly the shortfall rather than by a full extra block of
// next_power_of_two rows (the source implementation over-pads; see the
// padding discussion in the design notes).
func (c *Circuit) PadToNextPowerOfTwo() {
	target := nextPowerOfTwo(c.NumRows())
	for c.NumRows() < target {
		idx := len(c.Op)
		c.Op = append(c.Op, OpMultiplier)
		c.IdxA = append(c.IdxA, 0)
		c.IdxB = append(c.IdxB, 0)
		c.Out = append(c.Out, Zero())
		c.Mult = append(c.Mult, 0)

		c.Mult[0] += 2
		_ = idx
	}
	c.padded = true
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// IsSatisfied checks the local row invariant over every row, and that the
// five parallel arrays agree in length. It returns false (rather than
// erroring) when a row fails its check, matching §4.5's local consistency
// check semantics: an unsatisfied circuit is not a bug in this function.
func (c *Circuit) IsSatisfied() bool {
	n := len(c.Op)
	if len(c.IdxA) != n || len(c.IdxB) != n || len(c.Out) != n || len(c.Mult) != n {
		panic(fmt.Sprintf("core: circuit arrays out of sync: op=%d idxA=%d idxB=%d out=%d mult=%d",
			len(c.Op), len(c.IdxA), len(c.IdxB), len(c.Out), len(c.Mult)))
	}

	for i := 0; i < n; i++ {
		wa := c.Out[c.IdxA[i]]
		wb := c.Out[c.IdxB[i]]
		if rowValue(c.Op[i], wa, wb) != c.Out[i] {
			return false
		}
	}
	return true
}

// Columns is the trace export interface to the prover: eight parallel
// M31-valued columns of length NumRows(), which MUST be a power of two.
type Columns struct {
	Mult  []Element
	AWire []Element
	BWire []Element
	CWire []Element
	Op    []Element
	AVal  []Element
	BVal  []Element
	CVal  []Element
}

// ExportColumns builds the trace columns described in §6. It does not
// require prior padding, but the prover expects NumRows() to be a power of
// two, so callers normally call PadToNextPowerOfTwo first.
func (c *Circuit) ExportColumns() Columns {
	n := c.NumRows()
	cols := Columns{
		Mult:  make([]Element, n),
		AWire: make([]Element, n),
		BWire: make([]Element, n),
		CWire: make([]Element, n),
		Op:    make([]Element, n),
		AVal:  make([]Element, n),
		BVal:  make([]Element, n),
		CVal:  make([]Element, n),
	}
	for i := 0; i < n; i++ {
		cols.Mult[i] = NewElement(uint32(c.Mult[i]))
		cols.AWire[i] = NewElement(uint32(c.IdxA[i]))
		cols.BWire[i] = NewElement(uint32(c.IdxB[i]))
		cols.CWire[i] = NewElement(uint32(i))
		cols.Op[i] = c.Op[i]
		cols.AVal[i] = c.Out[c.IdxA[i]]
		cols.BVal[i] = c.Out[c.IdxB[i]]
		cols.CVal[i] = c.Out[i]
	}
	return cols
}
