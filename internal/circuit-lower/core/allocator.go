package core

// OnDemandAllocator maps R1CS variable indices to circuit row indices,
// allocating lazily: a variable gets a row the first time it is asked for,
// not when the R1CS is first read. NumInput marks the boundary between
// instance variables (index < NumInput) and witness variables.
type OnDemandAllocator struct {
	assignments []Element
	mapping     map[int]int
	NumInput    int
}

// NewOnDemandAllocator creates an allocator over the given variable
// assignments (index 0 is always the constant-one wire), with the first
// numInput entries treated as public instance variables.
func NewOnDemandAllocator(assignments []Element, numInput int) *OnDemandAllocator {
	return &OnDemandAllocator{
		assignments: assignments,
		mapping:     make(map[int]int),
		NumInput:    numInput,
	}
}

// IsAllocated reports whether variable v already has a row.
func (a *OnDemandAllocator) IsAllocated(v int) bool {
	_, ok := a.mapping[v]
	return ok
}

// Get returns the row index for variable v, allocating it on first use: v=0
// maps to the circuit's constant-one row, instance variables become
// NewInput rows, and the rest become NewWitness rows.
func (a *OnDemandAllocator) Get(c *Circuit, v int) int {
	if idx, ok := a.mapping[v]; ok {
		return idx
	}

	var idx int
	switch {
	case v == 0:
		idx = 1
	case v < a.NumInput:
		idx = c.NewInput(a.assignments[v])
	default:
		idx = c.NewWitness(a.assignments[v])
	}

	a.mapping[v] = idx
	return idx
}

// SetAllocated binds an unallocated variable directly to an existing row,
// without appending a new one. This realizes the inlining optimization: when
// a constraint's output is a single variable that has never been referenced
// before, the variable can simply become an alias for the row that computed
// its value.
//
// Callers must ensure v is not already allocated; SetAllocated overwrites
// silently if it is.
func (a *OnDemandAllocator) SetAllocated(v int, row int) {
	a.mapping[v] = row
}
