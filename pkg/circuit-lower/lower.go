package circuitlower

import (
	"errors"
	"io"

	"github.com/vybium/circuit-lower/internal/circuit-lower/core"
	"github.com/vybium/circuit-lower/internal/circuit-lower/r1cs"
)

// Circuit wraps the lowered PLONK-style gate table and exposes the
// consistency checks and trace export a caller needs, without reaching into
// the internal package directly.
type Circuit struct {
	inner *core.Circuit
}

// NumRows returns the number of rows in the circuit.
func (c *Circuit) NumRows() int { return c.inner.NumRows() }

// InputMaps returns the (row index, value) pairs recorded for every public
// input, in creation order. This is the external supply list IsLogupSatisfied
// expects when no other verifier-side declaration is available.
func (c *Circuit) InputMaps() []InputRecord { return c.inner.InputMaps }

// IsSatisfied runs the local row-invariant check over every row.
func (c *Circuit) IsSatisfied() bool { return c.inner.IsSatisfied() }

// IsLogupSatisfied runs the global copy-constraint check, sampling its two
// challenges from r and checking against the given external supply list.
func (c *Circuit) IsLogupSatisfied(r io.Reader, external []ExternalSupply) (bool, error) {
	return c.inner.IsLogupSatisfied(r, external)
}

// PadToNextPowerOfTwo extends the circuit with inert rows until its row
// count is a power of two.
func (c *Circuit) PadToNextPowerOfTwo() { c.inner.PadToNextPowerOfTwo() }

// ExportColumns returns the eight-column trace export for the prover.
func (c *Circuit) ExportColumns() Columns { return c.inner.ExportColumns() }

// MarshalColumnsCBOR deterministically encodes the circuit's trace columns
// for debug export and offline inspection. It is not part of the bit-exact
// .r1cs/.wtns wire formats.
func MarshalColumnsCBOR(cols Columns) ([]byte, error) {
	data, err := cols.MarshalCBOR()
	if err != nil {
		return nil, wrapf(ErrInvalidInput, err, "encoding columns as cbor")
	}
	return data, nil
}

// UnmarshalColumnsCBOR decodes bytes produced by MarshalColumnsCBOR.
func UnmarshalColumnsCBOR(data []byte) (Columns, error) {
	cols, err := core.UnmarshalColumnsCBOR(data)
	if err != nil {
		return Columns{}, wrapf(ErrInvalidBinary, err, "decoding columns from cbor")
	}
	return cols, nil
}

// Lower lowers a constraint system under the given assignment into a
// circuit, per cfg.Mode, padding it to a power of two rows first when
// cfg.Pad is set.
func Lower(cs *ConstraintSystem, assignment []FieldElement, cfg Config) (*Circuit, error) {
	if len(assignment) != cs.NumVars {
		return nil, wrapf(ErrInvalidInput, nil, "assignment length %d does not match variable count %d", len(assignment), cs.NumVars)
	}

	inner, err := r1cs.GenerateCircuit(cs, r1cs.Assignment(assignment), cfg.Mode)
	if err != nil {
		return nil, wrapf(ErrConstraintSynthesisFailed, err, "lowering constraint system")
	}

	if cfg.Pad {
		inner.PadToNextPowerOfTwo()
	}

	return &Circuit{inner: inner}, nil
}

// ReadR1CS parses an iden3/snarkjs-compatible .r1cs binary stream into a
// ConstraintSystem.
func ReadR1CS(r io.Reader) (*ConstraintSystem, error) {
	cs, err := r1cs.ReadR1CS(r)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, wrapf(ErrIoShort, err, "parsing r1cs binary")
		}
		return nil, wrapf(ErrInvalidBinary, err, "parsing r1cs binary")
	}
	return cs, nil
}

// ReadWitness parses a .wtns binary stream into a flat assignment vector.
func ReadWitness(r io.Reader) ([]FieldElement, error) {
	values, err := r1cs.ReadWitness(r)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, wrapf(ErrIoShort, err, "parsing witness binary")
		}
		return nil, wrapf(ErrInvalidBinary, err, "parsing witness binary")
	}
	return values, nil
}

// WriteWitness serializes an assignment vector in the .wtns layout.
func WriteWitness(w io.Writer, values []FieldElement) error {
	if err := r1cs.WriteWitness(w, values); err != nil {
		return wrapf(ErrIoShort, err, "writing witness binary")
	}
	return nil
}

// IndexAssignment builds an all-zero assignment of the given length, the
// conventional placeholder for Index-mode lowering.
func IndexAssignment(numVars int) []FieldElement {
	return make([]FieldElement, numVars)
}
