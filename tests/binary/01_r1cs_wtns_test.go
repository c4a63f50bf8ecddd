package binary_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	circuitlower "github.com/vybium/circuit-lower/pkg/circuit-lower"
)

// writeMultiplierR1CS hand-encodes the same a*b=c relation used by
// tests/integration/01_multiplier_test.go, but through the binary .r1cs
// layout, to exercise ReadR1CS end to end.
func writeMultiplierR1CS() []byte {
	var buf bytes.Buffer
	buf.WriteString("r1cs")
	binary.Write(&buf, binary.LittleEndian, uint32(1))
	binary.Write(&buf, binary.LittleEndian, uint32(2))

	var header bytes.Buffer
	binary.Write(&header, binary.LittleEndian, uint32(4)) // field size
	prime := make([]byte, 4)
	prime[0], prime[1], prime[2], prime[3] = 0xFF, 0xFF, 0xFF, 0x7F // 2^31-1 little-endian
	header.Write(prime)
	binary.Write(&header, binary.LittleEndian, uint32(4)) // n_wires
	binary.Write(&header, binary.LittleEndian, uint32(0)) // n_pub_out
	binary.Write(&header, binary.LittleEndian, uint32(2)) // n_pub_in
	binary.Write(&header, binary.LittleEndian, uint32(1)) // n_prv_in
	binary.Write(&header, binary.LittleEndian, uint64(0)) // n_labels
	binary.Write(&header, binary.LittleEndian, uint32(1)) // n_constraints

	binary.Write(&buf, binary.LittleEndian, uint32(1))
	binary.Write(&buf, binary.LittleEndian, uint64(header.Len()))
	buf.Write(header.Bytes())

	writeCoeff := func(w *bytes.Buffer, v uint32) {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		w.Write(b)
	}
	writeLC := func(w *bytes.Buffer, wireID, coeff uint32) {
		binary.Write(w, binary.LittleEndian, uint32(1))
		binary.Write(w, binary.LittleEndian, wireID)
		writeCoeff(w, coeff)
	}

	var cons bytes.Buffer
	writeLC(&cons, 1, 1)
	writeLC(&cons, 3, 1)
	writeLC(&cons, 2, 1)

	binary.Write(&buf, binary.LittleEndian, uint32(2))
	binary.Write(&buf, binary.LittleEndian, uint64(cons.Len()))
	buf.Write(cons.Bytes())

	return buf.Bytes()
}

// Test01_R1CSAndWitnessRoundTrip reads a hand-built .r1cs file and a
// generated .wtns file and confirms the pipeline produces a satisfying
// circuit from the binary forms alone (the witness round-trip property, P7,
// of the design's testable-properties list).
func Test01_R1CSAndWitnessRoundTrip(t *testing.T) {
	cs, err := circuitlower.ReadR1CS(bytes.NewReader(writeMultiplierR1CS()))
	if err != nil {
		t.Fatalf("ReadR1CS failed: %v", err)
	}

	values := []circuitlower.FieldElement{1, 3, 33, 11}
	var wtnsBuf bytes.Buffer
	if err := circuitlower.WriteWitness(&wtnsBuf, values); err != nil {
		t.Fatalf("WriteWitness failed: %v", err)
	}

	assignment, err := circuitlower.ReadWitness(&wtnsBuf)
	if err != nil {
		t.Fatalf("ReadWitness failed: %v", err)
	}

	circuit, err := circuitlower.Lower(cs, assignment, circuitlower.Config{Mode: circuitlower.Prove})
	if err != nil {
		t.Fatalf("Lower failed: %v", err)
	}
	if !circuit.IsSatisfied() {
		t.Error("expected the round-tripped circuit to satisfy the local invariant")
	}
}

// Test02_BadMagicRejected covers scenario 3: a witness buffer that doesn't
// start with the wtns magic must be rejected as invalid.
func Test02_BadMagicRejected(t *testing.T) {
	bad := []byte{0x00, 0x00, 0x00, 0x00}
	if _, err := circuitlower.ReadWitness(bytes.NewReader(bad)); err == nil {
		t.Error("expected an error for a bad witness magic")
	}

	if _, err := circuitlower.ReadR1CS(bytes.NewReader(bad)); err == nil {
		t.Error("expected an error for a bad r1cs magic")
	} else if loweringErr, ok := err.(*circuitlower.LoweringError); !ok {
		t.Errorf("expected *LoweringError, got %T", err)
	} else if loweringErr.Code != circuitlower.ErrInvalidBinary {
		t.Errorf("expected ErrInvalidBinary, got code %d", loweringErr.Code)
	}
}

// Test03_WrongModulusRejected covers scenario 4: a witness declaring a
// field modulus other than 2^31-1 must be rejected.
func Test03_WrongModulusRejected(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x77, 0x74, 0x6e, 0x73})
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	binary.Write(&buf, binary.LittleEndian, uint32(1))
	binary.Write(&buf, binary.LittleEndian, uint64(16))
	binary.Write(&buf, binary.LittleEndian, uint32(8))
	binary.Write(&buf, binary.LittleEndian, uint64(1<<30))
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	binary.Write(&buf, binary.LittleEndian, uint64(0))

	if _, err := circuitlower.ReadWitness(&buf); err == nil {
		t.Error("expected an error for an unsupported field modulus")
	}
}
