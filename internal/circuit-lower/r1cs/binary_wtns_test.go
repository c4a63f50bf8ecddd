package r1cs

import (
	"bytes"
	"testing"

	"github.com/vybium/circuit-lower/internal/circuit-lower/core"
)

func TestWitnessRoundTrip(t *testing.T) {
	values := []core.Element{core.One(), core.NewElement(3), core.NewElement(33), core.NewElement(11)}

	var buf bytes.Buffer
	if err := WriteWitness(&buf, values); err != nil {
		t.Fatalf("WriteWitness failed: %v", err)
	}

	got, err := ReadWitness(&buf)
	if err != nil {
		t.Fatalf("ReadWitness failed: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("got %d values, want %d", len(got), len(values))
	}
	for i := range values {
		if got[i] != values[i] {
			t.Errorf("value %d: got %v, want %v", i, got[i], values[i])
		}
	}
}

func TestWitnessReaderRejectsBadMagic(t *testing.T) {
	buf := bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x00})
	if _, err := ReadWitness(buf); err == nil {
		t.Error("expected error for bad magic")
	}
}

func TestWitnessReaderRejectsWrongModulus(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(wtnsMagic[:])
	writeU32 := func(v uint32) {
		buf.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
	}
	writeU64 := func(v uint64) {
		for i := 0; i < 8; i++ {
			buf.WriteByte(byte(v >> (8 * i)))
		}
	}
	writeU32(2)           // version
	writeU32(2)           // n_sections
	writeU32(1)           // section 1 id
	writeU64(16)          // section 1 length
	writeU32(8)           // n8
	writeU64(1 << 30)     // wrong modulus
	writeU32(0)           // n_witnesses
	writeU32(2) // section 2 id
	writeU64(0) // section 2 length

	if _, err := ReadWitness(&buf); err == nil {
		t.Error("expected error for wrong field modulus")
	}
}

func TestWitnessReaderRejectsShortRead(t *testing.T) {
	buf := bytes.NewReader(wtnsMagic[:])
	if _, err := ReadWitness(buf); err == nil {
		t.Error("expected error for truncated input")
	}
}
