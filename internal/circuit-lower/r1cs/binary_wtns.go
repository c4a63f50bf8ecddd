package r1cs

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vybium/circuit-lower/internal/circuit-lower/core"
)

var wtnsMagic = [4]byte{0x77, 0x74, 0x6e, 0x73} // "wtns"

const wtnsFieldModulus = uint64(2147483647)

// ReadWitness parses the fixed .wtns binary format: a 4-byte magic, a
// version and section-count header, a 16-byte field-description section,
// and a section of little-endian u64 witness values (each reduced modulo
// the M31 prime on load).
//
// Any deviation from the fixed layout — wrong magic, wrong version, wrong
// section count or id, wrong n8, or wrong field modulus — is an error.
func ReadWitness(r io.Reader) ([]core.Element, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("wtns: reading magic: %w", err)
	}
	if magic != wtnsMagic {
		return nil, fmt.Errorf("wtns: invalid magic %v, expected %v", magic, wtnsMagic)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("wtns: reading version: %w", err)
	}
	if version != 2 {
		return nil, fmt.Errorf("wtns: unsupported version %d, expected 2", version)
	}

	var nSections uint32
	if err := binary.Read(r, binary.LittleEndian, &nSections); err != nil {
		return nil, fmt.Errorf("wtns: reading section count: %w", err)
	}
	if nSections != 2 {
		return nil, fmt.Errorf("wtns: unsupported section count %d, expected 2", nSections)
	}

	var id1 uint32
	if err := binary.Read(r, binary.LittleEndian, &id1); err != nil {
		return nil, fmt.Errorf("wtns: reading section 1 id: %w", err)
	}
	if id1 != 1 {
		return nil, fmt.Errorf("wtns: unexpected section 1 id %d, expected 1", id1)
	}

	var len1 uint64
	if err := binary.Read(r, binary.LittleEndian, &len1); err != nil {
		return nil, fmt.Errorf("wtns: reading section 1 length: %w", err)
	}
	if len1 != 16 {
		return nil, fmt.Errorf("wtns: unexpected section 1 length %d, expected 16", len1)
	}

	var n8 uint32
	if err := binary.Read(r, binary.LittleEndian, &n8); err != nil {
		return nil, fmt.Errorf("wtns: reading n8: %w", err)
	}
	if n8 != 8 {
		return nil, fmt.Errorf("wtns: unsupported n8 %d, expected 8", n8)
	}

	var modulus uint64
	if err := binary.Read(r, binary.LittleEndian, &modulus); err != nil {
		return nil, fmt.Errorf("wtns: reading field modulus: %w", err)
	}
	if modulus != wtnsFieldModulus {
		return nil, fmt.Errorf("wtns: unsupported field modulus %d, expected %d", modulus, wtnsFieldModulus)
	}

	var numWitnesses uint32
	if err := binary.Read(r, binary.LittleEndian, &numWitnesses); err != nil {
		return nil, fmt.Errorf("wtns: reading witness count: %w", err)
	}

	var id2 uint32
	if err := binary.Read(r, binary.LittleEndian, &id2); err != nil {
		return nil, fmt.Errorf("wtns: reading section 2 id: %w", err)
	}
	if id2 != 2 {
		return nil, fmt.Errorf("wtns: unexpected section 2 id %d, expected 2", id2)
	}

	var len2 uint64
	if err := binary.Read(r, binary.LittleEndian, &len2); err != nil {
		return nil, fmt.Errorf("wtns: reading section 2 length: %w", err)
	}
	if len2 != 8*uint64(numWitnesses) {
		return nil, fmt.Errorf("wtns: section 2 length %d inconsistent with witness count %d", len2, numWitnesses)
	}

	values := make([]core.Element, numWitnesses)
	for i := range values {
		var v uint64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, fmt.Errorf("wtns: reading witness %d: %w", i, err)
		}
		values[i] = core.NewElement(uint32(v % wtnsFieldModulus))
	}

	return values, nil
}

// WriteWitness serializes values in the same fixed layout ReadWitness
// expects, for round-trip tests and for any caller producing witness files.
func WriteWitness(w io.Writer, values []core.Element) error {
	if _, err := w.Write(wtnsMagic[:]); err != nil {
		return fmt.Errorf("wtns: writing magic: %w", err)
	}
	for _, v := range []uint32{2, 2, 1} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("wtns: writing header: %w", err)
		}
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(16)); err != nil {
		return fmt.Errorf("wtns: writing section 1 length: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(8)); err != nil {
		return fmt.Errorf("wtns: writing n8: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, wtnsFieldModulus); err != nil {
		return fmt.Errorf("wtns: writing field modulus: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(values))); err != nil {
		return fmt.Errorf("wtns: writing witness count: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(2)); err != nil {
		return fmt.Errorf("wtns: writing section 2 id: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(8*len(values))); err != nil {
		return fmt.Errorf("wtns: writing section 2 length: %w", err)
	}
	for i, v := range values {
		if err := binary.Write(w, binary.LittleEndian, uint64(v.Uint32())); err != nil {
			return fmt.Errorf("wtns: writing witness %d: %w", i, err)
		}
	}
	return nil
}
