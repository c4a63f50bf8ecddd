package core

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// columnsWire is the CBOR-visible shape of Columns: Element is a defined
// uint32 type, so it round-trips through cbor's default uint encoding
// without a custom Marshaler on Element itself.
type columnsWire struct {
	Mult  []Element
	AWire []Element
	BWire []Element
	CWire []Element
	Op    []Element
	AVal  []Element
	BVal  []Element
	CVal  []Element
}

// cborEncMode is the deterministic encoding mode used for canonical export:
// same map/field ordering and integer encoding on every call, so two
// encodings of equal Columns always produce identical bytes.
var cborEncMode = func() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("core: failed to build deterministic cbor encoder: %v", err))
	}
	return mode
}()

// MarshalCBOR encodes the trace columns deterministically, for debug export
// and offline inspection. This is not part of the bit-exact .r1cs/.wtns wire
// formats; it exists only as a canonical dump of a lowered circuit's output.
func (c Columns) MarshalCBOR() ([]byte, error) {
	wire := columnsWire{
		Mult: c.Mult, AWire: c.AWire, BWire: c.BWire, CWire: c.CWire,
		Op: c.Op, AVal: c.AVal, BVal: c.BVal, CVal: c.CVal,
	}
	data, err := cborEncMode.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("core: failed to encode columns as cbor: %w", err)
	}
	return data, nil
}

// UnmarshalColumnsCBOR decodes bytes produced by Columns.MarshalCBOR.
func UnmarshalColumnsCBOR(data []byte) (Columns, error) {
	var wire columnsWire
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return Columns{}, fmt.Errorf("core: failed to decode columns from cbor: %w", err)
	}
	return Columns{
		Mult: wire.Mult, AWire: wire.AWire, BWire: wire.BWire, CWire: wire.CWire,
		Op: wire.Op, AVal: wire.AVal, BVal: wire.BVal, CVal: wire.CVal,
	}, nil
}
