// Command circuit-lower reads an R1CS constraint system and a matching
// witness, lowers them into the PLONK-style circuit trace, and reports
// whether the result satisfies both the local row invariant and the global
// copy-constraint check.
package main

import (
	"fmt"
	"os"

	circuitlower "github.com/vybium/circuit-lower/pkg/circuit-lower"

	"github.com/vybium/circuit-lower/internal/circuit-lower/trace"
)

func main() {
	if len(os.Args) != 3 && len(os.Args) != 4 {
		fatal(fmt.Sprintf("usage: %s <r1cs-path> <wtns-path> [dump-cbor-path]", os.Args[0]))
	}

	r1csPath, wtnsPath := os.Args[1], os.Args[2]
	var dumpPath string
	if len(os.Args) == 4 {
		dumpPath = os.Args[3]
	}

	logStderr(fmt.Sprintf("reading constraint system from %s", r1csPath))
	cs, err := readR1CSFile(r1csPath)
	if err != nil {
		fatal(fmt.Sprintf("failed to read r1cs: %v", err))
	}

	logStderr(fmt.Sprintf("reading witness from %s", wtnsPath))
	assignment, err := readWitnessFile(wtnsPath)
	if err != nil {
		fatal(fmt.Sprintf("failed to read witness: %v", err))
	}

	logStderr("lowering circuit...")
	circuit, err := circuitlower.Lower(cs, assignment, circuitlower.Config{
		Mode: circuitlower.Prove,
		Pad:  true,
	})
	if err != nil {
		fatal(fmt.Sprintf("lowering failed: %v", err))
	}
	logStderr(fmt.Sprintf("circuit has %d rows", circuit.NumRows()))

	if !circuit.IsSatisfied() {
		fatal("local row invariant failed")
	}
	logStderr("local row invariant satisfied")

	cols := circuit.ExportColumns()

	if dumpPath != "" {
		if err := dumpColumnsCBOR(cols, dumpPath); err != nil {
			fatal(fmt.Sprintf("failed to dump columns: %v", err))
		}
		logStderr(fmt.Sprintf("wrote debug column dump to %s", dumpPath))
	}

	commitment, err := trace.Commit(cols)
	if err != nil {
		fatal(fmt.Sprintf("commitment failed: %v", err))
	}
	root := commitment.Root()
	logStderr(fmt.Sprintf("committed trace, root=%x", root))

	external := make([]circuitlower.ExternalSupply, len(circuit.InputMaps()))
	for i, rec := range circuit.InputMaps() {
		external[i] = circuitlower.ExternalSupply{ID: rec.Index, Value: rec.Value}
	}

	transcript := trace.NewTranscript()
	transcript.Send(root[:])
	ok, err := circuit.IsLogupSatisfied(transcript, external)
	if err != nil {
		fatal(fmt.Sprintf("logup check failed: %v", err))
	}
	if !ok {
		fatal("global copy-constraint check failed")
	}
	logStderr("global copy-constraint check satisfied")

	fmt.Println("OK")
}

func readR1CSFile(path string) (*circuitlower.ConstraintSystem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return circuitlower.ReadR1CS(f)
}

func readWitnessFile(path string) ([]circuitlower.FieldElement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return circuitlower.ReadWitness(f)
}

func dumpColumnsCBOR(cols circuitlower.Columns, path string) error {
	data, err := circuitlower.MarshalColumnsCBOR(cols)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "circuit-lower:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
