package durations

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// FromProperties builds a table from a backend properties document:
// gate_length parameters of "gates" entries and readout_length of each
// qubit in "qubits" (the latter become per-qubit measure durations).
// If dt is zero the document's "dt" field, when present, is used.
func FromProperties(data []byte, dt float64) (*Table, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("backend properties: invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if dt == 0 {
		dt = doc.Get("dt").Float()
	}

	var entries []Entry
	var perr error
	doc.Get("gates").ForEach(func(_, gate gjson.Result) bool {
		name := gate.Get("gate").String()
		if name == "" {
			perr = fmt.Errorf("backend properties: gate entry without name: %s", gate.Raw)
			return false
		}
		length := gate.Get(`parameters.#(name=="gate_length")`)
		if !length.Exists() {
			return true
		}
		entries = append(entries, Entry{
			Name:   name,
			Qubits: intArray(gate.Get("qubits")),
			Value:  length.Get("value").Float(),
			Unit:   length.Get("unit").String(),
		})
		return true
	})
	if perr != nil {
		return nil, perr
	}

	for q, params := range doc.Get("qubits").Array() {
		readout := params.Get(`#(name=="readout_length")`)
		if !readout.Exists() {
			continue
		}
		entries = append(entries, Entry{
			Name:   "measure",
			Qubits: []int{q},
			Value:  readout.Get("value").Float(),
			Unit:   readout.Get("unit").String(),
		})
	}

	t, err := NewTable(dt, entries...)
	if err != nil {
		return nil, fmt.Errorf("backend properties: %w", err)
	}
	return t, nil
}

func intArray(r gjson.Result) []int {
	arr := r.Array()
	out := make([]int, len(arr))
	for i, v := range arr {
		out[i] = int(v.Int())
	}
	return out
}
