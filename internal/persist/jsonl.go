// This file provides JSONL export and import of workout records.
package persist

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mesh-intelligence/mapty/pkg/types"
)

// EncodeJSONL writes one record per line in the given order.
func EncodeJSONL(w io.Writer, ws []types.Workout) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, wk := range ws {
		if err := enc.Encode(FromWorkout(wk)); err != nil {
			return fmt.Errorf("writing record %s: %w", wk.ID, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing buffer: %w", err)
	}
	return nil
}

// DecodeJSONL reads one record per line. Empty lines are ignored; lines that
// are not valid JSON or do not decode to a known workout kind are skipped and
// counted.
func DecodeJSONL(r io.Reader) (ws []types.Workout, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil || rec.ID == "" {
			skipped++
			continue
		}
		w, err := rec.Workout()
		if err != nil {
			skipped++
			continue
		}
		ws = append(ws, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("scanning records: %w", err)
	}
	return ws, skipped, nil
}

// WriteJSONLFile writes ws to path atomically.
func WriteJSONLFile(path string, ws []types.Workout) error {
	var buf bytes.Buffer
	if err := EncodeJSONL(&buf, ws); err != nil {
		return err
	}
	return WriteFileAtomic(path, buf.Bytes())
}
