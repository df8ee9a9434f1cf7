package report

import (
	"bytes"
	"encoding/json"
)

// SnapshotExcludeFields are the per-run fields left out when comparing two
// JSON reports.
var SnapshotExcludeFields = []string{"runId", "startedAt", "durationMs"}

// NormalizeForSnapshot removes per-run fields and re-encodes deterministically.
func NormalizeForSnapshot(data []byte) ([]byte, error) {
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	for _, field := range SnapshotExcludeFields {
		delete(parsed, field)
	}
	return EncodeJSON(parsed)
}

// CompareSnapshots reports whether two JSON reports describe the same
// findings.
func CompareSnapshots(a, b []byte) (bool, string) {
	na, err := NormalizeForSnapshot(a)
	if err != nil {
		return false, "failed to normalize snapshot A: " + err.Error()
	}
	nb, err := NormalizeForSnapshot(b)
	if err != nil {
		return false, "failed to normalize snapshot B: " + err.Error()
	}
	if !bytes.Equal(na, nb) {
		return false, "snapshots differ"
	}
	return true, ""
}
