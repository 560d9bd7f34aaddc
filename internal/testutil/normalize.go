package testutil

import (
	"encoding/json"
	"testing"
)

// VolatileReportFields change on every run even when the repository does not.
var VolatileReportFields = []string{"generated_at", "run_id", "elapsed_seconds"}

// NormalizeReport strips volatile top-level fields from an encoded report and
// re-encodes it with sorted keys, so two runs over the same tree compare equal.
func NormalizeReport(t *testing.T, data []byte) []byte {
	t.Helper()

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Failed to unmarshal report for normalization: %v", err)
	}
	for _, k := range VolatileReportFields {
		delete(doc, k)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal normalized report: %v", err)
	}
	return out
}
