package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEncodeIndented_FieldOrderAndEscaping(t *testing.T) {
	type doc struct {
		Zeta  int    `json:"zeta"`
		Alpha string `json:"alpha"`
	}

	data, err := EncodeIndented(doc{Zeta: 1, Alpha: "<system> & you"})
	if err != nil {
		t.Fatalf("EncodeIndented failed: %v", err)
	}
	got := string(data)

	if strings.Index(got, `"zeta"`) > strings.Index(got, `"alpha"`) {
		t.Errorf("struct field order not preserved:\n%s", got)
	}
	if !strings.Contains(got, "<system> & you") {
		t.Errorf("HTML characters should not be escaped:\n%s", got)
	}
	if !strings.HasSuffix(got, "}\n") {
		t.Errorf("expected trailing newline:\n%q", got)
	}
}

func TestEncodeIndented_MapKeysSorted(t *testing.T) {
	a, err := EncodeIndented(map[string]int{"b": 2, "a": 1, "c": 3})
	if err != nil {
		t.Fatal(err)
	}
	b, err := EncodeIndented(map[string]int{"c": 3, "a": 1, "b": 2})
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Errorf("map encoding not deterministic:\n%s\n%s", a, b)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	data, err := EncodeIndented(map[string]bool{"ok": true})
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, data); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(got)) != "{\n  \"ok\": true\n}" {
		t.Errorf("unexpected content: %q", got)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "x.json")
	if err := WriteFileAtomic(path, []byte("{}")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		done, total int
		want        string
	}{
		{0, 0, "0.0"},
		{1, 3, "33.3"},
		{20, 20, "100.0"},
		{7, 20, "35.0"},
	}
	for _, tt := range tests {
		if got := fmt.Sprintf("%.1f", Percent(tt.done, tt.total)); got != tt.want {
			t.Errorf("Percent(%d, %d) = %s, want %s", tt.done, tt.total, got, tt.want)
		}
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		in     float64
		places int
		want   float64
	}{
		{1.23456, 3, 1.235},
		{0.0004, 3, 0},
		{2.5, 0, 3},
	}
	for _, tt := range tests {
		if got := RoundTo(tt.in, tt.places); got != tt.want {
			t.Errorf("RoundTo(%v, %d) = %v, want %v", tt.in, tt.places, got, tt.want)
		}
	}
}
