package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"symbiosis/internal/errors"
	"symbiosis/internal/output"
)

// WriteOptions selects the optional artifacts.
type WriteOptions struct {
	SARIF   bool
	Archive bool
}

// Artifacts lists the files written for one report.
type Artifacts struct {
	JSON     string `json:"json"`
	Markdown string `json:"markdown"`
	SARIF    string `json:"sarif,omitempty"`
	Archive  string `json:"archive,omitempty"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// Write emits every requested artifact into outDir, which must exist.
func Write(outDir string, r *Report, opts WriteOptions) (*Artifacts, error) {
	data, err := output.EncodeIndented(r)
	if err != nil {
		return nil, errors.New(errors.InternalError, "failed to encode report", err, nil)
	}

	art := &Artifacts{
		JSON:     filepath.Join(outDir, JSONFile),
		Markdown: filepath.Join(outDir, MarkdownFile),
	}
	if err := write(art.JSON, data); err != nil {
		return nil, err
	}
	if err := write(art.Markdown, []byte(RenderMarkdown(r))); err != nil {
		return nil, err
	}

	if opts.SARIF {
		art.SARIF = filepath.Join(outDir, SARIFFile)
		if err := writeJSON(art.SARIF, BuildSARIF(r)); err != nil {
			return nil, err
		}
	}

	if opts.Archive {
		art.Archive = filepath.Join(outDir, ArchiveFile)
		compressed, err := compress(data)
		if err != nil {
			return nil, errors.New(errors.InternalError, "failed to compress report", err, nil)
		}
		if err := write(art.Archive, compressed); err != nil {
			return nil, err
		}
	}

	return art, nil
}

func write(path string, data []byte) error {
	if err := output.WriteFileAtomic(path, data); err != nil {
		return errors.New(errors.ReportWriteFailed, "failed to write "+filepath.Base(path), err, nil).
			WithDetails(map[string]string{"path": path})
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := output.EncodeIndented(v)
	if err != nil {
		return errors.New(errors.InternalError, "failed to encode "+filepath.Base(path), err, nil)
	}
	return write(path, data)
}

func compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/4)), nil
}

// Decompress reverses the archive encoding.
func Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// ReadJSON loads a report artifact, decoding .zst archives transparently.
func ReadJSON(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) == ".zst" {
		return Decompress(data)
	}
	return data, nil
}

// Load reads a previously written report.
func Load(path string) (*Report, error) {
	data, err := ReadJSON(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return &r, nil
}
