// Package textio reads files with a byte cap and decides whether they are text.
package textio

import (
	"bytes"
	"io"
	"os"
	"strings"
)

const (
	// SampleSize is how many leading bytes the control-character heuristic inspects.
	SampleSize = 4096
	// OversizeReadCap bounds the prefix read from files larger than the cap.
	OversizeReadCap = 256 * 1024
	// maxControlRatio is the share of control bytes tolerated in the sample.
	maxControlRatio = 0.02
)

// Content is the result of a capped read.
type Content struct {
	Text   string
	Size   int64 // on-disk size, independent of how much was read
	IsText bool
}

// IsProbablyText rejects data containing NUL anywhere, or whose first
// SampleSize bytes hold 2% or more control characters other than tab, LF and CR.
func IsProbablyText(b []byte) bool {
	if bytes.IndexByte(b, 0) >= 0 {
		return false
	}
	if len(b) == 0 {
		return true
	}
	sample := b
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}
	bad := 0
	for _, ch := range sample {
		switch {
		case ch == '\t' || ch == '\n' || ch == '\r':
		case ch < 32 || ch == 127:
			bad++
		}
	}
	return float64(bad)/float64(len(sample)) < maxControlRatio
}

// Read loads up to maxBytes of path. Files larger than maxBytes contribute
// only a prefix of at most OversizeReadCap bytes. Non-text files come back
// with IsText false and no error; only open/stat/read failures are errors.
func Read(path string, maxBytes int64) (*Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	limit := maxBytes
	if info.Size() > maxBytes && limit > OversizeReadCap {
		limit = OversizeReadCap
	}

	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return nil, err
	}

	c := &Content{Size: info.Size()}
	if !IsProbablyText(data) {
		return c, nil
	}
	c.IsText = true
	c.Text = strings.ToValidUTF8(string(data), "\uFFFD")
	return c, nil
}
