// Package drift groups extracted prompt snippets whose previews share a
// token-frequency signature. Grouping is lexical: two snippets land together
// when their most frequent words match, not when they mean the same thing.
package drift

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"symbiosis/internal/snippets"
)

const (
	// MaxSignatureTokens bounds how many distinct tokens feed a signature.
	MaxSignatureTokens = 64
	// MaxSamples is how many member previews a cluster keeps.
	MaxSamples = 3
	// EmptySignature is used for previews without any word tokens.
	EmptySignature = "empty"

	signatureHexLen = 16
)

var tokenPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]+`)

// Cluster is a group of snippets sharing one signature.
type Cluster struct {
	Signature      string   `json:"signature"`
	Count          int      `json:"count"`
	Files          []string `json:"files"`
	SamplePreviews []string `json:"sample_previews"`
}

// Signature hashes the up-to-64 most frequent lowercase tokens of preview.
// Ties in frequency keep first-occurrence order.
func Signature(preview string) string {
	tokens := tokenPattern.FindAllString(strings.ToLower(preview), -1)
	if len(tokens) == 0 {
		return EmptySignature
	}

	counts := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > MaxSignatureTokens {
		order = order[:MaxSignatureTokens]
	}

	sum := sha256.Sum256([]byte(strings.Join(order, " ")))
	return hex.EncodeToString(sum[:])[:signatureHexLen]
}

// Build clusters snippets, including singletons. Clusters are ordered by
// count descending, then file count ascending, then signature.
func Build(snips []snippets.Snippet) []Cluster {
	bySig := make(map[string][]snippets.Snippet)
	var sigOrder []string
	for _, s := range snips {
		sig := Signature(s.Preview)
		if _, ok := bySig[sig]; !ok {
			sigOrder = append(sigOrder, sig)
		}
		bySig[sig] = append(bySig[sig], s)
	}

	clusters := make([]Cluster, 0, len(sigOrder))
	for _, sig := range sigOrder {
		members := bySig[sig]

		fileSet := make(map[string]bool)
		for _, m := range members {
			fileSet[m.File] = true
		}
		files := make([]string, 0, len(fileSet))
		for f := range fileSet {
			files = append(files, f)
		}
		sort.Strings(files)

		samples := make([]string, 0, MaxSamples)
		for i := 0; i < len(members) && i < MaxSamples; i++ {
			m := members[i]
			samples = append(samples, fmt.Sprintf("%s@%d-%d: %s", m.Kind, m.StartLine, m.EndLine, m.Preview))
		}

		clusters = append(clusters, Cluster{
			Signature:      sig,
			Count:          len(members),
			Files:          files,
			SamplePreviews: samples,
		})
	}

	sort.Slice(clusters, func(i, j int) bool {
		a, b := clusters[i], clusters[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if len(a.Files) != len(b.Files) {
			return len(a.Files) < len(b.Files)
		}
		return a.Signature < b.Signature
	})
	return clusters
}

// Signatures returns the signature of every cluster, in cluster order.
func Signatures(clusters []Cluster) []string {
	out := make([]string, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, c.Signature)
	}
	return out
}
