package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"runtime"
	"strings"

	"symbiosis/internal/drift"
	"symbiosis/internal/hotspots"
	"symbiosis/internal/version"
)

// SARIF 2.1.0 subset.
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"

	RuleDrift   = "prompt-drift"
	RuleHotspot = "hotspot"

	sarifMaxClusters     = 25
	sarifMaxClusterFiles = 10
	sarifMaxHotspots     = 50
)

// SARIF is the top-level SARIF document.
type SARIF struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun is a single analysis run.
type SARIFRun struct {
	Tool              SARIFTool               `json:"tool"`
	AutomationDetails *SARIFAutomationDetails `json:"automationDetails,omitempty"`
	Results           []SARIFResult           `json:"results"`
	Invocations       []SARIFInvocation       `json:"invocations,omitempty"`
}

type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

type SARIFDriver struct {
	Name            string      `json:"name"`
	Version         string      `json:"version,omitempty"`
	SemanticVersion string      `json:"semanticVersion,omitempty"`
	Rules           []SARIFRule `json:"rules"`
}

type SARIFRule struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	ShortDescription     *SARIFMessage     `json:"shortDescription,omitempty"`
	DefaultConfiguration *SARIFRuleDefault `json:"defaultConfiguration,omitempty"`
}

type SARIFRuleDefault struct {
	Level string `json:"level"`
}

// SARIFAutomationDetails ties the SARIF run to the report's run_id.
type SARIFAutomationDetails struct {
	ID   string `json:"id,omitempty"`
	GUID string `json:"guid,omitempty"`
}

// SARIFResult is a single finding. Locations always has one entry.
type SARIFResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             SARIFMessage      `json:"message"`
	Locations           []SARIFLocation   `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
}

type SARIFMessage struct {
	Text string `json:"text"`
}

type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           *SARIFRegion          `json:"region,omitempty"`
}

type SARIFArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

type SARIFRegion struct {
	StartLine int `json:"startLine,omitempty"`
	EndLine   int `json:"endLine,omitempty"`
}

type SARIFInvocation struct {
	ExecutionSuccessful bool   `json:"executionSuccessful"`
	Machine             string `json:"machine,omitempty"`
}

type span struct{ start, end int }

// BuildSARIF converts drift clusters and family hotspots into SARIF results.
// Files with an empty path are skipped so every result has a location URI.
func BuildSARIF(r *Report) *SARIF {
	rules := []SARIFRule{
		{
			ID:                   RuleDrift,
			Name:                 "Prompt drift surface",
			ShortDescription:     &SARIFMessage{Text: "Near-duplicate prompt text appears in several places."},
			DefaultConfiguration: &SARIFRuleDefault{Level: "warning"},
		},
		{
			ID:                   RuleHotspot,
			Name:                 "High-signal hotspot",
			ShortDescription:     &SARIFMessage{Text: "File with a high density of LLM integration signals."},
			DefaultConfiguration: &SARIFRuleDefault{Level: "note"},
		},
	}

	// First snippet span per (signature, file) for drift regions.
	spans := make(map[string]span)
	for _, s := range r.PromptSnippets {
		key := drift.Signature(s.Preview) + "\x00" + s.File
		if _, ok := spans[key]; !ok {
			spans[key] = span{s.StartLine, s.EndLine}
		}
	}

	results := []SARIFResult{}
	for i, c := range r.PromptDriftClusters {
		if i >= sarifMaxClusters {
			break
		}
		for j, f := range c.Files {
			if j >= sarifMaxClusterFiles {
				break
			}
			if f == "" {
				continue
			}
			res := newResult(RuleDrift, 0, "warning",
				fmt.Sprintf("Prompt drift cluster %s appears in %d snippets.", c.Signature, c.Count),
				f, c.Signature)
			if sp, ok := spans[c.Signature+"\x00"+f]; ok && sp.start > 0 {
				res.Locations[0].PhysicalLocation.Region = &SARIFRegion{StartLine: sp.start, EndLine: sp.end}
			}
			results = append(results, res)
		}
	}

	if r.WhereToSearch != nil {
		for _, s := range r.WhereToSearch.Sections() {
			if s.Name == hotspots.SectionTodos || s.Name == hotspots.SectionHotChurn {
				continue
			}
			for i, f := range s.Files {
				if i >= sarifMaxHotspots {
					break
				}
				if f == "" {
					continue
				}
				results = append(results, newResult(RuleHotspot, 1, "note", hotspotMessage(s.Name), f, s.Name))
			}
		}
	}

	return &SARIF{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []SARIFRun{
			{
				Tool: SARIFTool{
					Driver: SARIFDriver{
						Name:            "symbiosis",
						Version:         version.Version,
						SemanticVersion: version.Version,
						Rules:           rules,
					},
				},
				AutomationDetails: &SARIFAutomationDetails{
					ID:   "symbiosis/" + r.Version + "/",
					GUID: r.RunID,
				},
				Results: results,
				Invocations: []SARIFInvocation{
					{
						ExecutionSuccessful: true,
						Machine:             runtime.GOOS + "/" + runtime.GOARCH,
					},
				},
			},
		},
	}
}

func newResult(ruleID string, ruleIndex int, level, text, uri, key string) SARIFResult {
	return SARIFResult{
		RuleID:    ruleID,
		RuleIndex: ruleIndex,
		Level:     level,
		Message:   SARIFMessage{Text: text},
		Locations: []SARIFLocation{
			{
				PhysicalLocation: SARIFPhysicalLocation{
					ArtifactLocation: SARIFArtifactLocation{URI: artifactURI(uri), URIBaseID: "%SRCROOT%"},
				},
			},
		},
		PartialFingerprints: map[string]string{
			"symbiosis/v1": resultFingerprint(ruleID, uri, key),
		},
	}
}

// artifactURI percent-encodes each segment of a repo-relative path.
func artifactURI(rel string) string {
	segments := strings.Split(rel, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

func hotspotMessage(section string) string {
	if section == hotspots.SectionPrompts {
		return "High prompt-signal file (review for prompt drift / registry compliance)."
	}
	return fmt.Sprintf("High %s signal file.", titleCase(section))
}

// resultFingerprint is stable across runs for the same rule, file and key.
func resultFingerprint(ruleID, uri, key string) string {
	sum := sha256.Sum256([]byte(ruleID + ":" + uri + ":" + key))
	return hex.EncodeToString(sum[:])[:16]
}
