package report

import "symbiosis/internal/hotspots"

// MaxEvidence caps the files attached to an action.
const MaxEvidence = 20

// Priority of an action item.
type Priority string

const (
	PriorityHigh Priority = "high"
	PriorityMed  Priority = "med"
)

// Action is a recommended follow-up derived from the totals.
type Action struct {
	Priority  Priority `json:"priority"`
	Title     string   `json:"title"`
	Why       string   `json:"why"`
	NextSteps []string `json:"next_steps"`
	Evidence  []string `json:"evidence"`
}

type actionRule struct {
	threshold int
	count     func(Totals) int
	section   string
	action    Action
}

var actionRules = []actionRule{
	{
		threshold: 10,
		count:     func(t Totals) int { return t.PromptSignalFiles },
		section:   hotspots.SectionPrompts,
		action: Action{
			Priority: PriorityHigh,
			Title:    "Unify prompt surfaces into versioned templates",
			Why:      "Prompt drift breaks alignment between runtime, fine-tuning, and eval.",
			NextSteps: []string{
				"Create prompts/v1/*.json and a registry.json (id+version).",
				"Load prompts at runtime by id+version; log prompt_id+version into telemetry.",
				"Add CI lint: fail if new system prompts are added outside registry.",
			},
		},
	},
	{
		threshold: 5,
		count:     func(t Totals) int { return t.TelemetrySignalFiles },
		section:   hotspots.SectionTelemetry,
		action: Action{
			Priority: PriorityHigh,
			Title:    "Standardise telemetry schema and redaction",
			Why:      "Telemetry is the bridge between what the app did and what the model should learn.",
			NextSteps: []string{
				"Define an event schema for model interactions.",
				"Centralise PII redaction (emails, tokens, keys).",
				"Implement telemetry→SFT and telemetry→retrieval pairs transforms.",
			},
		},
	},
	{
		threshold: 5,
		count:     func(t Totals) int { return t.RAGSignalFiles },
		section:   hotspots.SectionRAG,
		action: Action{
			Priority: PriorityMed,
			Title:    "Isolate retrieval + chunking into a single library surface",
			Why:      "Stable chunking/embedding settings prevent offline vs runtime mismatch.",
			NextSteps: []string{
				"Extract chunking rules into one module with golden tests.",
				"Log retrieval traces into telemetry.",
				"Train embeddings/LLM2Vec with the same chunk distribution used at runtime.",
			},
		},
	},
	{
		threshold: 5,
		count:     func(t Totals) int { return t.EvalSignalFiles },
		section:   hotspots.SectionEval,
		action: Action{
			Priority: PriorityHigh,
			Title:    "Make evaluation first-class (golden set + regression gates)",
			Why:      "Fine-tuning without a regression gate is just vibe-training.",
			NextSteps: []string{
				"Create a golden eval suite: tool parsing, JSON validity, groundedness/citations, refusal correctness.",
				"Add an offline eval CLI and a CI job that blocks regressions.",
				"Version eval cases alongside prompt templates.",
			},
		},
	},
	{
		threshold: 5,
		count:     func(t Totals) int { return t.ToolSignalFiles },
		section:   hotspots.SectionTools,
		action: Action{
			Priority: PriorityMed,
			Title:    "Harden tool-calling boundaries and injection resistance",
			Why:      "Tool-calling is the highest-risk surface; harden and train for safe behaviour.",
			NextSteps: []string{
				"Validate tool args against JSON schema before execution.",
				"Capability-based allowlists.",
				"Add red-team eval set: injection, schema smuggling, exfil attempts.",
			},
		},
	},
}

// BuildActions returns the actions whose thresholds the totals meet.
func BuildActions(totals Totals, where *hotspots.WhereToSearch) []Action {
	actions := []Action{}
	for _, rule := range actionRules {
		if rule.count(totals) < rule.threshold {
			continue
		}
		a := rule.action
		a.NextSteps = append([]string(nil), rule.action.NextSteps...)
		a.Evidence = []string{}
		if where != nil {
			files := where.Get(rule.section)
			if len(files) > MaxEvidence {
				files = files[:MaxEvidence]
			}
			a.Evidence = append(a.Evidence, files...)
		}
		actions = append(actions, a)
	}
	return actions
}
