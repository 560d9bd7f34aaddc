package signals

// BuiltinPatterns holds the default expressions for every family. They are
// compiled case-insensitive and multi-line; config can only append to them.
var BuiltinPatterns = map[Family][]string{
	FamilyPrompt: {
		`\bsystem\s+prompt\b`,
		`\b\w*system_prompt\b`,
		`\bdeveloper\s+message\b`,
		`\bprompt_template\b`,
		`\bprompt\b\s*[:=]`,
		`\bSYSTEM\b\s*[:=]`,
		`\bDEVELOPER\b\s*[:=]`,
		`\bYou are\b.*\bassistant\b`,
		`\bTools?\b.*\bavailable\b`,
		`\bjson\b.*\btool\b.*\bcall\b`,
	},
	FamilyTool: {
		`\bToolRegistry\b`,
		`\btool_calls?\b`,
		`\bfunction\s+call\b`,
		`\bfunction_call\b`,
		`\bexecute_tool\b`,
		`\bcapabilit(y|ies)\b`,
		`\ballowlist\b`,
		`\bschema\b.*\bvalidate\b`,
		`\bJSON\s*Schema\b`,
	},
	FamilyTelemetry: {
		`\btelemetry\b`,
		`\bevent\b.*\bschema\b`,
		`\btrace\b`,
		`\blatenc(y|ies)\b`,
		`\bmetrics?\b`,
		`\bspan\b`,
		`\bOpenTelemetry\b`,
		`\blog\s*event\b`,
	},
	FamilyRAG: {
		`\bRAG\b`,
		`\bretriev(al|e)\b`,
		`\bembedding\b`,
		`\bvector\b`,
		`\bhnsw\b`,
		`\bchunk(ing|er)\b`,
		`\btop[- ]k\b`,
		`\brerank(er|ing)\b`,
		`\bcitation(s)?\b`,
	},
	FamilyEval: {
		`\beval(uation)?\b`,
		`\bgolden\s+set\b`,
		`\bregression\b`,
		`\bbenchmark\b`,
		`\bassert\b`,
		`\btest(s)?\b`,
		`\bmetric(s)?\b`,
	},
	FamilyPlatform: {
		`\bCoreML\b`,
		`\bcoremltools\b`,
		`\bmlx\b`,
		`\bTestFlight\b`,
		`\bApp\s*Store\s*Connect\b`,
		`\bxcodebuild\b`,
		`\bipa\b`,
		`\.mobileprovision\b`,
		`\bPodfile\b`,
		`\bgguf\b`,
		`\bonnx\b`,
		`\bquantiz(e|ed|ation)\b`,
	},
}
