// Package version provides centralized version information for the advisor.
package version

// These variables can be overridden at build time using ldflags:
// go build -ldflags "-X symbiosis/internal/version.Version=6.1.0 -X symbiosis/internal/version.Commit=abc123"
var (
	// Version is the semantic version of the advisor
	Version = "6.0.0"

	// Commit is the git commit hash (set at build time)
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time)
	BuildDate = "unknown"
)

// ReportVersion is the schema tag written into every report.
const ReportVersion = "v6"

// Info returns a formatted version string
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns complete version information
func Full() string {
	return "symbiosis version " + Version + "\n" +
		"Report schema: " + ReportVersion + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}
