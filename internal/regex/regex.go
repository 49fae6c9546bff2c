package regex

import "regexp"

var (
	// Terminal control sequences emitted by colorized toolchains
	ANSIEscape = regexp.MustCompile(`\x1B\[[0-?9;]*[mK]`)

	// .NET compiler diagnostics: "error CS0103: message [/path/App.csproj]"
	DotNetDiagnostic = regexp.MustCompile(`(?i)(?P<severity>error|warning) (?P<code>CS\d*): (?P<message>.+?) \[(?P<project>.+?)\]`)

	// Output sections holding per-test results
	DotNetTestSection = regexp.MustCompile(`(?is)Starting test execution, please wait\.\.\.(.*)`)
	JavaTestSection   = regexp.MustCompile(`(?is)TESTS(.*)`)

	// dotnet test --verbosity normal result lines
	DotNetTestPassed = regexp.MustCompile(`Passed\s+(?P<name>[^\s]+)\s+\[\s*(?P<time>(?:<\s*)?\d+(\.\d+)?\s+ms)\]`)
	DotNetTestFailed = regexp.MustCompile(`Failed\s+(?P<name>[^\s]+)\s+\[\s*(?P<time>(?:<\s*)?\d+(\.\d+)?\s+ms)\]`)

	// mvn test result lines
	JavaTestPassed = regexp.MustCompile(`(?P<name>[\w\.]+)\s+\((?P<time>\d+)\s+ms\)\s+Success`)
	JavaTestFailed = regexp.MustCompile(`(?P<name>[\w\.]+)\s+\((?P<time>\d+)\s+ms\)\s+Failed`)

	// python -m unittest discover -v result lines
	PythonTestPassed = regexp.MustCompile(`(?i)(?P<name>[\w_]+)\s+\((?P<path>[\w\.]+)\)\s+\.\.\.\s+(OK|PASSED)`)
	PythonTestFailed = regexp.MustCompile(`(?i)(?P<name>[\w_]+)\s+\((?P<path>[\w\.]+)\)\s+\.\.\.\s+(FAIL|FAILED)`)

	// Git object names
	CommitSHA = regexp.MustCompile(`^[0-9a-fA-F]{4,40}$`)
)

// StripANSI removes color and erase-line sequences from s.
func StripANSI(s string) string {
	return ANSIEscape.ReplaceAllString(s, "")
}

// Named returns the value of the named capture group in a match produced by re,
// or an empty string when the group did not participate.
func Named(re *regexp.Regexp, match []string, name string) string {
	idx := re.SubexpIndex(name)
	if idx < 0 || idx >= len(match) {
		return ""
	}
	return match[idx]
}
