package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text", input: "Build succeeded.", want: "Build succeeded."},
		{name: "color codes", input: "\x1b[31merror\x1b[0m CS0103", want: "error CS0103"},
		{name: "erase line", input: "\x1b[2Kprogress\x1b[K", want: "progress"},
		{name: "bold and color", input: "\x1b[1;32mPassed\x1b[0m", want: "Passed"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripANSI(tt.input))
		})
	}
}

func TestDotNetDiagnostic(t *testing.T) {
	line := "/src/Program.cs(3,5): error CS0103: The name 'x' does not exist in the current context [/workspace/App/App.csproj]"
	m := DotNetDiagnostic.FindStringSubmatch(line)
	require.NotNil(t, m)

	assert.Equal(t, "error", Named(DotNetDiagnostic, m, "severity"))
	assert.Equal(t, "CS0103", Named(DotNetDiagnostic, m, "code"))
	assert.Equal(t, "The name 'x' does not exist in the current context", Named(DotNetDiagnostic, m, "message"))
	assert.Equal(t, "/workspace/App/App.csproj", Named(DotNetDiagnostic, m, "project"))

	assert.Nil(t, DotNetDiagnostic.FindStringSubmatch("Build succeeded."))
}

func TestDotNetTestPatterns(t *testing.T) {
	m := DotNetTestPassed.FindStringSubmatch("  Passed Calc.Tests.AddsNumbers [< 1 ms]")
	require.NotNil(t, m)
	assert.Equal(t, "Calc.Tests.AddsNumbers", Named(DotNetTestPassed, m, "name"))
	assert.Equal(t, "< 1 ms", Named(DotNetTestPassed, m, "time"))

	m = DotNetTestFailed.FindStringSubmatch("  Failed Calc.Tests.Divides [12.5 ms]")
	require.NotNil(t, m)
	assert.Equal(t, "Calc.Tests.Divides", Named(DotNetTestFailed, m, "name"))
	assert.Equal(t, "12.5 ms", Named(DotNetTestFailed, m, "time"))
}

func TestPythonTestPatterns(t *testing.T) {
	assert.True(t, PythonTestPassed.MatchString("test_add (tests.test_calc.CalcTest) ... ok"))
	assert.False(t, PythonTestFailed.MatchString("test_add (tests.test_calc.CalcTest) ... ok"))
	assert.True(t, PythonTestFailed.MatchString("test_div (tests.test_calc.CalcTest) ... FAIL"))
	assert.False(t, PythonTestPassed.MatchString("test_div (tests.test_calc.CalcTest) ... FAIL"))
}

func TestJavaTestPatterns(t *testing.T) {
	m := JavaTestPassed.FindStringSubmatch("com.acme.CalcTest.adds (15 ms) Success")
	require.NotNil(t, m)
	assert.Equal(t, "com.acme.CalcTest.adds", Named(JavaTestPassed, m, "name"))
	assert.Equal(t, "15", Named(JavaTestPassed, m, "time"))
	assert.True(t, JavaTestFailed.MatchString("com.acme.CalcTest.divides (3 ms) Failed"))
}

func TestNamed_UnknownGroup(t *testing.T) {
	m := JavaTestPassed.FindStringSubmatch("a.b (1 ms) Success")
	assert.Equal(t, "", Named(JavaTestPassed, m, "missing"))
}

func TestCommitSHA(t *testing.T) {
	assert.True(t, CommitSHA.MatchString("9fceb02d0ae598e95dc970b74767f19372d61af8"))
	assert.True(t, CommitSHA.MatchString("9FCEB02"))
	assert.False(t, CommitSHA.MatchString("not-a-sha"))
	assert.False(t, CommitSHA.MatchString(""))
}
