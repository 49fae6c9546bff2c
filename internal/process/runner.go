package process

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"strings"
	"time"

	"github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/logger"
	"github.com/thomas-vilte/repocheck/internal/regex"
)

// Result is the captured outcome of one process. Stdout has terminal
// escape sequences removed; Stderr is returned as written.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Succeeded reports whether the process exited with status zero.
func (r Result) Succeeded() bool {
	return r.ExitCode == 0
}

// Runner launches external commands.
type Runner interface {
	Run(ctx context.Context, name string, args []string, dir string) (Result, error)
}

// ExecRunner runs commands as child processes of the current one.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

var _ Runner = (*ExecRunner)(nil)

// Run starts name with args in dir and waits for it to exit. A non-zero exit
// status is reported through Result.ExitCode, not as an error. A launch
// failure returns errors.ErrExecutionFailed.
//
// When ctx is done before the process exits Run returns errors.ErrCancelled
// immediately. The child is left running; it is reaped in the background.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string, dir string) (Result, error) {
	log := logger.FromContext(ctx)

	if err := ctx.Err(); err != nil {
		return Result{}, errors.ErrCancelled.WithError(err).WithContext("command", name)
	}

	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{}, errors.ErrExecutionFailed.WithError(err).
			WithContext("command", name).
			WithContext("dir", dir)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		log.Warn("command abandoned after cancellation",
			"command", name,
			"pid", cmd.Process.Pid,
			"duration_ms", time.Since(start).Milliseconds())
		return Result{}, errors.ErrCancelled.WithError(ctx.Err()).WithContext("command", name)
	case err := <-done:
		result := Result{
			Stdout: regex.StripANSI(stdout.String()),
			Stderr: stderr.String(),
		}

		if err != nil {
			var exitErr *exec.ExitError
			if !stderrors.As(err, &exitErr) {
				return result, errors.ErrExecutionFailed.WithError(err).
					WithContext("command", name).
					WithContext("stderr", strings.TrimSpace(result.Stderr))
			}
			result.ExitCode = exitErr.ExitCode()
		}

		log.Debug("command finished",
			"command", name,
			"args", strings.Join(args, " "),
			"dir", dir,
			"exit_code", result.ExitCode,
			"duration_ms", time.Since(start).Milliseconds())

		return result, nil
	}
}
