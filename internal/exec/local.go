package exec

import (
	"bytes"
	"io"
	"os/exec"

	"github.com/rileyhilliard/bootkeys/internal/errors"
)

// Result is the outcome of one process run.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Runner runs an executable with arguments and captures its output.
// A non-zero exit status is a Result, not an error; err is reserved for
// failures to launch or wait on the process.
type Runner interface {
	Run(name string, args ...string) (*Result, error)
}

// LocalRunner runs commands directly, without a shell, so arguments such as
// passwords reach the child verbatim.
type LocalRunner struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Stdin is connected to the child when set; nil means the null device.
	Stdin io.Reader
}

// NewLocalRunner returns a LocalRunner using the current directory.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

// Run executes name with args and waits for it to exit. There is no timeout.
func (r *LocalRunner) Run(name string, args ...string) (*Result, error) {
	command := exec.Command(name, args...)
	if r.Dir != "" {
		command.Dir = r.Dir
	}
	command.Stdin = r.Stdin

	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	runErr := command.Run()
	result := &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if runErr != nil {
		// Command ran but returned non-zero
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		result.ExitCode = -1
		return result, errors.WrapWithCode(runErr, errors.ErrExec,
			"Couldn't run "+name,
			"Make sure the command exists and is executable.")
	}

	return result, nil
}

// Start launches name with args, discards its output and waits for it.
// Only a failure to launch is reported; the exit status is ignored.
func Start(name string, args ...string) error {
	command := exec.Command(name, args...)
	command.Stdout = io.Discard
	command.Stderr = io.Discard

	if err := command.Start(); err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Couldn't start "+name,
			"Make sure the command exists and is executable.")
	}
	_ = command.Wait()
	return nil
}
