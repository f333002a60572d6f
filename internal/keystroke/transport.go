package keystroke

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/rileyhilliard/bootkeys/internal/errors"
	"github.com/rileyhilliard/bootkeys/internal/exec"
)

// Transport delivers HID codes to a VM console.
type Transport interface {
	// Prepare resolves everything that retrying cannot fix, such as the
	// interpreter binary. An error here means no attempt is made.
	Prepare(ctx context.Context) error
	// Deliver makes one attempt. Failures are reported in the Attempt.
	Deliver(ctx context.Context, vmName string, codes []string) Attempt
}

// CodeChecker is implemented by transports that can reject codes up front.
// Send calls it before Prepare, so a bad code costs no attempts.
type CodeChecker interface {
	CheckCodes(codes []string) error
}

// Attempt records one delivery try.
type Attempt struct {
	Number   int
	ExitCode int
	Stdout   string
	Stderr   string
	// Err is set when the attempt couldn't run at all (launch failure,
	// connection error).
	Err error
	// Suggestion is a transport-specific hint for the operator.
	Suggestion string
	Duration   time.Duration
}

// OK reports whether the VM accepted the keystrokes.
func (a Attempt) OK() bool {
	return a.Err == nil && a.ExitCode == 0
}

// Detail is the most useful single description of a failed attempt.
func (a Attempt) Detail() string {
	if a.Err != nil {
		return summarize(a.Err)
	}
	if line := exec.FirstLine(a.Stderr); line != "" {
		return line
	}
	return fmt.Sprintf("exit code %d", a.ExitCode)
}

func (a Attempt) asError() error {
	if a.OK() {
		return nil
	}
	if a.Err != nil {
		return a.Err
	}
	if line := exec.FirstLine(a.Stderr); line != "" {
		return fmt.Errorf("exit code %d: %s", a.ExitCode, line)
	}
	return fmt.Errorf("exit code %d", a.ExitCode)
}

// summarize renders err on one line. Structured errors print as
// "message: cause" without their multi-line layout.
func summarize(err error) string {
	var bkErr *errors.Error
	if stderrors.As(err, &bkErr) {
		if bkErr.Cause != nil {
			return bkErr.Message + ": " + exec.FirstLine(bkErr.Cause.Error())
		}
		return bkErr.Message
	}
	return exec.FirstLine(err.Error())
}
