package keystroke

import (
	"context"
	"time"

	"github.com/rileyhilliard/bootkeys/internal/errors"
	"github.com/rileyhilliard/bootkeys/internal/exec"
)

// Locator resolves the interpreter used to run the script.
type Locator interface {
	Locate() (string, error)
}

// PowerCLI runs the vm_keystrokes.ps1 automation script through PowerShell.
// The script owns the vCenter session and the virtual keyboard; this side
// only builds the command line and reads the exit status.
type PowerCLI struct {
	Locator  Locator
	Runner   exec.Runner
	Script   string
	Server   string
	Username string
	Password string

	interpreter string
}

// Prepare locates the interpreter once; later calls reuse it.
func (p *PowerCLI) Prepare(ctx context.Context) error {
	if p.interpreter != "" {
		return nil
	}
	name, err := p.Locator.Locate()
	if err != nil {
		return err
	}
	p.interpreter = name
	return nil
}

// Interpreter returns the resolved interpreter, or "" before Prepare.
func (p *PowerCLI) Interpreter() string {
	return p.interpreter
}

// Args builds the interpreter arguments for one invocation. HID codes
// trail the command line as the -HidCodes array.
func (p *PowerCLI) Args(vmName string, codes []string) []string {
	args := []string{
		"-ExecutionPolicy", "Bypass",
		"-File", p.Script,
		"-VCenterServer", p.Server,
		"-Username", p.Username,
		"-Password", p.Password,
		"-VMName", vmName,
		"-HidCodes",
	}
	return append(args, codes...)
}

// Deliver runs the script once.
func (p *PowerCLI) Deliver(ctx context.Context, vmName string, codes []string) Attempt {
	if p.interpreter == "" {
		return Attempt{
			ExitCode: -1,
			Err: errors.New(errors.ErrInterpreter,
				"No interpreter resolved",
				"Prepare must succeed before Deliver"),
		}
	}

	start := time.Now()
	res, err := p.Runner.Run(p.interpreter, p.Args(vmName, codes)...)
	a := Attempt{Duration: time.Since(start), Err: err, ExitCode: -1}
	if res != nil {
		a.ExitCode = res.ExitCode
		a.Stdout = string(res.Stdout)
		a.Stderr = string(res.Stderr)
	}
	if !a.OK() {
		a.Suggestion = exec.DiagnoseScriptFailure(a.Stderr)
	}
	return a
}
