package keystroke_test

import (
	"context"
	"errors"
	"testing"

	bkerrors "github.com/rileyhilliard/bootkeys/internal/errors"
	"github.com/rileyhilliard/bootkeys/internal/exec"
	"github.com/rileyhilliard/bootkeys/internal/keystroke"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPowerCLI(runner *fakeRunner) *keystroke.PowerCLI {
	return &keystroke.PowerCLI{
		Locator:  locatorFunc(func() (string, error) { return "pwsh", nil }),
		Runner:   runner,
		Script:   "/opt/bootkeys/vm_keystrokes.ps1",
		Server:   "vc.local",
		Username: "admin",
		Password: "secret",
	}
}

func TestPowerCLI_Args(t *testing.T) {
	p := newPowerCLI(&fakeRunner{})

	args := p.Args("web01", []string{"0x28"})

	assert.Equal(t, []string{
		"-ExecutionPolicy", "Bypass",
		"-File", "/opt/bootkeys/vm_keystrokes.ps1",
		"-VCenterServer", "vc.local",
		"-Username", "admin",
		"-Password", "secret",
		"-VMName", "web01",
		"-HidCodes", "0x28",
	}, args)
}

func TestPowerCLI_ArgsMultipleCodesKeepOrder(t *testing.T) {
	p := newPowerCLI(&fakeRunner{})

	args := p.Args("web01", []string{"0x51", "0x51", "0x28"})

	assert.Equal(t, []string{"-HidCodes", "0x51", "0x51", "0x28"}, args[len(args)-4:])
}

func TestPowerCLI_PrepareLocatesOnce(t *testing.T) {
	calls := 0
	p := newPowerCLI(&fakeRunner{})
	p.Locator = locatorFunc(func() (string, error) {
		calls++
		return "powershell", nil
	})

	require.NoError(t, p.Prepare(context.Background()))
	require.NoError(t, p.Prepare(context.Background()))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "powershell", p.Interpreter())
}

func TestPowerCLI_PrepareError(t *testing.T) {
	p := newPowerCLI(&fakeRunner{})
	p.Locator = locatorFunc(func() (string, error) {
		return "", bkerrors.New(bkerrors.ErrInterpreter, "PowerShell not found", "")
	})

	err := p.Prepare(context.Background())

	require.Error(t, err)
	assert.Empty(t, p.Interpreter())
}

func TestPowerCLI_DeliverRunsInterpreter(t *testing.T) {
	runner := &fakeRunner{results: []*exec.Result{{ExitCode: 0, Stdout: []byte("Sent 1 key(s)\n")}}}
	p := newPowerCLI(runner)
	require.NoError(t, p.Prepare(context.Background()))

	a := p.Deliver(context.Background(), "web01", []string{"0x28"})

	assert.True(t, a.OK())
	assert.Equal(t, "Sent 1 key(s)\n", a.Stdout)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "pwsh", runner.calls[0][0])
	assert.Equal(t, p.Args("web01", []string{"0x28"}), runner.calls[0][1:])
}

func TestPowerCLI_DeliverNonZeroExit(t *testing.T) {
	runner := &fakeRunner{results: []*exec.Result{{
		ExitCode: 1,
		Stderr:   []byte("Connect-VIServer : Cannot complete login due to an incorrect user name or password.\n"),
	}}}
	p := newPowerCLI(runner)
	require.NoError(t, p.Prepare(context.Background()))

	a := p.Deliver(context.Background(), "web01", []string{"0x28"})

	assert.False(t, a.OK())
	assert.Equal(t, 1, a.ExitCode)
	assert.NoError(t, a.Err)
	assert.Contains(t, a.Detail(), "Connect-VIServer")
	assert.NotEmpty(t, a.Suggestion)
}

func TestPowerCLI_DeliverLaunchFailure(t *testing.T) {
	runner := &fakeRunner{
		results: []*exec.Result{{ExitCode: -1}},
		errs:    []error{errors.New("exec: \"pwsh\": executable file not found in $PATH")},
	}
	p := newPowerCLI(runner)
	require.NoError(t, p.Prepare(context.Background()))

	a := p.Deliver(context.Background(), "web01", []string{"0x28"})

	assert.False(t, a.OK())
	assert.Equal(t, -1, a.ExitCode)
	assert.Error(t, a.Err)
}

func TestPowerCLI_DeliverWithoutPrepare(t *testing.T) {
	runner := &fakeRunner{}
	p := newPowerCLI(runner)

	a := p.Deliver(context.Background(), "web01", []string{"0x28"})

	assert.False(t, a.OK())
	assert.True(t, bkerrors.IsCode(a.Err, bkerrors.ErrInterpreter))
	assert.Empty(t, runner.calls)
}
