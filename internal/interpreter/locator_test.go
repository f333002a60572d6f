package interpreter

import (
	"fmt"
	"testing"

	"github.com/rileyhilliard/bootkeys/internal/errors"
	"github.com/rileyhilliard/bootkeys/internal/exec"
	"github.com/rileyhilliard/bootkeys/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProbe succeeds only for names in available and records every call.
type fakeProbe struct {
	available map[string]bool
	calls     [][]string
}

func (f *fakeProbe) probe(name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.available[name] {
		return nil
	}
	return fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

func TestLocate_FirstCandidateWins(t *testing.T) {
	fp := &fakeProbe{available: map[string]bool{"pwsh": true, "powershell": true}}
	l := &Locator{Candidates: DefaultCandidates, Probe: fp.probe}

	got, err := l.Locate()

	require.NoError(t, err)
	assert.Equal(t, "pwsh", got)
	assert.Equal(t, [][]string{{"pwsh", "-v"}}, fp.calls, "stops probing after the first hit")
}

func TestLocate_FallsBackToSecondCandidate(t *testing.T) {
	fp := &fakeProbe{available: map[string]bool{"powershell": true}}
	l := &Locator{Candidates: DefaultCandidates, Probe: fp.probe}

	got, err := l.Locate()

	require.NoError(t, err)
	assert.Equal(t, "powershell", got)
	assert.Len(t, fp.calls, 2)
}

func TestLocate_NoneAvailable(t *testing.T) {
	fp := &fakeProbe{}
	log := logger.NewBufferLogger()
	l := &Locator{Candidates: DefaultCandidates, Probe: fp.probe, Log: log}

	got, err := l.Locate()

	require.Error(t, err)
	assert.Empty(t, got)
	assert.True(t, errors.IsCode(err, errors.ErrInterpreter))
	assert.Contains(t, err.Error(), "pwsh, powershell")
	assert.True(t, log.HasLevel("debug"))
}

func TestLocate_EmptyCandidates(t *testing.T) {
	l := &Locator{Probe: (&fakeProbe{}).probe}

	_, err := l.Locate()

	assert.True(t, errors.IsCode(err, errors.ErrInterpreter))
}

func TestLocate_RealProcesses(t *testing.T) {
	// "true" ignores its arguments and exits 0 on every POSIX host.
	l := &Locator{
		Candidates: []string{"bootkeys_missing_interpreter_xyz", "true"},
		Probe:      exec.Start,
	}

	got, err := l.Locate()

	require.NoError(t, err)
	assert.Equal(t, "true", got)
}

func TestLocate_NonZeroExitStillCounts(t *testing.T) {
	l := &Locator{Candidates: []string{"false"}, Probe: exec.Start}

	got, err := l.Locate()

	require.NoError(t, err)
	assert.Equal(t, "false", got)
}

func TestNewLocator(t *testing.T) {
	l := NewLocator(nil)

	assert.Equal(t, []string{"pwsh", "powershell"}, l.Candidates)
	assert.NotNil(t, l.Probe)
	assert.NotNil(t, l.Log)
}
