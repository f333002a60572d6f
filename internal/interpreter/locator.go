// Package interpreter finds a PowerShell binary on the host.
package interpreter

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/bootkeys/internal/errors"
	"github.com/rileyhilliard/bootkeys/internal/exec"
	"github.com/rileyhilliard/bootkeys/internal/logger"
)

// DefaultCandidates are tried in order: cross-platform PowerShell 7 first,
// then Windows PowerShell.
var DefaultCandidates = []string{"pwsh", "powershell"}

// VersionArg is passed to each candidate when probing.
const VersionArg = "-v"

// ProbeFunc starts a candidate and reports whether it could be launched.
type ProbeFunc func(name string, args ...string) error

// Locator probes candidate interpreters.
type Locator struct {
	Candidates []string
	Probe      ProbeFunc
	Log        logger.Logger
}

// NewLocator returns a Locator over DefaultCandidates that probes by
// starting real processes.
func NewLocator(log logger.Logger) *Locator {
	if log == nil {
		log = logger.Noop()
	}
	return &Locator{
		Candidates: DefaultCandidates,
		Probe:      exec.Start,
		Log:        log,
	}
}

// Locate returns the first candidate that starts. A candidate that starts
// and then exits non-zero still counts. A missing interpreter won't appear
// between attempts, so there is no retry here.
func (l *Locator) Locate() (string, error) {
	log := l.Log
	if log == nil {
		log = logger.Noop()
	}

	var failures []string
	for _, name := range l.Candidates {
		if err := l.Probe(name, VersionArg); err != nil {
			log.Debug("interpreter %s unavailable: %v", name, err)
			failures = append(failures, name)
			continue
		}
		log.Debug("using interpreter %s", name)
		return name, nil
	}

	return "", errors.New(errors.ErrInterpreter,
		"PowerShell not found",
		fmt.Sprintf("Tried %s. Install PowerShell 7 (pwsh) and make sure it's on PATH.",
			strings.Join(failures, ", ")))
}
