// Package keystroke sends HID key codes to a VM console with a bounded,
// fixed-delay retry around each delivery.
package keystroke

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/bootkeys/internal/errors"
	"github.com/rileyhilliard/bootkeys/internal/logger"
	"github.com/rileyhilliard/bootkeys/internal/retry"
	"github.com/rileyhilliard/bootkeys/internal/ui"
	"github.com/rileyhilliard/bootkeys/internal/util"
)

const (
	// DefaultRetries is the number of delivery attempts.
	DefaultRetries = 3
	// DefaultDelay separates failed attempts.
	DefaultDelay = 5 * time.Second
)

// Dispatcher delivers keystrokes through a Transport, retrying failures.
// Attempts run strictly one after another on the calling goroutine.
type Dispatcher struct {
	Transport Transport
	Retries   int
	Delay     time.Duration
	Sleep     retry.Sleeper
	Out       *ui.Printer
	Log       logger.Logger
}

// Result lists every attempt made by one Send.
type Result struct {
	Attempts []Attempt
}

// Succeeded reports whether the last attempt was accepted.
func (r *Result) Succeeded() bool {
	if r == nil || len(r.Attempts) == 0 {
		return false
	}
	return r.Attempts[len(r.Attempts)-1].OK()
}

// NewDispatcher returns a Dispatcher with the default retry policy.
func NewDispatcher(t Transport, out *ui.Printer, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		Transport: t,
		Retries:   DefaultRetries,
		Delay:     DefaultDelay,
		Sleep:     time.Sleep,
		Out:       out,
		Log:       log,
	}
}

// Send delivers codes to vmName. It returns nil once an attempt succeeds.
// When every attempt fails the error carries the last attempt's detail.
// The Result is always non-nil and lists the attempts actually made.
func (d *Dispatcher) Send(ctx context.Context, vmName string, codes []string) (*Result, error) {
	res := &Result{}
	log := d.Log
	if log == nil {
		log = logger.Noop()
	}

	if strings.TrimSpace(vmName) == "" {
		return res, errors.New(errors.ErrKeystroke, "No VM name given", "Set vm_name in the tfvars file")
	}
	if len(codes) == 0 {
		return res, errors.New(errors.ErrKeystroke, "No keystrokes to send", "Pass at least one key")
	}
	if d.Retries < 1 {
		return res, errors.New(errors.ErrKeystroke,
			fmt.Sprintf("Retries must be at least 1 (got %d)", d.Retries), "")
	}

	if checker, ok := d.Transport.(CodeChecker); ok {
		if err := checker.CheckCodes(codes); err != nil {
			return res, err
		}
	}

	if err := d.Transport.Prepare(ctx); err != nil {
		if d.Out != nil {
			d.Out.Fail("Cannot send keystrokes")
		}
		return res, err
	}

	var last Attempt
	err := retry.For(d.Retries, d.Delay, d.Sleep, func(n int) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return retry.Stop(ctxErr)
		}

		a := d.Transport.Deliver(ctx, vmName, codes)
		a.Number = n
		res.Attempts = append(res.Attempts, a)
		last = a

		if d.Out != nil {
			d.Out.Raw(a.Stdout)
		}
		if a.OK() {
			log.Debug("attempt %d/%d accepted in %s", n, d.Retries, a.Duration)
			return nil
		}

		d.reportFailure(a)
		if n < d.Retries {
			log.Debug("retrying in %s", d.Delay)
		}
		return a.asError()
	})
	if err == nil {
		return res, nil
	}
	if len(res.Attempts) == 0 {
		// Cancelled before the first attempt
		return res, err
	}

	suggestion := last.Suggestion
	if suggestion == "" {
		suggestion = "The VM console may not be ready yet. Increase boot_menu_wait_seconds or --retries."
	}
	cause := fmt.Errorf("attempt %d: %s", last.Number, last.Detail())
	return res, errors.WrapWithCode(cause, errors.ErrExec,
		fmt.Sprintf("Keystrokes not accepted by %s after %s", vmName, util.Count(len(res.Attempts), "attempt", "attempts")),
		suggestion)
}

func (d *Dispatcher) reportFailure(a Attempt) {
	if d.Out == nil {
		return
	}
	if a.Err != nil {
		d.Out.Warn("Attempt %d/%d error: %s", a.Number, d.Retries, a.Detail())
		return
	}
	d.Out.Fail("Attempt %d/%d failed (exit code %d)", a.Number, d.Retries, a.ExitCode)
	d.Out.Detail(a.Stderr)
}
