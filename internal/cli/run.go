package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rileyhilliard/bootkeys/internal/config"
	"github.com/rileyhilliard/bootkeys/internal/errors"
	"github.com/rileyhilliard/bootkeys/internal/exec"
	"github.com/rileyhilliard/bootkeys/internal/interpreter"
	"github.com/rileyhilliard/bootkeys/internal/keystroke"
	"github.com/rileyhilliard/bootkeys/internal/logger"
	"github.com/rileyhilliard/bootkeys/internal/retry"
	"github.com/rileyhilliard/bootkeys/internal/ui"
	"github.com/rileyhilliard/bootkeys/internal/util"
)

// TransportFactory builds the keystroke transport for a run.
type TransportFactory func(opts *config.Options, s *config.Settings, log logger.Logger) keystroke.Transport

// Driver runs one boot-menu session: load vars, wait for the boot menu,
// send the keys. Fields other than Opts are optional and default to the
// real terminal, clock and transports.
type Driver struct {
	Opts *config.Options
	Out  *ui.Printer
	Log  logger.Logger

	// Sleep is used for the boot menu wait and between attempts.
	Sleep retry.Sleeper
	// Interactive enables the countdown spinner and password prompt.
	Interactive bool

	NewTransport   TransportFactory
	PromptPassword func() (string, error)
}

// NewDriver returns a Driver wired to stdout and the real transports.
func NewDriver(opts *config.Options) *Driver {
	return &Driver{
		Opts:           opts,
		Out:            ui.NewPrinter(os.Stdout),
		Log:            logger.NewEnvLogger("[bootkeys]"),
		Sleep:          time.Sleep,
		Interactive:    ui.IsTerminal(os.Stdin) && ui.IsTerminal(os.Stdout),
		NewTransport:   NewTransport,
		PromptPassword: promptPassword,
	}
}

// NewTransport builds the transport named by opts.Transport.
func NewTransport(opts *config.Options, s *config.Settings, log logger.Logger) keystroke.Transport {
	if opts.Transport == config.TransportVSphere {
		return &keystroke.VSphere{
			Server:   s.VCenterServer,
			Username: s.VCenterUsername,
			Password: s.VCenterPassword,
			Insecure: opts.Insecure,
			Log:      log,
		}
	}
	return &keystroke.PowerCLI{
		Locator:  interpreter.NewLocator(log),
		Runner:   exec.NewLocalRunner(),
		Script:   opts.Script,
		Server:   s.VCenterServer,
		Username: s.VCenterUsername,
		Password: s.VCenterPassword,
	}
}

// Run executes the session. Failures are printed before they are returned.
func (d *Driver) Run(ctx context.Context) error {
	err := d.run(ctx)
	if err != nil {
		d.Out.Error(err)
	}
	return err
}

func (d *Driver) run(ctx context.Context) error {
	opts := d.Opts
	log := d.Log
	if log == nil {
		log = logger.Noop()
	}
	sleep := d.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	d.Out.Step("Loading instance vars from %s", opts.InstancePath)
	d.Out.Step("Loading shared vars from %s", opts.SharedPath)
	vars, err := config.Resolve(opts.InstancePath, opts.SharedPath, log)
	if err != nil {
		return err
	}
	d.Out.Detail("Combined keys: " + util.JoinOrNone(vars.Keys()))

	if opts.PromptPassword {
		if err := d.fillPassword(vars); err != nil {
			return err
		}
	}

	settings, err := config.ParseSettings(vars)
	if err != nil {
		return err
	}

	factory := d.NewTransport
	if factory == nil {
		factory = NewTransport
	}
	dispatcher := keystroke.NewDispatcher(factory(opts, settings, log), d.Out, log)
	dispatcher.Retries = opts.Retries
	dispatcher.Delay = opts.RetryDelay
	dispatcher.Sleep = sleep

	d.waitForBootMenu(settings.BootMenuWait, sleep)

	codes := keystroke.ResolveKeys(opts.Keys)
	d.Out.Send("Sending %s to %s", keyLabel(opts.Keys), settings.VMName)
	log.Debug("HID codes: %s", strings.Join(codes, " "))

	if _, err := dispatcher.Send(ctx, settings.VMName, codes); err != nil {
		return err
	}
	d.Out.Success("Keystrokes sent to %s", settings.VMName)
	return nil
}

func (d *Driver) waitForBootMenu(wait time.Duration, sleep retry.Sleeper) {
	label := fmt.Sprintf("Waiting %g seconds for boot menu", wait.Seconds())
	if !d.Interactive || wait <= 0 {
		d.Out.Step("%s", label)
		sleep(wait)
		return
	}

	sp := ui.NewSpinner(label)
	w := d.Out.Writer()
	sp.SetOutput(func(s string) { fmt.Fprint(w, s) })
	ui.Countdown(sp, label, wait, time.Second, sleep)
}

// fillPassword asks for vcenter_password when the tfvars files leave it
// out. Without a terminal there is nobody to ask, so the later validation
// reports the key as missing.
func (d *Driver) fillPassword(vars config.Vars) error {
	if pw, _ := vars.String(config.KeyVCenterPassword); strings.TrimSpace(pw) != "" {
		return nil
	}
	if !d.Interactive || d.PromptPassword == nil {
		return nil
	}
	pw, err := d.PromptPassword()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read the vCenter password",
			"Set vcenter_password in the shared tfvars file instead")
	}
	vars[config.KeyVCenterPassword] = pw
	return nil
}

// keyLabel renders key tokens for the operator, e.g. "ENTER" or
// "DOWN DOWN ENTER".
func keyLabel(keys []string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			parts = append(parts, strings.ToUpper(k))
		}
	}
	return strings.Join(parts, " ")
}
