// Package cli implements the bootkeys command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rileyhilliard/bootkeys/internal/config"
	"github.com/rileyhilliard/bootkeys/internal/errors"
	"github.com/rileyhilliard/bootkeys/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newRootCmd builds the bootkeys command. configure, when set, adjusts the
// Driver before it runs.
func newRootCmd(configure func(*Driver)) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "bootkeys [instance.tfvars]",
		Short: "Send boot menu keystrokes to a vSphere VM",
		Long: `Wait for a freshly powered-on vSphere VM to reach its boot menu, then
press a key on its console (ENTER by default).

Variables come from two Terraform tfvars files: the instance file
(the positional argument, default terraform.tfvars) and the shared file
(--shared). Shared values win when both set the same key.

Required variables: vcenter_server, vcenter_username, vcenter_password,
vm_name. Optional: boot_menu_wait_seconds (default 30).

Every flag can also be set through a BOOTKEYS_<FLAG> environment variable,
e.g. BOOTKEYS_RETRIES=5. Set BOOTKEYS_DEBUG=1 for debug logging.`,
		Example: `  bootkeys
  bootkeys web01.tfvars
  bootkeys web01.tfvars --keys down,down,enter --retries 5
  bootkeys web01.tfvars --transport vsphere`,
		Args:          cobra.MaximumNArgs(1),
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var instance string
			if len(args) == 1 {
				instance = args[0]
			}
			opts, err := config.LoadOptions(v, instance)
			if err != nil {
				return err
			}
			ui.ConfigureColors(opts.NoColor)

			d := NewDriver(opts)
			if configure != nil {
				configure(d)
			}
			if err := d.Run(cmd.Context()); err != nil {
				// Already printed by the driver
				return errors.NewExitError(1)
			}
			return nil
		},
	}
	cmd.SetVersionTemplate("bootkeys {{.Version}}\n")

	defaults := config.DefaultOptions()
	flags := cmd.Flags()
	flags.String(config.OptShared, defaults.SharedPath, "shared tfvars file with vCenter credentials")
	flags.String(config.OptScript, defaults.Script, "PowerCLI keystroke script")
	flags.StringSlice(config.OptKeys, defaults.Keys, "keys to send: names (enter, esc, down, f12) or HID codes (0x28)")
	flags.Int(config.OptRetries, defaults.Retries, "delivery attempts")
	flags.Duration(config.OptRetryDelay, defaults.RetryDelay, "delay between attempts")
	flags.String(config.OptTransport, defaults.Transport, "keystroke transport: powercli or vsphere")
	flags.Bool(config.OptInsecure, defaults.Insecure, "skip vCenter certificate verification (vsphere transport)")
	flags.Bool(config.OptNoColor, false, "disable colored output")
	flags.Bool(config.OptPromptPassword, false, "prompt for vcenter_password when the tfvars files don't set it")

	config.SetDefaults(v)
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cmd := newRootCmd(nil)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		if code, ok := errors.GetExitCode(err); ok {
			os.Exit(code)
		}
		fmt.Fprint(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

// formatError makes sure plain errors (cobra's argument errors) end with a
// newline like structured ones do.
func formatError(err error) string {
	msg := err.Error()
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	return msg
}
