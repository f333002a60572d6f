package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rileyhilliard/bootkeys/internal/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides of tool options
// (BOOTKEYS_RETRIES, BOOTKEYS_SCRIPT, ...).
const EnvPrefix = "BOOTKEYS"

// Option keys. They double as flag names.
const (
	OptShared         = "shared"
	OptScript         = "script"
	OptKeys           = "keys"
	OptRetries        = "retries"
	OptRetryDelay     = "retry-delay"
	OptTransport      = "transport"
	OptInsecure       = "insecure"
	OptNoColor        = "no-color"
	OptPromptPassword = "prompt-password"
)

// Transports understood by the dispatcher.
const (
	TransportPowerCLI = "powercli"
	TransportVSphere  = "vsphere"
)

// ScriptFileName is the automation script looked up next to the executable.
const ScriptFileName = "vm_keystrokes.ps1"

// Options are the tool's own settings, as opposed to the tfvars Vars that
// describe the target VM.
type Options struct {
	InstancePath   string
	SharedPath     string
	Script         string
	Keys           []string
	Retries        int
	RetryDelay     time.Duration
	Transport      string
	Insecure       bool
	NoColor        bool
	PromptPassword bool
}

// DefaultOptions returns the options used when nothing is overridden.
func DefaultOptions() *Options {
	return &Options{
		InstancePath: DefaultInstanceFile,
		SharedPath:   DefaultSharedFile,
		Script:       DefaultScriptPath(),
		Keys:         []string{"enter"},
		Retries:      3,
		RetryDelay:   5 * time.Second,
		Transport:    TransportPowerCLI,
		Insecure:     true,
	}
}

// SetDefaults registers DefaultOptions on v so flags and environment
// variables only need to carry overrides.
func SetDefaults(v *viper.Viper) {
	d := DefaultOptions()
	v.SetDefault(OptShared, d.SharedPath)
	v.SetDefault(OptScript, d.Script)
	v.SetDefault(OptKeys, d.Keys)
	v.SetDefault(OptRetries, d.Retries)
	v.SetDefault(OptRetryDelay, d.RetryDelay)
	v.SetDefault(OptTransport, d.Transport)
	v.SetDefault(OptInsecure, d.Insecure)
	v.SetDefault(OptNoColor, false)
	v.SetDefault(OptPromptPassword, false)
}

// LoadOptions reads Options from v and validates them. instancePath is the
// optional positional argument; empty means DefaultInstanceFile.
func LoadOptions(v *viper.Viper, instancePath string) (*Options, error) {
	opts := &Options{
		InstancePath:   instancePath,
		SharedPath:     v.GetString(OptShared),
		Script:         v.GetString(OptScript),
		Keys:           v.GetStringSlice(OptKeys),
		Retries:        v.GetInt(OptRetries),
		RetryDelay:     v.GetDuration(OptRetryDelay),
		Transport:      strings.ToLower(strings.TrimSpace(v.GetString(OptTransport))),
		Insecure:       v.GetBool(OptInsecure),
		NoColor:        v.GetBool(OptNoColor),
		PromptPassword: v.GetBool(OptPromptPassword),
	}
	if opts.InstancePath == "" {
		opts.InstancePath = DefaultInstanceFile
	}
	if opts.SharedPath == "" {
		opts.SharedPath = DefaultSharedFile
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Validate checks option values that cannot be caught by flag parsing.
func (o *Options) Validate() error {
	if o.Retries < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("--retries must be at least 1 (got %d)", o.Retries),
			"Use --retries 1 for a single attempt")
	}
	if o.RetryDelay < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("--retry-delay cannot be negative (got %s)", o.RetryDelay),
			"Try something like 5s or 500ms.")
	}
	if len(o.Keys) == 0 {
		return errors.New(errors.ErrConfig,
			"No keys to send",
			"Pass key names or HID codes with --keys, e.g. --keys enter or --keys 0x28")
	}
	switch o.Transport {
	case TransportPowerCLI, TransportVSphere:
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown transport %q", o.Transport),
			fmt.Sprintf("Use %q or %q", TransportPowerCLI, TransportVSphere))
	}
	return nil
}

// DefaultScriptPath returns vm_keystrokes.ps1 in the executable's directory,
// falling back to the working directory when the executable can't be found.
func DefaultScriptPath() string {
	exe, err := os.Executable()
	if err != nil {
		return ScriptFileName
	}
	return filepath.Join(filepath.Dir(exe), ScriptFileName)
}
