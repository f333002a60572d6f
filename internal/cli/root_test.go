package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/bootkeys/internal/config"
	bkerrors "github.com/rileyhilliard/bootkeys/internal/errors"
	"github.com/rileyhilliard/bootkeys/internal/keystroke"
	kstesting "github.com/rileyhilliard/bootkeys/internal/keystroke/testing"
	"github.com/rileyhilliard/bootkeys/internal/logger"
	"github.com/rileyhilliard/bootkeys/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRoot executes the root command with args against a fake transport and
// returns the driver it ran.
func runRoot(t *testing.T, ft *kstesting.FakeTransport, args ...string) (*Driver, *bytes.Buffer, error) {
	t.Helper()
	var out bytes.Buffer
	var ran *Driver

	cmd := newRootCmd(func(d *Driver) {
		ui.DisableColors()
		d.Out = ui.NewPrinter(&out)
		d.Log = logger.Noop()
		d.Sleep = func(time.Duration) {}
		d.Interactive = false
		d.NewTransport = func(*config.Options, *config.Settings, logger.Logger) keystroke.Transport {
			return ft
		}
		ran = d
	})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return ran, &out, err
}

func varsDir(t *testing.T) (instance, shared string) {
	t.Helper()
	dir := t.TempDir()
	instance = writeVars(t, dir, "web01.tfvars", "vm_name = \"web01\"\nboot_menu_wait_seconds = 5\n")
	shared = writeVars(t, dir, "terraform.tfvars", sharedVars)
	return instance, shared
}

func TestRoot_PositionalInstanceAndShared(t *testing.T) {
	instance, shared := varsDir(t)
	ft := kstesting.NewFakeTransport()

	d, out, err := runRoot(t, ft, instance, "--shared", shared)

	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, instance, d.Opts.InstancePath)
	assert.Equal(t, shared, d.Opts.SharedPath)
	require.Len(t, ft.DeliverCalls, 1)
	assert.Equal(t, "web01", ft.DeliverCalls[0].VMName)
	assert.Equal(t, []string{"0x28"}, ft.DeliverCalls[0].Codes)
	assert.Contains(t, out.String(), "Sending ENTER to web01")
}

func TestRoot_DefaultOptions(t *testing.T) {
	instance, shared := varsDir(t)

	d, _, err := runRoot(t, kstesting.NewFakeTransport(), instance, "--shared", shared)

	require.NoError(t, err)
	assert.Equal(t, 3, d.Opts.Retries)
	assert.Equal(t, 5*time.Second, d.Opts.RetryDelay)
	assert.Equal(t, []string{"enter"}, d.Opts.Keys)
	assert.Equal(t, config.TransportPowerCLI, d.Opts.Transport)
	assert.True(t, d.Opts.Insecure)
}

func TestRoot_Flags(t *testing.T) {
	instance, shared := varsDir(t)
	ft := kstesting.NewFakeTransport()

	d, _, err := runRoot(t, ft, instance,
		"--shared", shared,
		"--keys", "down,enter",
		"--retries", "5",
		"--retry-delay", "2s",
		"--transport", "vsphere",
		"--insecure=false",
		"--script", "/tmp/custom.ps1",
	)

	require.NoError(t, err)
	assert.Equal(t, 5, d.Opts.Retries)
	assert.Equal(t, 2*time.Second, d.Opts.RetryDelay)
	assert.Equal(t, config.TransportVSphere, d.Opts.Transport)
	assert.False(t, d.Opts.Insecure)
	assert.Equal(t, "/tmp/custom.ps1", d.Opts.Script)
	assert.Equal(t, []string{"0x51", "0x28"}, ft.DeliverCalls[0].Codes)
}

func TestRoot_EnvironmentOverrides(t *testing.T) {
	instance, shared := varsDir(t)
	t.Setenv("BOOTKEYS_SHARED", shared)
	t.Setenv("BOOTKEYS_RETRIES", "4")
	t.Setenv("BOOTKEYS_RETRY_DELAY", "250ms")

	d, _, err := runRoot(t, kstesting.NewFakeTransport(), instance)

	require.NoError(t, err)
	assert.Equal(t, shared, d.Opts.SharedPath)
	assert.Equal(t, 4, d.Opts.Retries)
	assert.Equal(t, 250*time.Millisecond, d.Opts.RetryDelay)
}

func TestRoot_FlagBeatsEnvironment(t *testing.T) {
	instance, shared := varsDir(t)
	t.Setenv("BOOTKEYS_RETRIES", "4")

	d, _, err := runRoot(t, kstesting.NewFakeTransport(), instance, "--shared", shared, "--retries", "2")

	require.NoError(t, err)
	assert.Equal(t, 2, d.Opts.Retries)
}

func TestRoot_FailureExitsOne(t *testing.T) {
	instance, shared := varsDir(t)
	ft := kstesting.AlwaysFail("console not attached")

	_, out, err := runRoot(t, ft, instance, "--shared", shared)

	require.Error(t, err)
	code, ok := bkerrors.GetExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 1, code)
	assert.Equal(t, 3, ft.Calls())
	assert.Contains(t, out.String(), "Keystrokes not accepted by web01 after 3 attempts")
}

func TestRoot_ConfigErrorExitsOne(t *testing.T) {
	dir := t.TempDir()
	instance := writeVars(t, dir, "web01.tfvars", "vm_name = \"web01\"\n")
	missing := filepath.Join(dir, "missing.tfvars")

	_, out, err := runRoot(t, kstesting.NewFakeTransport(), instance, "--shared", missing)

	require.Error(t, err)
	code, ok := bkerrors.GetExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "Missing required variables: vcenter_server, vcenter_username, vcenter_password")
}

func TestRoot_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "zero retries", args: []string{"--retries", "0"}},
		{name: "unknown transport", args: []string{"--transport", "ssh"}},
		{name: "negative delay", args: []string{"--retry-delay", "-1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, err := runRoot(t, kstesting.NewFakeTransport(), tt.args...)

			require.Error(t, err)
			assert.True(t, bkerrors.IsCode(err, bkerrors.ErrConfig))
			assert.Nil(t, d, "driver never runs")
		})
	}
}

func TestRoot_TooManyArgs(t *testing.T) {
	d, _, err := runRoot(t, kstesting.NewFakeTransport(), "a.tfvars", "b.tfvars")

	require.Error(t, err)
	assert.Nil(t, d)
}

func TestRoot_Version(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	defer SetVersionInfo(origVersion, origCommit, origDate)
	SetVersionInfo("1.2.3", "abc1234", "2025-01-08T12:00:00Z")

	d, out, err := runRoot(t, kstesting.NewFakeTransport(), "--version")

	require.NoError(t, err)
	assert.Nil(t, d)
	assert.Contains(t, out.String(), "bootkeys v1.2.3")
	assert.Contains(t, out.String(), "commit: abc1234")
	assert.Contains(t, out.String(), "built: 2025-01-08T12:00:00Z")
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"dev", "dev"},
		{"", ""},
		{"1.0.0", "v1.0.0"},
		{"v1.0.0", "v1.0.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatVersion(tt.in))
	}
	assert.Equal(t, GetVersion(), version)
}
