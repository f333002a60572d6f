package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rileyhilliard/bootkeys/internal/errors"
)

// Variable names read from the tfvars files.
const (
	KeyVCenterServer   = "vcenter_server"
	KeyVCenterUsername = "vcenter_username"
	KeyVCenterPassword = "vcenter_password"
	KeyVMName          = "vm_name"
	KeyBootMenuWait    = "boot_menu_wait_seconds"
)

// DefaultBootMenuWait applies when boot_menu_wait_seconds is not set.
const DefaultBootMenuWait = 30 * time.Second

// maxBootMenuWaitSeconds is the longest wait a time.Duration can hold.
var maxBootMenuWaitSeconds = math.Floor(float64(math.MaxInt64) / float64(time.Second))

// RequiredKeys must all be present after the merge.
var RequiredKeys = []string{
	KeyVCenterServer,
	KeyVCenterUsername,
	KeyVCenterPassword,
	KeyVMName,
}

// Settings is the typed view of the merged variables.
type Settings struct {
	VCenterServer   string
	VCenterUsername string
	VCenterPassword string
	VMName          string
	BootMenuWait    time.Duration
}

// ParseSettings validates vars and extracts Settings. All missing required
// variables are reported in a single error.
func ParseSettings(vars Vars) (*Settings, error) {
	var missing []string
	for _, key := range RequiredKeys {
		s, ok := vars[key].(string)
		if !vars.Has(key) || (ok && strings.TrimSpace(s) == "") {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, errors.New(errors.ErrConfig,
			"Missing required variables: "+strings.Join(missing, ", "),
			"Define them in the instance tfvars file or the shared terraform.tfvars")
	}

	s := &Settings{}
	fields := []struct {
		key string
		dst *string
	}{
		{KeyVCenterServer, &s.VCenterServer},
		{KeyVCenterUsername, &s.VCenterUsername},
		{KeyVCenterPassword, &s.VCenterPassword},
		{KeyVMName, &s.VMName},
	}
	for _, f := range fields {
		val, err := vars.String(f.key)
		if err != nil {
			return nil, err
		}
		*f.dst = val
	}

	wait, err := vars.Number(KeyBootMenuWait, DefaultBootMenuWait.Seconds())
	if err != nil {
		return nil, err
	}
	if wait < 0 {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("%s cannot be negative (got %v)", KeyBootMenuWait, wait),
			"Use 0 to skip the wait")
	}
	if wait > maxBootMenuWaitSeconds {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("%s is too large (got %v)", KeyBootMenuWait, wait),
			fmt.Sprintf("Use at most %.0f seconds", maxBootMenuWaitSeconds))
	}
	s.BootMenuWait = time.Duration(wait * float64(time.Second))

	return s, nil
}
