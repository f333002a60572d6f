package config

import (
	"fmt"
	"sort"

	"github.com/rileyhilliard/bootkeys/internal/errors"
	"github.com/rileyhilliard/bootkeys/internal/logger"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

const (
	// DefaultInstanceFile is used when no instance path is given.
	DefaultInstanceFile = "terraform.tfvars"
	// DefaultSharedFile is the shared variables file read on every run.
	DefaultSharedFile = "terraform.tfvars"
)

// Vars is a merged set of tfvars values keyed by variable name.
type Vars map[string]any

// Resolve loads the instance file, then the shared file, and merges them.
//
// Shared values overwrite instance values for the same key.
func Resolve(instancePath, sharedPath string, log logger.Logger) (Vars, error) {
	merged, err := LoadVars(instancePath, log)
	if err != nil {
		return nil, err
	}

	shared, err := LoadVars(sharedPath, log)
	if err != nil {
		return nil, err
	}

	for k, v := range shared {
		merged[k] = v
	}
	return merged, nil
}

// Keys returns the variable names in sorted order.
func (v Vars) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is present with a non-nil value.
func (v Vars) Has(key string) bool {
	val, ok := v[key]
	return ok && val != nil
}

// String returns the string value of key.
func (v Vars) String(key string) (string, error) {
	val, ok := v[key]
	if !ok || val == nil {
		return "", errors.New(errors.ErrConfig,
			fmt.Sprintf("Variable %q is not set", key),
			"Define it in the instance or shared tfvars file")
	}
	s, ok := val.(string)
	if !ok {
		return "", errors.New(errors.ErrConfig,
			fmt.Sprintf("Variable %q must be a string, got %T", key, val),
			fmt.Sprintf(`Quote the value: %s = "..."`, key))
	}
	return s, nil
}

// Number returns the numeric value of key, or def when key is absent.
// Numeric strings are accepted the same way Terraform converts them.
func (v Vars) Number(key string, def float64) (float64, error) {
	val, ok := v[key]
	if !ok || val == nil {
		return def, nil
	}

	switch n := val.(type) {
	case float64:
		return n, nil
	case string:
		converted, err := convert.Convert(cty.StringVal(n), cty.Number)
		if err != nil {
			return 0, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Variable %q is not a number: %q", key, n),
				fmt.Sprintf("Use a plain number, e.g. %s = 30", key))
		}
		f, _ := converted.AsBigFloat().Float64()
		return f, nil
	default:
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("Variable %q must be a number, got %T", key, val),
			fmt.Sprintf("Use a plain number, e.g. %s = 30", key))
	}
}
