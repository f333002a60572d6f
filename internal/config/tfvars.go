package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rileyhilliard/bootkeys/internal/errors"
	"github.com/rileyhilliard/bootkeys/internal/logger"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// LoadVars reads the top-level attributes of a Terraform variables file.
//
// Files ending in .json use the HCL JSON syntax (terraform.tfvars.json),
// everything else the native HCL syntax. A path that does not exist, or
// that names a directory, yields an empty Vars and a warning: the other
// source may still supply everything needed.
func LoadVars(path string, log logger.Logger) (Vars, error) {
	if log == nil {
		log = logger.Noop()
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access tfvars file: "+path,
				"Check file permissions")
		}
		log.Warn("tfvars file not found: %s", path)
		return Vars{}, nil
	}

	parser := hclparse.NewParser()
	var file *hcl.File
	var diags hcl.Diagnostics
	if strings.HasSuffix(path, ".json") {
		file, diags = parser.ParseJSONFile(path)
	} else {
		file, diags = parser.ParseHCLFile(path)
	}
	if diags.HasErrors() {
		return nil, errors.WrapWithCode(diags, errors.ErrConfig,
			"Failed to parse tfvars file "+path,
			"Check the HCL syntax; a tfvars file holds only name = value assignments")
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, errors.WrapWithCode(diags, errors.ErrConfig,
			"Unexpected block in tfvars file "+path,
			"Only top-level name = value assignments are supported")
	}

	vars := make(Vars, len(attrs))
	for name, attr := range attrs {
		val, valDiags := attr.Expr.Value(nil)
		if valDiags.HasErrors() {
			return nil, errors.WrapWithCode(valDiags, errors.ErrConfig,
				fmt.Sprintf("Cannot evaluate %q in %s", name, path),
				"tfvars values must be literals; variables and functions are not available here")
		}
		native, convErr := ctyToNative(val)
		if convErr != nil {
			return nil, errors.WrapWithCode(convErr, errors.ErrConfig,
				fmt.Sprintf("Unsupported value for %q in %s", name, path),
				"")
		}
		vars[name] = native
	}

	log.Debug("loaded %d variables from %s", len(vars), path)
	return vars, nil
}

// ctyToNative converts a cty.Value to plain Go: string, float64, bool,
// []any or map[string]any. Null and unknown values become nil.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in %q: %w", key.AsString(), err)
			}
			out[key.AsString()] = native
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported type %s", ty.FriendlyName())
	}
}
