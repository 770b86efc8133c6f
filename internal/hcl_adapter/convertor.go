package hcl_adapter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/pdeconf/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// exprText evaluates an attribute without variables and returns the
// expression text it stands for.
func exprText(expr hcl.Expression) (string, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	return valueText(val)
}

// isExprDefined reports whether an optional attribute was written in the
// source. Omitted optional attributes decode to zero-width expressions.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}

// valueText renders a cty value as arithmetic expression text.
func valueText(val cty.Value) (string, error) {
	if !val.IsKnown() {
		return "", fmt.Errorf("value is not known")
	}
	if val.IsNull() {
		return "None", nil
	}
	ty := val.Type()
	switch {
	case ty == cty.Bool:
		if val.True() {
			return "True", nil
		}
		return "False", nil
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Number:
		s, err := convert.Convert(val, cty.String)
		if err != nil {
			return "", err
		}
		return s.AsString(), nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var parts []string
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			s, err := valueText(elem)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "[" + strings.Join(parts, ",") + "]", nil
	default:
		return "", fmt.Errorf("cannot use a %s as an expression", ty.FriendlyName())
	}
}

// isMarkerMap reports whether val holds one entry per boundary marker.
func isMarkerMap(val cty.Value) bool {
	ty := val.Type()
	return !val.IsNull() && (ty.IsObjectType() || ty.IsMapType())
}

// sectionEntries flattens a block of expression attributes. Object values are
// expanded to name/marker keys.
func sectionEntries(body hcl.Body) (config.Section, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	out := make(config.Section, len(attrs))
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		attr := attrs[name]
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("attribute %s: %w", name, diags)
		}
		if !isMarkerMap(val) {
			s, err := valueText(val)
			if err != nil {
				return nil, fmt.Errorf("%s: attribute %s: %w", attr.Range, name, err)
			}
			out[name] = s
			continue
		}
		for marker, mv := range val.AsValueMap() {
			s, err := valueText(mv)
			if err != nil {
				return nil, fmt.Errorf("%s: attribute %s, marker %s: %w", attr.Range, name, marker, err)
			}
			out[config.EntryKey(name, marker)] = s
		}
	}
	return out, nil
}
