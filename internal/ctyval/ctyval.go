// Package ctyval converts sampled simulation values to and from cty values,
// the representation used for stored and published frames.
package ctyval

import (
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// FromValue converts a sampled value into a cty.Value. Nil becomes a null
// string, non-finite floats become strings, and lists become tuples.
// Other Go values are converted through their implied cty type.
func FromValue(v any) (cty.Value, error) {
	switch x := v.(type) {
	case nil:
		return cty.NullVal(cty.String), nil
	case cty.Value:
		return x, nil
	case bool:
		return cty.BoolVal(x), nil
	case string:
		return cty.StringVal(x), nil
	case int:
		return cty.NumberIntVal(int64(x)), nil
	case int64:
		return cty.NumberIntVal(x), nil
	case float64:
		return floatVal(x), nil
	case []float64:
		vals := make([]cty.Value, len(x))
		for i, f := range x {
			vals[i] = floatVal(f)
		}
		return tuple(vals), nil
	case [][]float64:
		vals := make([]cty.Value, len(x))
		for i, row := range x {
			v, err := FromValue(row)
			if err != nil {
				return cty.NilVal, err
			}
			vals[i] = v
		}
		return tuple(vals), nil
	case []any:
		vals := make([]cty.Value, len(x))
		for i, item := range x {
			v, err := FromValue(item)
			if err != nil {
				return cty.NilVal, fmt.Errorf("item %d: %w", i, err)
			}
			vals[i] = v
		}
		return tuple(vals), nil
	case map[string]any:
		if len(x) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(x))
		for k, item := range x {
			v, err := FromValue(item)
			if err != nil {
				return cty.NilVal, fmt.Errorf("key %s: %w", k, err)
			}
			attrs[k] = v
		}
		return cty.ObjectVal(attrs), nil
	}

	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}

func floatVal(f float64) cty.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return cty.StringVal(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return cty.NumberFloatVal(f)
}

func tuple(vals []cty.Value) cty.Value {
	if len(vals) == 0 {
		return cty.EmptyTupleVal
	}
	return cty.TupleVal(vals)
}

// ToNative converts a cty.Value back to plain Go values: nil, bool, string,
// float64 (or int64 for integral numbers), []any and map[string]any.
func ToNative(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	ty := v.Type()
	switch {
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			n, err := ToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for k, elem := range v.AsValueMap() {
			n, err := ToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("key %s: %w", k, err)
			}
			out[k] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported cty type %s", ty.FriendlyName())
	}
}

// JSON encodes v together with its type so that it can be decoded again with
// FromJSON.
func JSON(v cty.Value) ([]byte, error) {
	return ctyjson.Marshal(v, cty.DynamicPseudoType)
}

// FromJSON decodes a value written by JSON.
func FromJSON(data []byte) (cty.Value, error) {
	return ctyjson.Unmarshal(data, cty.DynamicPseudoType)
}

// Plain encodes v as ordinary JSON without type information.
func Plain(v cty.Value) ([]byte, error) {
	return ctyjson.Marshal(v, v.Type())
}
