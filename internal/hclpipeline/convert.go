package hclpipeline

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
)

// ctyToGo converts an evaluated cty value into plain Go data: strings,
// int64/float64, bools, map[string]any and []any. Integral numbers decode
// as int64 so handlers can switch on a single integer type.
func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return i, nil
		}
		f, _ := bf.Float64()
		return f, nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for name, elem := range val.AsValueMap() {
			decoded, err := ctyToGo(elem)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", name, err)
			}
			out[name] = decoded
		}
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		elems := val.AsValueSlice()
		out := make([]any, len(elems))
		for i, elem := range elems {
			decoded, err := ctyToGo(elem)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = decoded
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
