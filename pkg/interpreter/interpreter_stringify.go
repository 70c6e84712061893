package interpreter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pviafore/CraftingInterpreters/pkg/runtime"
)

func stringify(val runtime.Value) string {
	switch v := val.(type) {
	case nil, runtime.NilValue:
		return "nil"
	case runtime.BoolValue:
		return strconv.FormatBool(v.Val)
	case runtime.NumberValue:
		return formatNumber(v.Val)
	case runtime.StringValue:
		return v.Val
	case *runtime.ListValue:
		parts := make([]string, 0, len(v.Elements))
		for _, el := range v.Elements {
			if s, ok := el.(runtime.StringValue); ok {
				parts = append(parts, `"`+s.Val+`"`)
				continue
			}
			parts = append(parts, stringify(el))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *runtime.FunctionValue:
		return functionName(v)
	case runtime.BoundMethodValue:
		return functionName(v.Method)
	case runtime.NativeFunctionValue:
		return fmt.Sprintf("<native fn %s>", v.Name)
	case runtime.NativeBoundMethodValue:
		return fmt.Sprintf("<native fn %s>", v.Method.Name)
	case *runtime.ClassValue:
		return v.Name
	case *runtime.InstanceValue:
		return v.Class.Name + " instance"
	default:
		return fmt.Sprintf("[%s]", v.Kind())
	}
}

func functionName(fn *runtime.FunctionValue) string {
	if fn.Name == "" {
		return "<fn>"
	}
	return fmt.Sprintf("<fn %s>", fn.Name)
}

func formatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case math.IsNaN(n):
		return "NaN"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
