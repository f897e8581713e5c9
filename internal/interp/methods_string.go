package interp

import (
	"math"
	"strings"

	"github.com/cwbudde/go-jsvm/internal/runtime"
)

// stringMember dispatches String.prototype methods on a string receiver.
func (i *Interpreter) stringMember(s *runtime.StringValue, key string) (runtime.Value, error) {
	str := s.Value
	method := func(name string, fn runtime.NativeHandler) (runtime.Value, error) {
		return i.newNative(name, fn), nil
	}

	switch key {
	case "charAt":
		return method("charAt", func(args runtime.FunctionArgs) (runtime.Value, error) {
			idx := int(runtime.ToNumber(args.Arg(0)))
			runes := []rune(str)
			if idx < 0 || idx >= len(runes) {
				return runtime.NewString(""), nil
			}
			return runtime.NewString(string(runes[idx])), nil
		})
	case "charCodeAt":
		return method("charCodeAt", func(args runtime.FunctionArgs) (runtime.Value, error) {
			idx := int(runtime.ToNumber(args.Arg(0)))
			runes := []rune(str)
			if idx < 0 || idx >= len(runes) {
				return runtime.NewNumber(math.NaN()), nil
			}
			return runtime.NewNumber(float64(runes[idx])), nil
		})
	case "codePointAt":
		return method("codePointAt", func(args runtime.FunctionArgs) (runtime.Value, error) {
			idx := int(runtime.ToNumber(args.Arg(0)))
			runes := []rune(str)
			if idx < 0 || idx >= len(runes) {
				return runtime.Undefined, nil
			}
			return runtime.NewNumber(float64(runes[idx])), nil
		})
	case "indexOf":
		return method("indexOf", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewNumber(float64(strings.Index(str, runtime.ToString(args.Arg(0))))), nil
		})
	case "lastIndexOf":
		return method("lastIndexOf", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewNumber(float64(strings.LastIndex(str, runtime.ToString(args.Arg(0))))), nil
		})
	case "includes":
		return method("includes", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewBoolean(strings.Contains(str, runtime.ToString(args.Arg(0)))), nil
		})
	case "startsWith":
		return method("startsWith", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewBoolean(strings.HasPrefix(str, runtime.ToString(args.Arg(0)))), nil
		})
	case "endsWith":
		return method("endsWith", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewBoolean(strings.HasSuffix(str, runtime.ToString(args.Arg(0)))), nil
		})
	case "slice":
		return method("slice", func(args runtime.FunctionArgs) (runtime.Value, error) {
			runes := []rune(str)
			start, end := sliceBounds(args, len(runes))
			if start >= end {
				return runtime.NewString(""), nil
			}
			return runtime.NewString(string(runes[start:end])), nil
		})
	case "substring":
		return method("substring", func(args runtime.FunctionArgs) (runtime.Value, error) {
			runes := []rune(str)
			start, end := sliceBounds(args, len(runes))
			if start > end {
				start, end = end, start
			}
			return runtime.NewString(string(runes[start:end])), nil
		})
	case "toUpperCase":
		return method("toUpperCase", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewString(strings.ToUpper(str)), nil
		})
	case "toLowerCase":
		return method("toLowerCase", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewString(strings.ToLower(str)), nil
		})
	case "trim":
		return method("trim", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewString(strings.TrimSpace(str)), nil
		})
	case "trimStart":
		return method("trimStart", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewString(strings.TrimLeft(str, " \t\n\r")), nil
		})
	case "trimEnd":
		return method("trimEnd", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewString(strings.TrimRight(str, " \t\n\r")), nil
		})
	case "split":
		return method("split", func(args runtime.FunctionArgs) (runtime.Value, error) {
			sep := args.Arg(0)
			if re, ok := sep.(*runtime.RegExpValue); ok {
				parts := re.Split(str)
				arr := i.newArray()
				for _, part := range parts {
					arr.Push(runtime.NewString(part))
				}
				return arr, nil
			}
			if _, isUndef := sep.(*runtime.UndefinedValue); isUndef {
				return i.newArray(runtime.NewString(str)), nil
			}
			parts := strings.Split(str, runtime.ToString(sep))
			arr := i.newArray()
			for _, part := range parts {
				arr.Push(runtime.NewString(part))
			}
			return arr, nil
		})
	case "replace":
		return method("replace", func(args runtime.FunctionArgs) (runtime.Value, error) {
			if re, ok := args.Arg(0).(*runtime.RegExpValue); ok {
				return runtime.NewString(re.ReplaceAll(str, runtime.ToString(args.Arg(1)))), nil
			}
			search := runtime.ToString(args.Arg(0))
			repl := runtime.ToString(args.Arg(1))
			return runtime.NewString(strings.Replace(str, search, repl, 1)), nil
		})
	case "replaceAll":
		return method("replaceAll", func(args runtime.FunctionArgs) (runtime.Value, error) {
			search := runtime.ToString(args.Arg(0))
			repl := runtime.ToString(args.Arg(1))
			return runtime.NewString(strings.ReplaceAll(str, search, repl)), nil
		})
	case "repeat":
		return method("repeat", func(args runtime.FunctionArgs) (runtime.Value, error) {
			n := int(runtime.ToNumber(args.Arg(0)))
			if n < 0 {
				return nil, runtime.NewThrownError(i.makeErrorObject("RangeError", "Invalid count value"))
			}
			return runtime.NewString(strings.Repeat(str, n)), nil
		})
	case "padStart":
		return method("padStart", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewString(pad(str, args, true)), nil
		})
	case "padEnd":
		return method("padEnd", func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewString(pad(str, args, false)), nil
		})
	case "concat":
		return method("concat", func(args runtime.FunctionArgs) (runtime.Value, error) {
			out := str
			for _, a := range args.Args {
				out += runtime.ToString(a)
			}
			return runtime.NewString(out), nil
		})
	case "at":
		return method("at", func(args runtime.FunctionArgs) (runtime.Value, error) {
			runes := []rune(str)
			idx := int(runtime.ToNumber(args.Arg(0)))
			if idx < 0 {
				idx += len(runes)
			}
			if idx < 0 || idx >= len(runes) {
				return runtime.Undefined, nil
			}
			return runtime.NewString(string(runes[idx])), nil
		})
	case "match":
		return method("match", func(args runtime.FunctionArgs) (runtime.Value, error) {
			re, ok := args.Arg(0).(*runtime.RegExpValue)
			if !ok {
				return runtime.Null, nil
			}
			return i.regexpMatch(re, str)
		})
	case "toString", "valueOf":
		return method(key, func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewString(str), nil
		})
	}
	return runtime.Undefined, nil
}

func sliceBounds(args runtime.FunctionArgs, length int) (int, int) {
	start := 0
	end := length
	if args.ArgCount() > 0 {
		if _, isUndef := args.Arg(0).(*runtime.UndefinedValue); !isUndef {
			start = normalizeIndex(int(runtime.ToNumber(args.Arg(0))), length)
		}
	}
	if args.ArgCount() > 1 {
		if _, isUndef := args.Arg(1).(*runtime.UndefinedValue); !isUndef {
			end = normalizeIndex(int(runtime.ToNumber(args.Arg(1))), length)
		}
	}
	return start, end
}

func normalizeIndex(idx, length int) int {
	if idx < 0 {
		idx += length
	}
	if idx < 0 {
		return 0
	}
	if idx > length {
		return length
	}
	return idx
}

func pad(s string, args runtime.FunctionArgs, start bool) string {
	target := int(runtime.ToNumber(args.Arg(0)))
	fill := " "
	if args.ArgCount() > 1 {
		fill = runtime.ToString(args.Arg(1))
	}
	if fill == "" || len([]rune(s)) >= target {
		return s
	}
	var sb strings.Builder
	need := target - len([]rune(s))
	for sb.Len() < need {
		sb.WriteString(fill)
	}
	padding := string([]rune(sb.String())[:need])
	if start {
		return padding + s
	}
	return s + padding
}
