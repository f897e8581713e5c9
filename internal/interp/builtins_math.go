package interp

import (
	"math"
	"math/bits"
	"math/rand"

	"github.com/cwbudde/go-jsvm/internal/runtime"
)

// installMath defines the Math namespace: constants plus the numeric
// method surface.
func (i *Interpreter) installMath(define func(string, runtime.Value)) {
	m := i.newObject()

	m.Set("PI", runtime.NewNumber(math.Pi))
	m.Set("E", runtime.NewNumber(math.E))
	m.Set("LN2", runtime.NewNumber(math.Ln2))
	m.Set("LN10", runtime.NewNumber(math.Log(10)))
	m.Set("LOG2E", runtime.NewNumber(math.Log2E))
	m.Set("LOG10E", runtime.NewNumber(math.Log10E))
	m.Set("SQRT2", runtime.NewNumber(math.Sqrt2))
	m.Set("SQRT1_2", runtime.NewNumber(math.Sqrt(0.5)))

	unary := func(name string, fn func(float64) float64) {
		m.Set(name, i.newNative(name, func(args runtime.FunctionArgs) (runtime.Value, error) {
			return runtime.NewNumber(fn(runtime.ToNumber(args.Arg(0)))), nil
		}))
	}

	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("round", func(f float64) float64 { return math.Floor(f + 0.5) })
	unary("trunc", math.Trunc)
	unary("sqrt", math.Sqrt)
	unary("cbrt", math.Cbrt)
	unary("exp", math.Exp)
	unary("log", math.Log)
	unary("log2", math.Log2)
	unary("log10", math.Log10)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	unary("sinh", math.Sinh)
	unary("cosh", math.Cosh)
	unary("tanh", math.Tanh)
	unary("sign", func(f float64) float64 {
		switch {
		case f > 0:
			return 1
		case f < 0:
			return -1
		default:
			return f
		}
	})
	unary("fround", func(f float64) float64 { return float64(float32(f)) })

	m.Set("atan2", i.newNative("atan2", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return runtime.NewNumber(math.Atan2(runtime.ToNumber(args.Arg(0)), runtime.ToNumber(args.Arg(1)))), nil
	}))
	m.Set("pow", i.newNative("pow", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return runtime.NewNumber(math.Pow(runtime.ToNumber(args.Arg(0)), runtime.ToNumber(args.Arg(1)))), nil
	}))
	m.Set("clz32", i.newNative("clz32", func(args runtime.FunctionArgs) (runtime.Value, error) {
		n := uint32(int64(runtime.ToNumber(args.Arg(0))))
		return runtime.NewNumber(float64(bits.LeadingZeros32(n))), nil
	}))
	m.Set("imul", i.newNative("imul", func(args runtime.FunctionArgs) (runtime.Value, error) {
		a := int32(int64(runtime.ToNumber(args.Arg(0))))
		b := int32(int64(runtime.ToNumber(args.Arg(1))))
		return runtime.NewNumber(float64(a * b)), nil
	}))
	m.Set("max", i.newNative("max", func(args runtime.FunctionArgs) (runtime.Value, error) {
		out := math.Inf(-1)
		for _, a := range args.Args {
			n := runtime.ToNumber(a)
			if math.IsNaN(n) {
				return runtime.NewNumber(math.NaN()), nil
			}
			out = math.Max(out, n)
		}
		return runtime.NewNumber(out), nil
	}))
	m.Set("min", i.newNative("min", func(args runtime.FunctionArgs) (runtime.Value, error) {
		out := math.Inf(1)
		for _, a := range args.Args {
			n := runtime.ToNumber(a)
			if math.IsNaN(n) {
				return runtime.NewNumber(math.NaN()), nil
			}
			out = math.Min(out, n)
		}
		return runtime.NewNumber(out), nil
	}))
	m.Set("hypot", i.newNative("hypot", func(args runtime.FunctionArgs) (runtime.Value, error) {
		sum := 0.0
		for _, a := range args.Args {
			n := runtime.ToNumber(a)
			sum += n * n
		}
		return runtime.NewNumber(math.Sqrt(sum)), nil
	}))
	m.Set("random", i.newNative("random", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return runtime.NewNumber(rand.Float64()), nil
	}))

	define("Math", m)
}
