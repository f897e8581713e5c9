package interp

import (
	"math"
	"strings"
	"time"

	"github.com/cwbudde/go-jsvm/internal/runtime"
)

// installGlobals populates the global scope: literals, constructors,
// namespaces, console, timers, and the microtask/animation-frame hooks.
func (i *Interpreter) installGlobals() {
	define := func(name string, v runtime.Value) {
		i.env.DefineGlobal(name, v, runtime.BindVar)
	}

	define("undefined", runtime.Undefined)
	define("NaN", runtime.NewNumber(math.NaN()))
	define("Infinity", runtime.NewNumber(math.Inf(1)))

	i.installConsole(define)
	i.installTimers(define)
	i.installConstructors(define)
	i.installMath(define)
	i.installJSON(define)
	i.installReflect(define)

	// performance.now reports the loop clock in realtime mode-independent
	// milliseconds.
	performance := i.newObject()
	start := time.Now()
	performance.Set("now", i.newNative("now", func(args runtime.FunctionArgs) (runtime.Value, error) {
		if i.loop.Realtime() {
			return runtime.NewNumber(float64(time.Since(start).Microseconds()) / 1000.0), nil
		}
		return runtime.NewNumber(float64(i.loop.NowMS())), nil
	}))
	define("performance", performance)

	// globalThis mirrors the installed globals; top-level `this` resolves
	// to it as well.
	globalThis := i.newObject()
	for _, name := range i.env.GlobalScope().Names() {
		if b, ok := i.env.GlobalScope().Get(name); ok {
			globalThis.Set(name, b.Value)
		}
	}
	define("globalThis", globalThis)
	globalThis.Set("globalThis", globalThis)
	i.env.GlobalScope().This = globalThis
	i.env.GlobalScope().HasThis = true
}

func (i *Interpreter) installConsole(define func(string, runtime.Value)) {
	console := i.newObject()
	log := func(name string) *runtime.NativeFunction {
		return i.newNative(name, func(args runtime.FunctionArgs) (runtime.Value, error) {
			parts := make([]string, len(args.Args))
			for idx, arg := range args.Args {
				parts[idx] = runtime.Inspect(arg)
			}
			i.printLine(strings.Join(parts, " "))
			return runtime.Undefined, nil
		})
	}
	for _, name := range []string{"log", "info", "warn", "error", "debug"} {
		console.Set(name, log(name))
	}
	define("console", console)

	// print is kept as a bare alias used by the VM fast path.
	define("print", log("print"))
}

func (i *Interpreter) installTimers(define func(string, runtime.Value)) {
	define("setTimeout", i.newNative("setTimeout", func(args runtime.FunctionArgs) (runtime.Value, error) {
		cb := args.Arg(0)
		if !runtime.IsCallable(cb) {
			return nil, runtime.NewTypeError("setTimeout callback is not a function")
		}
		delay := uint64(runtime.ToNumber(args.Arg(1)))
		id := i.loop.ScheduleTimer(cb, delay, false)
		return runtime.NewNumber(float64(id)), nil
	}))
	define("setInterval", i.newNative("setInterval", func(args runtime.FunctionArgs) (runtime.Value, error) {
		cb := args.Arg(0)
		if !runtime.IsCallable(cb) {
			return nil, runtime.NewTypeError("setInterval callback is not a function")
		}
		delay := uint64(runtime.ToNumber(args.Arg(1)))
		id := i.loop.ScheduleTimer(cb, delay, true)
		return runtime.NewNumber(float64(id)), nil
	}))
	define("clearTimeout", i.newNative("clearTimeout", func(args runtime.FunctionArgs) (runtime.Value, error) {
		i.loop.ClearTimer(uint64(runtime.ToNumber(args.Arg(0))))
		return runtime.Undefined, nil
	}))
	define("clearInterval", i.newNative("clearInterval", func(args runtime.FunctionArgs) (runtime.Value, error) {
		i.loop.ClearTimer(uint64(runtime.ToNumber(args.Arg(0))))
		return runtime.Undefined, nil
	}))
	define("queueMicrotask", i.newNative("queueMicrotask", func(args runtime.FunctionArgs) (runtime.Value, error) {
		cb := args.Arg(0)
		if !runtime.IsCallable(cb) {
			return nil, runtime.NewTypeError("queueMicrotask callback is not a function")
		}
		i.loop.EnqueueMicrotask(microtaskCallback(cb))
		return runtime.Undefined, nil
	}))
	define("requestAnimationFrame", i.newNative("requestAnimationFrame", func(args runtime.FunctionArgs) (runtime.Value, error) {
		id := i.loop.RequestAnimationFrame(args.Arg(0))
		return runtime.NewNumber(float64(id)), nil
	}))
	define("cancelAnimationFrame", i.newNative("cancelAnimationFrame", func(args runtime.FunctionArgs) (runtime.Value, error) {
		i.loop.CancelAnimationFrame(uint64(runtime.ToNumber(args.Arg(0))))
		return runtime.Undefined, nil
	}))

	define("parseInt", i.newNative("parseInt", func(args runtime.FunctionArgs) (runtime.Value, error) {
		s := strings.TrimSpace(runtime.ToString(args.Arg(0)))
		radix := 10
		if args.ArgCount() > 1 {
			if r := int(runtime.ToNumber(args.Arg(1))); r != 0 {
				radix = r
			}
		}
		return runtime.NewNumber(parseIntPrefix(s, radix)), nil
	}))
	define("parseFloat", i.newNative("parseFloat", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return runtime.NewNumber(parseFloatPrefix(strings.TrimSpace(runtime.ToString(args.Arg(0))))), nil
	}))
	define("isNaN", i.newNative("isNaN", func(args runtime.FunctionArgs) (runtime.Value, error) {
		return runtime.NewBoolean(math.IsNaN(runtime.ToNumber(args.Arg(0)))), nil
	}))
	define("isFinite", i.newNative("isFinite", func(args runtime.FunctionArgs) (runtime.Value, error) {
		n := runtime.ToNumber(args.Arg(0))
		return runtime.NewBoolean(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
	}))
}

// parseIntPrefix parses the longest leading integer in the given radix,
// NaN when none.
func parseIntPrefix(s string, radix int) float64 {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if radix == 16 && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		s = s[2:]
	}
	if radix == 10 && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		radix = 16
		s = s[2:]
	}
	var value float64
	seen := false
	for _, r := range s {
		d := digitValue(r)
		if d < 0 || d >= radix {
			break
		}
		value = value*float64(radix) + float64(d)
		seen = true
	}
	if !seen {
		return math.NaN()
	}
	if neg {
		return -value
	}
	return value
}

func digitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10
	default:
		return -1
	}
}

// parseFloatPrefix parses the longest leading decimal float, NaN when
// none.
func parseFloatPrefix(s string) float64 {
	end := 0
	seenDigit := false
	seenDot := false
	seenExp := false
	for idx, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case r == '-' || r == '+':
			if idx != 0 && !(seenExp && (s[idx-1] == 'e' || s[idx-1] == 'E')) {
				goto done
			}
		case r == '.':
			if seenDot || seenExp {
				goto done
			}
			seenDot = true
		case r == 'e' || r == 'E':
			if seenExp || !seenDigit {
				goto done
			}
			seenExp = true
		default:
			goto done
		}
		end = idx + 1
	}
done:
	if !seenDigit {
		return math.NaN()
	}
	return runtime.StringToNumber(s[:end])
}
