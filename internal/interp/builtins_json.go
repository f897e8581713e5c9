package interp

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cwbudde/go-jsvm/internal/runtime"
)

// installJSON defines JSON.parse and JSON.stringify. stringify throws on
// cycles and skips functions and symbols; parse produces plain objects
// and arrays.
func (i *Interpreter) installJSON(define func(string, runtime.Value)) {
	j := i.newObject()

	j.Set("stringify", i.newNative("stringify", func(args runtime.FunctionArgs) (runtime.Value, error) {
		indent := ""
		if args.ArgCount() > 2 {
			switch ind := args.Arg(2).(type) {
			case *runtime.NumberValue:
				indent = strings.Repeat(" ", int(ind.Value))
			case *runtime.StringValue:
				indent = ind.Value
			}
		}
		out, ok, err := i.jsonStringify(args.Arg(0), indent, "", make(map[runtime.Value]bool))
		if err != nil {
			return nil, err
		}
		if !ok {
			return runtime.Undefined, nil
		}
		return runtime.NewString(out), nil
	}))

	j.Set("parse", i.newNative("parse", func(args runtime.FunctionArgs) (runtime.Value, error) {
		p := &jsonParser{input: runtime.ToString(args.Arg(0)), interp: i}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.pos < len(p.input) {
			return nil, runtime.NewThrownError(i.makeErrorObject("SyntaxError", "Unexpected token in JSON"))
		}
		return v, nil
	}))

	define("JSON", j)
}

// jsonStringify serializes value; ok=false marks values JSON skips
// entirely (functions, symbols, undefined).
func (i *Interpreter) jsonStringify(value runtime.Value, indent, prefix string, seen map[runtime.Value]bool) (string, bool, error) {
	switch v := value.(type) {
	case *runtime.UndefinedValue, *runtime.Function, *runtime.NativeFunction, *runtime.SymbolValue:
		return "", false, nil
	case *runtime.NullValue:
		return "null", true, nil
	case *runtime.BooleanValue:
		return v.String(), true, nil
	case *runtime.NumberValue:
		n := v.Value
		if n != n || n > 1.797e308 || n < -1.797e308 {
			return "null", true, nil
		}
		return runtime.FormatNumber(n), true, nil
	case *runtime.StringValue:
		return quoteJSON(v.Value), true, nil

	case *runtime.Array:
		if seen[value] {
			return "", false, runtime.NewThrownError(i.makeErrorObject("TypeError", "Converting circular structure to JSON"))
		}
		seen[value] = true
		defer delete(seen, value)

		inner := prefix + indent
		parts := make([]string, len(v.Elements))
		for idx, el := range v.Elements {
			s, ok, err := i.jsonStringify(el, indent, inner, seen)
			if err != nil {
				return "", false, err
			}
			if !ok {
				s = "null"
			}
			parts[idx] = s
		}
		return joinJSON("[", "]", parts, indent, prefix), true, nil

	case *runtime.Object:
		if seen[value] {
			return "", false, runtime.NewThrownError(i.makeErrorObject("TypeError", "Converting circular structure to JSON"))
		}
		seen[value] = true
		defer delete(seen, value)

		inner := prefix + indent
		var parts []string
		for _, key := range v.Keys() {
			member, err := i.getMember(v, key)
			if err != nil {
				return "", false, err
			}
			s, ok, err := i.jsonStringify(member, indent, inner, seen)
			if err != nil {
				return "", false, err
			}
			if !ok {
				continue
			}
			sep := ":"
			if indent != "" {
				sep = ": "
			}
			parts = append(parts, quoteJSON(key)+sep+s)
		}
		return joinJSON("{", "}", parts, indent, prefix), true, nil

	default:
		return quoteJSON(value.String()), true, nil
	}
}

func joinJSON(open, close string, parts []string, indent, prefix string) string {
	if len(parts) == 0 {
		return open + close
	}
	if indent == "" {
		return open + strings.Join(parts, ",") + close
	}
	inner := prefix + indent
	return open + "\n" + inner + strings.Join(parts, ",\n"+inner) + "\n" + prefix + close
}

func quoteJSON(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				sb.WriteString("\\u")
				hex := strconv.FormatInt(int64(r), 16)
				sb.WriteString(strings.Repeat("0", 4-len(hex)) + hex)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// jsonParser is a recursive-descent JSON reader producing runtime values.
type jsonParser struct {
	input  string
	pos    int
	interp *Interpreter
}

func (p *jsonParser) syntaxError(msg string) error {
	return runtime.NewThrownError(p.interp.makeErrorObject("SyntaxError", msg))
}

func (p *jsonParser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *jsonParser) parseValue() (runtime.Value, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return nil, p.syntaxError("Unexpected end of JSON input")
	}
	switch c := p.input[p.pos]; {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return runtime.NewString(s), nil
	case c == 't':
		return p.parseKeyword("true", runtime.True)
	case c == 'f':
		return p.parseKeyword("false", runtime.False)
	case c == 'n':
		return p.parseKeyword("null", runtime.Null)
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return nil, p.syntaxError("Unexpected token in JSON")
	}
}

func (p *jsonParser) parseKeyword(word string, value runtime.Value) (runtime.Value, error) {
	if strings.HasPrefix(p.input[p.pos:], word) {
		p.pos += len(word)
		return value, nil
	}
	return nil, p.syntaxError("Unexpected token in JSON")
}

func (p *jsonParser) parseNumber() (runtime.Value, error) {
	start := p.pos
	for p.pos < len(p.input) && strings.ContainsRune("-+.eE0123456789", rune(p.input[p.pos])) {
		p.pos++
	}
	f, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return nil, p.syntaxError("Invalid number in JSON")
	}
	return runtime.NewNumber(f), nil
}

func (p *jsonParser) parseString() (string, error) {
	p.pos++ // opening quote
	var sb strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case '"':
			p.pos++
			return sb.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.input) {
				return "", p.syntaxError("Unexpected end of JSON input")
			}
			switch p.input[p.pos] {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case '/':
				sb.WriteByte('/')
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case 'u':
				if p.pos+4 >= len(p.input) {
					return "", p.syntaxError("Invalid unicode escape in JSON")
				}
				code, err := strconv.ParseUint(p.input[p.pos+1:p.pos+5], 16, 32)
				if err != nil {
					return "", p.syntaxError("Invalid unicode escape in JSON")
				}
				sb.WriteRune(rune(code))
				p.pos += 4
			default:
				return "", p.syntaxError("Invalid escape in JSON")
			}
			p.pos++
		default:
			r, size := utf8.DecodeRuneInString(p.input[p.pos:])
			sb.WriteRune(r)
			p.pos += size
		}
	}
	return "", p.syntaxError("Unexpected end of JSON input")
}

func (p *jsonParser) parseArray() (runtime.Value, error) {
	p.pos++ // '['
	arr := p.interp.newArray()
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == ']' {
		p.pos++
		return arr, nil
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Push(v)
		p.skipSpace()
		if p.pos >= len(p.input) {
			return nil, p.syntaxError("Unexpected end of JSON input")
		}
		switch p.input[p.pos] {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return arr, nil
		default:
			return nil, p.syntaxError("Expected ',' or ']' in JSON array")
		}
	}
}

func (p *jsonParser) parseObject() (runtime.Value, error) {
	p.pos++ // '{'
	obj := p.interp.newObject()
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == '}' {
		p.pos++
		return obj, nil
	}
	for {
		p.skipSpace()
		if p.pos >= len(p.input) || p.input[p.pos] != '"' {
			return nil, p.syntaxError("Expected property name in JSON object")
		}
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.pos >= len(p.input) || p.input[p.pos] != ':' {
			return nil, p.syntaxError("Expected ':' in JSON object")
		}
		p.pos++
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
		p.skipSpace()
		if p.pos >= len(p.input) {
			return nil, p.syntaxError("Unexpected end of JSON input")
		}
		switch p.input[p.pos] {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return obj, nil
		default:
			return nil, p.syntaxError("Expected ',' or '}' in JSON object")
		}
	}
}
