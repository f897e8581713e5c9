package runtime

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/cwbudde/go-jsvm/internal/gc"
)

// RegExpValue is a compiled regular expression with JS flag semantics and
// the stateful lastIndex used by global and sticky matching.
type RegExpValue struct {
	gc.Header
	Pattern    string
	Flags      string
	Global     bool
	IgnoreCase bool
	Multiline  bool
	DotAll     bool
	Unicode    bool
	Sticky     bool
	LastIndex  int
	re         *regexp2.Regexp
}

// NewRegExp compiles pattern with the given flag string (any of gimsuy).
func NewRegExp(pattern, flags string) (*RegExpValue, error) {
	r := &RegExpValue{Pattern: pattern, Flags: flags}
	var opts regexp2.RegexOptions = regexp2.ECMAScript
	for _, f := range flags {
		switch f {
		case 'g':
			r.Global = true
		case 'i':
			r.IgnoreCase = true
			opts |= regexp2.IgnoreCase
		case 'm':
			r.Multiline = true
			opts |= regexp2.Multiline
		case 's':
			r.DotAll = true
			opts |= regexp2.Singleline
		case 'u':
			r.Unicode = true
			opts |= regexp2.Unicode
		case 'y':
			r.Sticky = true
		}
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, NewTypeError("invalid regular expression: %s", err.Error())
	}
	r.re = re
	return r, nil
}

func (r *RegExpValue) Type() string   { return TypeRegExp }
func (r *RegExpValue) String() string { return "/" + r.Pattern + "/" + r.Flags }

// Trace implements gc.Object. Compiled state owns no heap references.
func (r *RegExpValue) Trace(m *gc.Marker) {}

// MatchResult is one successful match: the full text, its index, and the
// capture groups (empty string for non-participating groups).
type MatchResult struct {
	Text     string
	Index    int
	Captures []string
	Names    []string
}

// Exec runs the pattern against input honoring lastIndex for global and
// sticky regexps. A failed sticky/global match resets lastIndex to 0.
func (r *RegExpValue) Exec(input string) (*MatchResult, bool) {
	start := 0
	if r.Global || r.Sticky {
		start = r.LastIndex
	}
	if start > len(input) {
		r.LastIndex = 0
		return nil, false
	}

	m, err := r.re.FindStringMatchStartingAt(input, start)
	if err != nil || m == nil {
		if r.Global || r.Sticky {
			r.LastIndex = 0
		}
		return nil, false
	}
	if r.Sticky && m.Index != start {
		r.LastIndex = 0
		return nil, false
	}

	result := &MatchResult{Text: m.String(), Index: m.Index}
	groups := m.Groups()
	for gi := 1; gi < len(groups); gi++ {
		result.Captures = append(result.Captures, groups[gi].String())
		result.Names = append(result.Names, groups[gi].Name)
	}
	if r.Global || r.Sticky {
		r.LastIndex = m.Index + len(m.String())
		if len(m.String()) == 0 {
			r.LastIndex++
		}
	}
	return result, true
}

// Test reports whether the pattern matches input, with the same
// lastIndex behavior as Exec.
func (r *RegExpValue) Test(input string) bool {
	_, ok := r.Exec(input)
	return ok
}

// ReplaceAll substitutes matches with repl ($1-style references work via
// the underlying engine). Non-global regexps replace the first match only.
func (r *RegExpValue) ReplaceAll(input, repl string) string {
	count := 1
	if r.Global {
		count = -1
	}
	out, err := r.re.Replace(input, repl, 0, count)
	if err != nil {
		return input
	}
	return out
}

// Split divides input around matches of the pattern.
func (r *RegExpValue) Split(input string) []string {
	var parts []string
	last := 0
	m, err := r.re.FindStringMatch(input)
	for err == nil && m != nil {
		if m.Index+len(m.String()) == 0 {
			break
		}
		parts = append(parts, input[last:m.Index])
		last = m.Index + len(m.String())
		m, err = r.re.FindNextMatch(m)
	}
	parts = append(parts, input[last:])
	return parts
}

// FlagString normalizes a flag set into canonical order.
func FlagString(flags string) string {
	var sb strings.Builder
	for _, f := range "gimsuy" {
		if strings.ContainsRune(flags, f) {
			sb.WriteRune(f)
		}
	}
	return sb.String()
}
