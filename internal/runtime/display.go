package runtime

import "strings"

// Inspect renders a value for console output: strings unquoted at the top
// level but quoted inside containers, matching typical console behavior.
func Inspect(v Value) string {
	return inspect(v, false, make(map[Value]bool))
}

func inspect(v Value, nested bool, seen map[Value]bool) string {
	switch val := v.(type) {
	case *StringValue:
		if nested {
			return "'" + val.Value + "'"
		}
		return val.Value
	case *Array:
		if seen[v] {
			return "[Circular]"
		}
		seen[v] = true
		defer delete(seen, v)
		parts := make([]string, len(val.Elements))
		for i, el := range val.Elements {
			parts[i] = inspect(el, true, seen)
		}
		return "[ " + strings.Join(parts, ", ") + " ]"
	case *Object:
		if seen[v] {
			return "[Circular]"
		}
		seen[v] = true
		defer delete(seen, v)
		keys := val.Keys()
		if len(keys) == 0 {
			return "{}"
		}
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			prop, _ := val.GetOwn(k)
			if prop.IsAccessor() {
				parts = append(parts, k+": [Getter/Setter]")
				continue
			}
			parts = append(parts, k+": "+inspect(prop.Value, true, seen))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *MapValue:
		parts := make([]string, len(val.Entries))
		for i, e := range val.Entries {
			parts[i] = inspect(e.Key, true, seen) + " => " + inspect(e.Value, true, seen)
		}
		return "Map(" + itoa(len(val.Entries)) + ") { " + strings.Join(parts, ", ") + " }"
	case *SetValue:
		parts := make([]string, len(val.Items))
		for i, item := range val.Items {
			parts[i] = inspect(item, true, seen)
		}
		return "Set(" + itoa(len(val.Items)) + ") { " + strings.Join(parts, ", ") + " }"
	default:
		return v.String()
	}
}

func itoa(n int) string {
	return FormatNumber(float64(n))
}
