package runtime

import "testing"

func TestRegExpExecBasic(t *testing.T) {
	re, err := NewRegExp("a(b+)c", "")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	m, ok := re.Exec("xxabbbc")
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Text != "abbbc" || m.Index != 2 {
		t.Errorf("match = %q at %d", m.Text, m.Index)
	}
	if len(m.Captures) != 1 || m.Captures[0] != "bbb" {
		t.Errorf("captures = %v", m.Captures)
	}
	if re.LastIndex != 0 {
		t.Error("non-global exec must not advance lastIndex")
	}
}

func TestRegExpGlobalAdvancesLastIndex(t *testing.T) {
	re, err := NewRegExp("o", "g")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if _, ok := re.Exec("foo"); !ok || re.LastIndex != 2 {
		t.Fatalf("first exec lastIndex = %d, want 2", re.LastIndex)
	}
	if _, ok := re.Exec("foo"); !ok || re.LastIndex != 3 {
		t.Fatalf("second exec lastIndex = %d, want 3", re.LastIndex)
	}
	if _, ok := re.Exec("foo"); ok {
		t.Fatal("third exec must fail")
	}
	if re.LastIndex != 0 {
		t.Error("failed global exec must reset lastIndex to 0")
	}
}

func TestRegExpStickyRequiresMatchAtLastIndex(t *testing.T) {
	re, err := NewRegExp("b", "y")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if _, ok := re.Exec("abc"); ok {
		t.Fatal("sticky match away from lastIndex must fail")
	}
	if re.LastIndex != 0 {
		t.Error("failed sticky exec must reset lastIndex")
	}
	re.LastIndex = 1
	m, ok := re.Exec("abc")
	if !ok || m.Index != 1 {
		t.Fatal("sticky match at lastIndex must succeed")
	}
}

func TestRegExpCaseInsensitive(t *testing.T) {
	re, err := NewRegExp("hello", "i")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if !re.Test("say HELLO") {
		t.Error("case-insensitive match failed")
	}
}

func TestRegExpSplit(t *testing.T) {
	re, err := NewRegExp(`\s*,\s*`, "")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	parts := re.Split("a, b ,c")
	want := []string{"a", "b", "c"}
	if len(parts) != len(want) {
		t.Fatalf("parts = %v", parts)
	}
	for idx := range want {
		if parts[idx] != want[idx] {
			t.Errorf("parts[%d] = %q, want %q", idx, parts[idx], want[idx])
		}
	}
}

func TestFlagStringNormalizes(t *testing.T) {
	if got := FlagString("yig"); got != "giy" {
		t.Errorf("FlagString = %q, want giy", got)
	}
}
