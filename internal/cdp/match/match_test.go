package match

import "testing"

func TestWildcardMatchesEverything(t *testing.T) {
	m := Compile("*", true)
	for _, s := range []string{"", "http://x/y", "anything at all"} {
		if !m.MatchString(s) {
			t.Errorf("expected %q to match *", s)
		}
	}
}

func TestMalformedRegexMatchesNothing(t *testing.T) {
	m := Compile("/(unclosed/", true)
	if m.MatchString("(unclosed") {
		t.Fatal("malformed regex pattern must match nothing, not raise or match")
	}
}

func TestRegexPattern(t *testing.T) {
	m := Compile("/^https:\\/\\/api\\./", true)
	if !m.MatchString("https://api.example.com/v1") {
		t.Fatal("expected regex pattern to match")
	}
	if m.MatchString("https://other.example.com") {
		t.Fatal("expected regex pattern not to match")
	}
}

func TestGlobAnchoredFullMatch(t *testing.T) {
	m := Compile("*/api/mock-me", true)
	if !m.MatchString("http://x/api/mock-me") {
		t.Fatal("expected glob to match full URL")
	}
	if m.MatchString("http://x/api/mock-me/extra") {
		t.Fatal("anchored glob must not match extra suffix")
	}
}

func TestGlobUnanchoredSubstring(t *testing.T) {
	m := Compile("api.example", false)
	if !m.MatchString("https://api.example.com/v1/things") {
		t.Fatal("expected unanchored glob to match as substring")
	}
}

func TestGlobEscapesMetacharacters(t *testing.T) {
	m := Compile("*/v1.0/*", true)
	if !m.MatchString("http://x/v1.0/thing") {
		t.Fatal("expected literal dot to match literal dot")
	}
	if m.MatchString("http://x/v1X0/thing") {
		t.Fatal("literal dot in pattern must not match arbitrary character")
	}
}

func TestQuestionMarkMatchesSingleChar(t *testing.T) {
	m := Compile("file?.txt", true)
	if !m.MatchString("file1.txt") {
		t.Fatal("expected ? to match a single character")
	}
	if m.MatchString("file12.txt") {
		t.Fatal("? must not match more than one character")
	}
}
