package state

import "testing"

func TestScriptRegistryByURLSecondaryIndex(t *testing.T) {
	s := NewScriptRegistry()
	s.OnScriptParsed(ScriptInfo{ScriptID: "s1", URL: "http://x/p.html"})
	s.OnScriptParsed(ScriptInfo{ScriptID: "s2", URL: "http://x/p.html"})
	s.OnScriptParsed(ScriptInfo{ScriptID: "s3", URL: "http://x/other.html"})

	ids := s.ByURL("http://x/p.html")
	if len(ids) != 2 {
		t.Fatalf("expected 2 scripts sharing url, got %d", len(ids))
	}
}

func TestScriptRegistrySourceCache(t *testing.T) {
	s := NewScriptRegistry()
	s.OnScriptParsed(ScriptInfo{ScriptID: "s1", URL: "http://x/p.html"})
	if _, ok := s.CachedSource("s1"); ok {
		t.Fatal("source must not be cached before first fetch")
	}
	s.CacheSource("s1", "console.log(1)")
	src, ok := s.CachedSource("s1")
	if !ok || src != "console.log(1)" {
		t.Fatalf("expected cached source, got %q %v", src, ok)
	}
}

// TestFindScriptForLocationFallback documents the Open Question behavior:
// when line falls outside every script registered under url, the lookup
// falls back to a script registered for that url (here the only one)
// rather than failing outright.
func TestFindScriptForLocationFallback(t *testing.T) {
	s := NewScriptRegistry()
	s.OnScriptParsed(ScriptInfo{ScriptID: "s1", URL: "http://x/p.html", StartLine: 0, EndLine: 10})

	id, ok := s.FindScriptForLocation("http://x/p.html", 9999)
	if !ok || id != "s1" {
		t.Fatalf("expected fallback to the only script for the url, got %v %v", id, ok)
	}

	if _, ok := s.FindScriptForLocation("http://x/missing.html", 0); ok {
		t.Fatal("expected no match for an unregistered url")
	}
}

// TestFindScriptForLocationPrimaryRangeMatch registers multiple scripts
// under the same url with disjoint line ranges and checks that the one
// actually claiming the requested line is returned, not just whichever
// script happens to be first in map iteration order.
func TestFindScriptForLocationPrimaryRangeMatch(t *testing.T) {
	s := NewScriptRegistry()
	s.OnScriptParsed(ScriptInfo{ScriptID: "s1", URL: "http://x/p.html", StartLine: 0, EndLine: 10})
	s.OnScriptParsed(ScriptInfo{ScriptID: "s2", URL: "http://x/p.html", StartLine: 100, EndLine: 200})
	s.OnScriptParsed(ScriptInfo{ScriptID: "s3", URL: "http://x/p.html", StartLine: 500, EndLine: 600})

	id, ok := s.FindScriptForLocation("http://x/p.html", 150)
	if !ok || id != "s2" {
		t.Fatalf("expected the script whose range claims line 150 (s2), got %v %v", id, ok)
	}

	id, ok = s.FindScriptForLocation("http://x/p.html", 5)
	if !ok || id != "s1" {
		t.Fatalf("expected the script whose range claims line 5 (s1), got %v %v", id, ok)
	}
}

func TestScriptRegistryReset(t *testing.T) {
	s := NewScriptRegistry()
	s.OnScriptParsed(ScriptInfo{ScriptID: "s1", URL: "http://x/p.html"})
	s.Reset()
	if s.Count() != 0 {
		t.Fatal("expected registry empty after reset")
	}
}
