// Package match implements the single pattern language shared by
// NetworkState, ScriptRegistry URL search, and FetchInterceptor rule
// lookup (this contract "Pattern language"). It is consolidated into one
// utility per this contract's design note, which explicitly calls out the
// NetworkState (unanchored) vs FetchInterceptor (anchored) distinction as
// intentional rather than a bug: both are exposed here as a single flag
// rather than two copy-pasted implementations, grounded in the shared glob
// helper of ITnpc-cdpnetool's internal/rules/engine.go.
package match

import (
	"regexp"
	"strings"
)

// Matcher tests a URL (or other string) against a compiled pattern.
type Matcher struct {
	matchAll bool
	re *regexp.Regexp // nil means "matches nothing" (bad /regex/ or bad glob translation)
}

// Compile builds a Matcher for pattern under the given anchoring mode.
//
// - "*" matches any well-formed string.
// - "/re/" re is used as a regular expression as-is (its own anchors,
// if any, are the user's); a compile failure yields a
// Matcher that matches nothing, never an error — patterns
// originate from external input and must not poison the
// interception table (this contract).
// - otherwise a glob: '*' -> ".*", '?' -> ".", everything else escaped.
// When anchored is true, the glob is anchored full-match
// (^...$) — FetchInterceptor's requirement. When false, it
// is left unanchored — NetworkState's substring-style query
// requirement.
func Compile(pattern string, anchored bool) *Matcher {
	if pattern == "*" {
		return &Matcher{matchAll: true}
	}

	if strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") && len(pattern) >= 2 {
		body := pattern[1 : len(pattern)-1]
		re, err := regexp.Compile(body)
		if err != nil {
			return &Matcher{re: nil}
		}
		return &Matcher{re: re}
	}

	glob := globToRegexp(pattern)
	if anchored {
		glob = "^" + glob + "$"
	}
	re, err := regexp.Compile(glob)
	if err != nil {
		return &Matcher{re: nil}
	}
	return &Matcher{re: re}
}

// MatchString reports whether s matches the compiled pattern. A Matcher
// built from a malformed /regex/ or an unregistered glob always returns
// false, never panics.
func (m *Matcher) MatchString(s string) bool {
	if m == nil {
		return false
	}
	if m.matchAll {
		return true
	}
	if m.re == nil {
		return false
	}
	return m.re.MatchString(s)
}

func globToRegexp(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}
