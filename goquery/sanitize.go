package goquery

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/mdclip"
)

// Rules are compiled exclusion rules: elements matching any selector are
// removed, and the named attributes are stripped from every element.
type Rules struct {
	selectors  []cascadia.Selector
	attributes []string
}

// CompileRules compiles removal selectors and attribute names.
// Empty entries are ignored. Returns EINVALID naming the first selector
// that does not parse.
func CompileRules(selectors, attributes []string) (*Rules, error) {
	rules := &Rules{}

	for _, s := range selectors {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		sel, err := cascadia.Compile(s)
		if err != nil {
			return nil, mdclip.Errorf(mdclip.EINVALID, "invalid selector %q: %v", s, err)
		}
		rules.selectors = append(rules.selectors, sel)
	}

	for _, a := range attributes {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			rules.attributes = append(rules.attributes, a)
		}
	}

	return rules, nil
}

// RulesFromSettings compiles the exclusion rules configured in s.
func RulesFromSettings(s *mdclip.Settings) (*Rules, error) {
	return CompileRules(s.Selectors(), s.RemovedAttributes)
}

// Sanitize removes every descendant of the root matched by a selector, then
// strips the excluded attributes from the remaining descendants. The root
// itself is never matched.
func (t *Tree) Sanitize(rules *Rules) {
	if rules == nil {
		return
	}

	for _, sel := range rules.selectors {
		t.root.FindMatcher(sel).Remove()
	}

	if len(rules.attributes) == 0 {
		return
	}

	elements := t.root.Find("*")
	for _, name := range rules.attributes {
		elements.RemoveAttr(name)
	}
}
