package pinout

import (
	"fmt"
	"regexp"
	"strings"
)

// SignalFilter reduces the size of a pin out table by shortening, merging
// and excluding signal names.
type SignalFilter struct {
	// Signals to exclude from table.
	excludes []*regexp.Regexp
	// Substitutions to shorten signal names.
	subs []substitution
	// Factorizations to reduce the number of similar signals.
	facts []factorization
}

type substitution struct {
	re       *regexp.Regexp
	template string
}

type factorization struct {
	re  *regexp.Regexp
	sep string
}

// NewSignalFilter compiles rules and additional excluded peripherals into a
// filter. rules may be nil.
func NewSignalFilter(rules *Rules, excludes []string) (*SignalFilter, error) {
	f := &SignalFilter{}
	var excludePatterns []string
	if rules != nil {
		for _, rule := range rules.Rules {
			switch {
			case rule.Shorten != nil:
				re, err := regexp.Compile("^" + rule.Shorten.Pattern + "([0-9_])")
				if err != nil {
					return nil, fmt.Errorf("%s: shorten: %w", rule.Pos, err)
				}
				if re.NumSubexp() < 2 {
					return nil, fmt.Errorf("%s: shorten %q needs a group", rule.Pos, rule.Shorten.Pattern)
				}
				// keep the first group and the trailing separator
				f.subs = append(f.subs, substitution{
					re:       re,
					template: fmt.Sprintf("${1}${%d}", re.NumSubexp()),
				})
			case rule.Factor != nil:
				re, err := regexp.Compile(rule.Factor.Pattern)
				if err != nil {
					return nil, fmt.Errorf("%s: factor: %w", rule.Pos, err)
				}
				if re.NumSubexp() < 1 {
					return nil, fmt.Errorf("%s: factor %q needs a group", rule.Pos, rule.Factor.Pattern)
				}
				f.facts = append(f.facts, factorization{re: re, sep: rule.Factor.Sep()})
			case rule.Exclude != nil:
				excludePatterns = append(excludePatterns, rule.Exclude.Pattern)
			}
		}
	}
	excludePatterns = append(excludePatterns, excludes...)
	for _, pattern := range excludePatterns {
		re, err := CompileExclude(pattern)
		if err != nil {
			return nil, err
		}
		f.excludes = append(f.excludes, re)
	}
	return f, nil
}

// CompileExclude compiles an excluded peripheral pattern. It matches signal
// names starting with the pattern followed by a digit or underscore, so
// "SYS" drops "SYS_WKUP1" but not "SYSCFG_X".
func CompileExclude(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")[0-9_]")
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
	}
	return re, nil
}

// Apply filters the signals of one table cell: names are shortened, then
// merged with each factorization in turn, then excluded signals are
// dropped.
//
// A nil filter returns the signals unchanged.
func (f *SignalFilter) Apply(signals []string) []string {
	if f == nil {
		return signals
	}
	out := make([]string, 0, len(signals))
	for _, s := range signals {
		for _, sub := range f.subs {
			s = sub.re.ReplaceAllString(s, sub.template)
		}
		out = append(out, s)
	}
	for _, fact := range f.facts {
		out = factorize(out, fact.re, fact.sep)
	}
	kept := out[:0]
	for _, s := range out {
		if !f.excluded(s) {
			kept = append(kept, s)
		}
	}
	return kept
}

func (f *SignalFilter) excluded(s string) bool {
	for _, re := range f.excludes {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// factorize merges the signals matching re on its first group. Merged
// signals come first, in order of first appearance, followed by the
// signals that did not match.
func factorize(signals []string, re *regexp.Regexp, sep string) []string {
	type group struct {
		prefix, suffix string
		terms          []string
	}
	var groups []*group
	index := make(map[[2]string]*group)
	var others []string

	for _, s := range signals {
		m := re.FindStringSubmatchIndex(s)
		if m == nil || m[2] < 0 {
			others = append(others, s)
			continue
		}
		key := [2]string{s[:m[2]], s[m[3]:]}
		g, ok := index[key]
		if !ok {
			g = &group{prefix: key[0], suffix: key[1]}
			index[key] = g
			groups = append(groups, g)
		}
		g.terms = append(g.terms, s[m[2]:m[3]])
	}

	out := make([]string, 0, len(groups)+len(others))
	for _, g := range groups {
		out = append(out, g.prefix+strings.Join(g.terms, sep)+g.suffix)
	}
	return append(out, others...)
}
