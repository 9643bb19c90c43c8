// Package rules holds the keyword rules that drive the conversation engine
// and loads them from their YAML resource.
package rules

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/rcliao/go-eliza/internal/textnorm"
)

const (
	// FallbackKeyword marks the rule used when nothing else responds.
	FallbackKeyword = "@none"

	// MemoryPrefix marks a reassembly that is deferred into the memory queue
	// instead of being returned.
	MemoryPrefix = "@memory:"
)

// Pattern is a decomposition expression and the reassembly templates it
// rotates through.
type Pattern struct {
	Decomposition string
	Reassemblies  []string

	re *regexp.Regexp
}

// Match runs the decomposition against normalized text. The returned slice
// holds the full match at index 0 followed by the capture groups; a group
// that did not participate is "".
func (p *Pattern) Match(text string) ([]string, bool) {
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return m, true
}

// Rule is a keyword-triggered group of patterns.
type Rule struct {
	Keyword  string
	Priority int
	Insult   bool
	Patterns []Pattern

	folded string
}

// Matches reports whether the rule's keyword occurs in normalized text.
func (r *Rule) Matches(text string) bool {
	return strings.Contains(text, r.folded)
}

// Set is an ordered, immutable collection of rules. The round-robin
// position of each pattern lives in the caller's session state, so a Set
// can be shared.
type Set struct {
	Rules []Rule

	// Skipped lists rules or patterns dropped while loading.
	Skipped []*MalformedRuleError

	fallback int
}

// NewRule builds a rule, compiling every decomposition. The decomposition
// and keyword are accent-folded the same way input text is. A rule needs a
// keyword and at least one pattern, and every pattern needs a reassembly.
func NewRule(keyword string, priority int, insult bool, patterns []Pattern) (Rule, error) {
	if keyword == "" {
		return Rule{}, &MalformedRuleError{Pattern: -1, Reason: "missing keyword"}
	}
	if len(patterns) == 0 {
		return Rule{}, &MalformedRuleError{Keyword: keyword, Pattern: -1, Reason: "no patterns"}
	}
	r := Rule{
		Keyword:  keyword,
		Priority: priority,
		Insult:   insult,
		folded:   textnorm.Fold(strings.ToLower(keyword)),
	}
	for i, p := range patterns {
		if err := checkPattern(p); err != nil {
			return Rule{}, &MalformedRuleError{Keyword: keyword, Pattern: i, Reason: err.Error()}
		}
		re, err := compile(p.Decomposition)
		if err != nil {
			return Rule{}, &MalformedRuleError{Keyword: keyword, Pattern: i, Reason: err.Error()}
		}
		p.re = re
		p.Reassemblies = append([]string(nil), p.Reassemblies...)
		r.Patterns = append(r.Patterns, p)
	}
	return r, nil
}

func compile(decomposition string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + textnorm.Fold(decomposition))
}

// NewSet wraps rules in configuration order. Rules assembled by hand
// rather than through NewRule are built here; those that fail validation
// are left out and recorded in Skipped.
func NewSet(rules []Rule) *Set {
	s := &Set{Rules: make([]Rule, 0, len(rules)), fallback: -1}
	for i, r := range rules {
		if !r.built() {
			built, err := NewRule(r.Keyword, r.Priority, r.Insult, r.Patterns)
			if err != nil {
				var me *MalformedRuleError
				if !errors.As(err, &me) {
					me = &MalformedRuleError{Keyword: r.Keyword, Pattern: -1, Reason: err.Error()}
				}
				me.Index = i
				s.Skipped = append(s.Skipped, me)
				continue
			}
			r = built
		}
		if s.fallback < 0 && r.Keyword == FallbackKeyword {
			s.fallback = len(s.Rules)
		}
		s.Rules = append(s.Rules, r)
	}
	return s
}

func (r *Rule) built() bool {
	if r.folded == "" {
		return false
	}
	for i := range r.Patterns {
		if r.Patterns[i].re == nil {
			return false
		}
	}
	return true
}

// Candidates returns the indexes of rules whose keyword occurs in text,
// highest priority first. Rules of equal priority keep configuration order.
func (s *Set) Candidates(text string) []int {
	var idx []int
	for i := range s.Rules {
		if s.Rules[i].Matches(text) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return s.Rules[idx[a]].Priority > s.Rules[idx[b]].Priority
	})
	return idx
}

// Fallback returns the index of the @none rule.
func (s *Set) Fallback() (int, bool) {
	return s.fallback, s.fallback >= 0
}

// Shape returns the number of patterns in each rule, in rule order.
func (s *Set) Shape() []int {
	shape := make([]int, len(s.Rules))
	for i := range s.Rules {
		shape[i] = len(s.Rules[i].Patterns)
	}
	return shape
}
