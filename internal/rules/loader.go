package rules

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// MalformedRuleError describes a rule or pattern that could not be used.
// Pattern is -1 when the whole rule is at fault.
type MalformedRuleError struct {
	Index   int
	Keyword string
	Pattern int
	Reason  string
}

func (e *MalformedRuleError) Error() string {
	name := e.Keyword
	if name == "" {
		name = fmt.Sprintf("#%d", e.Index)
	}
	if e.Pattern >= 0 {
		return fmt.Sprintf("rule %s: pattern %d: %s", name, e.Pattern, e.Reason)
	}
	return fmt.Sprintf("rule %s: %s", name, e.Reason)
}

type ruleDoc struct {
	Keyword  string       `yaml:"keyword"`
	Priority int          `yaml:"priority"`
	Insult   bool         `yaml:"insult"`
	Patterns []patternDoc `yaml:"patterns"`
}

type patternDoc struct {
	Decomposition *string  `yaml:"decomposition"`
	Reassemblies  []string `yaml:"reassemblies"`
}

type document struct {
	Rules []ruleDoc `yaml:"rules"`
}

// Parse reads a rules resource. Rules and patterns with missing fields or
// invalid expressions are skipped, logged, and recorded in Set.Skipped;
// only YAML that cannot be decoded is an error.
func Parse(data []byte, logger zerolog.Logger) (*Set, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if doc.Rules == nil {
		return nil, fmt.Errorf("parse rules: missing 'rules' list")
	}

	var (
		rules   []Rule
		skipped []*MalformedRuleError
	)
	skip := func(e *MalformedRuleError) {
		logger.Warn().
			Int("index", e.Index).
			Str("keyword", e.Keyword).
			Int("pattern", e.Pattern).
			Str("reason", e.Reason).
			Msg("skipping malformed rule")
		skipped = append(skipped, e)
	}

	for i, rd := range doc.Rules {
		var patterns []Pattern
		for j, pd := range rd.Patterns {
			p := Pattern{Reassemblies: pd.Reassemblies}
			if pd.Decomposition != nil {
				p.Decomposition = *pd.Decomposition
			}
			err := checkPattern(p)
			if err == nil && pd.Decomposition == nil {
				err = errors.New("missing decomposition")
			}
			if err == nil {
				_, err = compile(p.Decomposition)
			}
			if err != nil {
				skip(&MalformedRuleError{Index: i, Keyword: rd.Keyword, Pattern: j, Reason: err.Error()})
				continue
			}
			patterns = append(patterns, p)
		}

		// Every pattern was already reported; the rule needs no second entry.
		if len(rd.Patterns) > 0 && len(patterns) == 0 {
			continue
		}

		r, err := NewRule(rd.Keyword, rd.Priority, rd.Insult, patterns)
		if err != nil {
			var me *MalformedRuleError
			if !errors.As(err, &me) {
				me = &MalformedRuleError{Keyword: rd.Keyword, Pattern: -1, Reason: err.Error()}
			}
			me.Index = i
			skip(me)
			continue
		}
		rules = append(rules, r)
	}

	set := NewSet(rules)
	set.Skipped = append(skipped, set.Skipped...)
	if _, ok := set.Fallback(); !ok {
		logger.Warn().Msg("no @none rule configured, using built-in default reply")
	}
	logger.Debug().Int("rules", len(rules)).Int("skipped", len(skipped)).Msg("rules loaded")
	return set, nil
}

func checkPattern(p Pattern) error {
	if len(p.Reassemblies) == 0 {
		return errors.New("no reassemblies")
	}
	return nil
}
