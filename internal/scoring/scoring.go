// Package scoring ranks directory names against weighted pattern rules.
package scoring

import (
	"fmt"
	"regexp"

	"mediadedup/internal/config"
)

// Rule is a compiled (pattern, weight) pair.
type Rule struct {
	Pattern string
	Weight  int
	re      *regexp.Regexp
}

// Match is a rule that matched a name.
type Match struct {
	Pattern string
	Weight  int
}

// Scorer holds an immutable, compiled rule set.
type Scorer struct {
	rules []Rule
}

// Compile builds a Scorer from configured patterns. Patterns are
// case-insensitive regular expressions; plain words work as substrings.
func Compile(patterns []config.ScorePattern) (*Scorer, error) {
	rules := make([]Rule, 0, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile("(?i)" + p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: score_patterns[%d] %q: %w", config.ErrInvalid, i, p.Pattern, err)
		}
		rules = append(rules, Rule{Pattern: p.Pattern, Weight: p.Weight(), re: re})
	}
	return &Scorer{rules: rules}, nil
}

// Score sums the weights of every rule matching anywhere in name.
func (s *Scorer) Score(name string) int {
	total := 0
	for _, r := range s.rules {
		if r.re.MatchString(name) {
			total += r.Weight
		}
	}
	return total
}

// Explain lists the rules that match name, in rule order.
func (s *Scorer) Explain(name string) []Match {
	var matches []Match
	for _, r := range s.rules {
		if r.re.MatchString(name) {
			matches = append(matches, Match{Pattern: r.Pattern, Weight: r.Weight})
		}
	}
	return matches
}

// Rules returns the number of compiled rules.
func (s *Scorer) Rules() int {
	return len(s.rules)
}
