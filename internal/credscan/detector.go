// Package credscan performs pattern-based static scanning of source and
// configuration content for likely hardcoded credentials. It runs at build or
// CI time, never on the request path, and its findings are structured results
// rather than errors: the calling CI step decides whether to fail the build.
package credscan

import (
	"fmt"
	"strings"
)

// Violation describes a single suspected hardcoded credential.
// Content carries the full trimmed source line for operator triage.
type Violation struct {
	Line     int
	Content  string
	Match    string
	RuleID   string
	Severity Severity
	Filename string
}

// Report is the outcome of scanning one piece of content.
type Report struct {
	HasViolations bool
	Violations    []Violation
	Summary       string
}

// Detector applies an ordered rule set to text content.
type Detector struct {
	rules []Rule
}

// NewDetector constructs a detector with the provided rules, or the default
// rule set when none are given.
func NewDetector(rules ...Rule) *Detector {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return &Detector{rules: copied}
}

// ScanContent scans text line by line and reports at most one violation per
// line, from the earliest matching rule. A match whose span contains
// environment-variable indirection is skipped inline: the surrounding line may
// look like a credential assignment, but the value is a reference, not a secret.
func (d *Detector) ScanContent(text, filename string) Report {
	report := Report{}

	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		for _, rule := range d.rules {
			match := rule.Pattern.FindString(line)
			if match == "" {
				continue
			}
			if hasIndirection(match) {
				continue
			}

			report.Violations = append(report.Violations, Violation{
				Line:     i + 1,
				Content:  trimmed,
				Match:    match,
				RuleID:   rule.ID,
				Severity: rule.Severity,
				Filename: filename,
			})
			break
		}
	}

	report.HasViolations = len(report.Violations) > 0
	report.Summary = summarize(report.Violations)
	return report
}

func hasIndirection(span string) bool {
	lower := strings.ToLower(span)
	for _, marker := range indirectionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func summarize(violations []Violation) string {
	if len(violations) == 0 {
		return "no credential violations found"
	}

	counts := map[Severity]int{}
	for _, v := range violations {
		counts[v.Severity]++
	}

	noun := "violations"
	if len(violations) == 1 {
		noun = "violation"
	}

	return fmt.Sprintf("found %d potential credential %s: %d high, %d medium, %d low severity",
		len(violations), noun, counts[SeverityHigh], counts[SeverityMedium], counts[SeverityLow])
}
