package credscan

import "regexp"

// Severity classifies how dangerous a detected credential is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rule is a named detection pattern. The rule set is data, not code: new
// secret formats are added here without touching the scan loop.
type Rule struct {
	ID       string
	Severity Severity
	Pattern  *regexp.Regexp
}

// DefaultRules returns the built-in rule set, ordered so that the most
// specific, highest-confidence patterns match first. The scanner reports at
// most one violation per line, from the earliest matching rule.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:       "connection-string-credentials",
			Severity: SeverityHigh,
			Pattern:  regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|mysql|mongodb(?:\+srv)?|redis|amqp)://[^\s'"@]+:[^\s'"@]+@[^\s'"]+`),
		},
		{
			ID:       "jwt-secret-assignment",
			Severity: SeverityHigh,
			Pattern:  regexp.MustCompile(`(?i)jwt[_-]?(?:access[_-]?|refresh[_-]?)?secret\b[^=:\n]*[:=]\s*['"][^'"]+['"]`),
		},
		{
			ID:       "api-key-assignment",
			Severity: SeverityHigh,
			Pattern:  regexp.MustCompile(`(?i)(?:api[_-]?key|access[_-]?key|secret[_-]?key|auth[_-]?token|secret|token)\b[^=:\n]*[:=]\s*['"][^'"]{8,}['"]`),
		},
		{
			ID:       "password-assignment",
			Severity: SeverityMedium,
			Pattern:  regexp.MustCompile(`(?i)(?:password|passwd|pwd)\b[^=:\n]*[:=]\s*['"][^'"]{4,}['"]`),
		},
		{
			ID:       "email-password-pair",
			Severity: SeverityMedium,
			Pattern:  regexp.MustCompile(`(?i)['"][A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}['"]\s*,\s*['"][^'"]{4,}['"]`),
		},
		{
			ID:       "placeholder-credentials",
			Severity: SeverityLow,
			Pattern:  regexp.MustCompile(`(?i)\b(?:admin@[a-z0-9.-]+|[a-z0-9._%+-]+@example\.com|password123|changeme|letmein)\b`),
		},
	}
}

// indirectionMarkers identify environment-variable indirection inside a
// matched span. A span carrying one of these references a secret rather than
// embedding it, so it is never a violation.
var indirectionMarkers = []string{
	"process.env",
	"os.getenv",
	"os.environ",
	"getenv(",
	"env(",
	"${",
	"{{",
	"import.meta.env",
}
