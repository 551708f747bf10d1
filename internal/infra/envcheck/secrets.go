package envcheck

import "fmt"

const minSecretLength = 32

// coreSecrets are the variables every deployment must configure with strong values.
var coreSecrets = []string{
	"JWT_ACCESS_SECRET",
	"JWT_REFRESH_SECRET",
	"COOKIE_SECRET",
}

// demoCredentialVars carry throwaway credentials for demo and test logins.
// Their presence in production collapses the deployment's trust model.
var demoCredentialVars = []string{
	"DEMO_USER_PASSWORD",
	"TEST_USER_PASSWORD",
}

// SecretReport summarizes the health of the deployment's secret material.
// Secure is true iff no high-severity issue is present; medium issues and
// warnings never block startup.
type SecretReport struct {
	Secure   bool
	Issues   []Issue
	Warnings []string
}

// CheckSecrets verifies presence and minimum strength of the core secret set
// and cross-checks that no two required secrets share a value. Equal strings
// across trust boundaries collapse those boundaries into one.
func CheckSecrets(env Environment, production bool) SecretReport {
	report := SecretReport{}

	for _, name := range coreSecrets {
		value := env.Get(name)
		switch {
		case value == "":
			report.Issues = append(report.Issues, Issue{
				Variable: name,
				Severity: SeverityHigh,
				Message:  fmt.Sprintf("%s is not set", name),
			})
		case len(value) < minSecretLength:
			report.Issues = append(report.Issues, Issue{
				Variable: name,
				Severity: SeverityMedium,
				Message:  fmt.Sprintf("%s is shorter than %d characters", name, minSecretLength),
			})
		}
	}

	for i := 0; i < len(coreSecrets); i++ {
		for j := i + 1; j < len(coreSecrets); j++ {
			a, b := env.Get(coreSecrets[i]), env.Get(coreSecrets[j])
			if a != "" && a == b {
				report.Issues = append(report.Issues, Issue{
					Variable: coreSecrets[i] + "," + coreSecrets[j],
					Severity: SeverityHigh,
					Message:  fmt.Sprintf("%s and %s must not share the same value", coreSecrets[i], coreSecrets[j]),
				})
			}
		}
	}

	for _, name := range demoCredentialVars {
		value := env.Get(name)
		if value == "" {
			continue
		}
		if production {
			report.Issues = append(report.Issues, Issue{
				Variable: name,
				Severity: SeverityHigh,
				Message:  fmt.Sprintf("%s must not be configured in production", name),
			})
		} else if len(value) < minSecretLength {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s is a weak demo credential", name))
		}
	}

	report.Secure = true
	for _, issue := range report.Issues {
		if issue.Severity == SeverityHigh {
			report.Secure = false
			break
		}
	}

	return report
}
