package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters tracked on the authentication path.
type Metrics struct {
	LoginAttempts   *prometheus.CounterVec
	AccountLockouts prometheus.Counter
	PasswordChanges prometheus.Counter
	SessionsCreated prometheus.Counter
	SessionsExpired prometheus.Counter
}

// New registers auth metrics on the supplied registerer, or the default
// registry when nil.
func New(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	if namespace == "" {
		return nil, fmt.Errorf("metrics namespace is required")
	}
	factory := promauto.With(reg)

	return &Metrics{
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Total login attempts partitioned by outcome",
		}, []string{"outcome"}),
		AccountLockouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "account_lockouts_total",
			Help:      "Total accounts locked after repeated failures",
		}),
		PasswordChanges: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "password_changes_total",
			Help:      "Total successful password changes",
		}),
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Total sessions issued",
		}),
		SessionsExpired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_expired_total",
			Help:      "Total sessions removed via lazy expiry or sweep",
		}),
	}, nil
}
