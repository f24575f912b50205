package auth

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for auth metrics.
const (
	ResultSuccess         = "success"
	ResultUnknownUser     = "unknown_user"
	ResultBadPassword     = "bad_password"
	ResultError           = "error"
	ResultAllowed         = "allowed"
	ResultUnauthenticated = "unauthenticated"
	ResultForbidden       = "forbidden"
)

// Metrics holds the auth Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Logins        *prometheus.CounterVec
	TokensIssued  *prometheus.CounterVec
	GateDecisions *prometheus.CounterVec
}

// NewMetrics creates unregistered auth collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moviecatalog_auth_logins_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		TokensIssued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moviecatalog_auth_token_pairs_issued_total",
				Help: "Token pairs issued, by the operation that issued them",
			},
			[]string{"operation"},
		),
		GateDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moviecatalog_auth_gate_decisions_total",
				Help: "Access gate decisions by result",
			},
			[]string{"result"},
		),
	}
}

// Register adds the collectors to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Logins, m.TokensIssued, m.GateDecisions} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) observeLogin(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}

func (m *Metrics) observePairIssued(operation string) {
	if m == nil {
		return
	}
	m.TokensIssued.WithLabelValues(operation).Inc()
}

func (m *Metrics) observeDecision(d Decision) {
	if m == nil {
		return
	}
	result := ResultAllowed
	switch {
	case d.Allowed:
	case errors.Is(d.Err, ErrForbidden):
		result = ResultForbidden
	default:
		result = ResultUnauthenticated
	}
	m.GateDecisions.WithLabelValues(result).Inc()
}
