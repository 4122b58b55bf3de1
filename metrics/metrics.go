// Package metrics exposes engine counters over a private prometheus registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	payoutsProcessed prometheus.Counter
	payoutsSkipped   prometheus.Counter
	creditedAmount   *prometheus.GaugeVec
	reconciliations  prometheus.Counter
	activations      prometheus.Counter
	accountBalance   *prometheus.GaugeVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		payoutsProcessed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "yieldsim_payouts_processed_total",
			Help: "Daily payouts credited",
		}),
		payoutsSkipped: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "yieldsim_payouts_skipped_total",
			Help: "Payout invocations resolved as already processed",
		}),
		// A gauge rather than a counter: losing days credit negative amounts.
		creditedAmount: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "yieldsim_credited_amount_total",
			Help: "Net amount credited, by derivation source",
		}, []string{"source"}),
		reconciliations: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "yieldsim_reconciliations_total",
			Help: "Mid-period capital injection reconciliations",
		}),
		activations: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "yieldsim_activations_total",
			Help: "Plans built at account activation",
		}),
		accountBalance: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "yieldsim_account_balance",
			Help: "Current account capital",
		}, []string{"account_id"}),
	}
}

func (c *Collector) RecordPayout(amount float64, source string) {
	c.payoutsProcessed.Inc()
	c.creditedAmount.WithLabelValues(source).Add(amount)
}

func (c *Collector) RecordPayoutSkipped() {
	c.payoutsSkipped.Inc()
}

func (c *Collector) RecordReconciliation() {
	c.reconciliations.Inc()
}

func (c *Collector) RecordActivation() {
	c.activations.Inc()
}

func (c *Collector) SetAccountBalance(accountID string, balance float64) {
	c.accountBalance.WithLabelValues(accountID).Set(balance)
}

// Handler serves the registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
