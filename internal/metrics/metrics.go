// Package metrics exposes Prometheus counters for the message pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MessagesTotal counts processed messages by classified intent.
	MessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buyergpt_messages_total",
		Help: "Messages processed, partitioned by classified intent.",
	}, []string{"intent"})

	// LLMCallsTotal counts completion calls against the language service.
	LLMCallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buyergpt_llm_calls_total",
		Help: "Completion calls issued to the language service.",
	})

	// ShoppingFetchesTotal counts shopping-provider searches.
	ShoppingFetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buyergpt_shopping_fetches_total",
		Help: "Searches issued to the shopping provider.",
	})

	// SkippedOffersTotal counts offers dropped while formatting a reply.
	// A skipped offer is a partial degradation, not a pipeline failure,
	// so it only surfaces here.
	SkippedOffersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buyergpt_skipped_offers_total",
		Help: "Offers dropped during reply formatting.",
	})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
