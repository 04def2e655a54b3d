// Package metrics exposes Prometheus instrumentation for the ingest worker.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DocumentsProcessed counts processed invoices by terminal status.
	DocumentsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "invoice_ingest",
		Name:      "documents_processed_total",
		Help:      "Invoices processed, labelled by terminal status.",
	}, []string{"status"})

	// RecordsExtracted counts product records emitted by the extractors.
	RecordsExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "invoice_ingest",
		Name:      "records_extracted_total",
		Help:      "Product records reconstructed from invoice documents.",
	})

	// ItemsMatched counts catalog matches by the strategy that produced them.
	ItemsMatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "invoice_ingest",
		Name:      "items_matched_total",
		Help:      "Invoice items resolved against the catalog, by strategy.",
	}, []string{"strategy"})
)

// Serve exposes /metrics on the given port. It blocks, so call it from a
// goroutine.
func Serve(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
