package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cheqd/wallet-core/utils"
)

// Initialize serves the registered metrics on :port/metrics in the background.
func Initialize(port string) error {
	mux := http.NewServeMux()
	// Metrics have to be registered to be exposed:
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		err := http.ListenAndServe(":"+port, mux)
		if err != nil {
			utils.ErrorLog("metrics server stopped", err)
		}
	}()
	return nil
}
