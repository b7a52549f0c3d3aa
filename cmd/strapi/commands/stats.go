package commands

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
)

var (
	statsMu        sync.Mutex
	statsCollector *strapi.MetricsCollector
)

// attachStats registers metrics interceptors on config. Every client built in
// the process reports to the same collector.
func attachStats(config *strapi.Config) {
	statsMu.Lock()
	defer statsMu.Unlock()

	if statsCollector == nil {
		statsCollector = strapi.NewMetricsCollector()
	}

	config.RequestInterceptors = append(config.RequestInterceptors, strapi.MetricsRequestInterceptor(statsCollector))
	config.ResponseInterceptors = append(config.ResponseInterceptors, strapi.MetricsResponseInterceptor(statsCollector))
}

// PrintStats writes the request statistics gathered with --stats to out.
func PrintStats(out io.Writer) error {
	statsMu.Lock()
	collector := statsCollector
	statsMu.Unlock()

	if collector == nil {
		return nil
	}

	endpoints := collector.Endpoints()
	if len(endpoints) == 0 {
		return nil
	}

	table := &tableBuilder{}
	table.header("Endpoint", "Requests", "Errors", "Avg Latency")

	for _, endpoint := range endpoints {
		metrics, ok := collector.GetMetrics(endpoint)
		if !ok {
			continue
		}

		table.row(
			endpoint,
			strconv.FormatInt(metrics.TotalRequests, 10),
			strconv.FormatInt(metrics.TotalErrors, 10),
			metrics.AverageLatency.String(),
		)
	}

	err := table.render(out)
	if err != nil {
		return fmt.Errorf("failed to print stats: %w", err)
	}

	return nil
}
