package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// searchTotal counts bot searches by difficulty and result
	searchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connect4_bot_search_total",
		Help: "Total bot searches by difficulty and result",
	}, []string{"difficulty", "result"})

	// searchDuration tracks how long a column choice takes
	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "connect4_bot_search_duration_seconds",
		Help:    "Bot search duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
	}, []string{"difficulty"})

	// searchNodes tracks the number of minimax nodes visited per search
	searchNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "connect4_bot_search_nodes",
		Help:    "Minimax nodes visited per search",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})
)
