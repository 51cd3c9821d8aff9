package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// activeSessions is the number of sessions held by all managers
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "connect4_active_sessions",
		Help: "Number of live game sessions",
	})

	// gamesFinished counts finished games by result
	gamesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connect4_games_finished_total",
		Help: "Finished games by result",
	}, []string{"result"})
)
