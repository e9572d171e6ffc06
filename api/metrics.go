package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skycast_queries_total",
		Help: "Queries answered, labelled by the route the graph chose.",
	}, []string{"route"})

	indexBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skycast_index_builds_total",
		Help: "Vector index builds, labelled by outcome.",
	}, []string{"status"})
)
