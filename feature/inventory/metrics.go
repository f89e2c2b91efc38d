package inventory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	savesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_saves_total",
		Help: "Draft saves of return inventories, by result.",
	}, []string{"result"})

	terminationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_terminations_total",
		Help: "Terminations of return inventories, by result.",
	}, []string{"result"})

	validationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_validation_failures_total",
		Help: "Save/terminate requests rejected by quantity validation.",
	})

	archivesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_archives_total",
		Help: "Background archive uploads of terminated inventories, by result.",
	}, []string{"result"})
)
