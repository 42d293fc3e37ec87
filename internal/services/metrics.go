package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportsBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prodboard_reports_built_total",
		Help: "Number of report snapshots built from uploaded workbooks.",
	})

	reportBuildFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prodboard_report_build_failures_total",
		Help: "Number of report builds aborted by structural input errors.",
	})

	rowsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prodboard_rows_ingested_total",
		Help: "Raw rows read from uploaded workbooks.",
	})

	rowsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prodboard_rows_dropped_total",
		Help: "Rows dropped during ingestion, by reason.",
	}, []string{"reason"})

	alertsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prodboard_alerts_emitted_total",
		Help: "Alerts produced by the pattern detector, by kind.",
	}, []string{"kind"})
)
