package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	incentiveCalculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "affiliate_incentive_calculations_total",
		Help: "Incentive calculations performed, by resulting tier state.",
	}, []string{"state"})

	salesRowsUpserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "affiliate_sales_rows_upserted_total",
		Help: "Sales rows written, by ingestion source.",
	}, []string{"source"})

	salesRowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "affiliate_sales_rows_skipped_total",
		Help: "CSV rows rejected during upload.",
	})
)
