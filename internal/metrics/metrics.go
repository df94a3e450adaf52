package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Catalog Import Metrics
var (
	CatalogImports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCatalogImports,
			Help: HelpTextCatalogImports,
		},
		[]string{LabelOutcome},
	)

	CatalogDefinitionsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCatalogDefinitionsWritten,
			Help: HelpTextCatalogDefinitionsWritten,
		},
		[]string{LabelAction},
	)
)

// Deck Metrics
var (
	DeckDraws = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDeckDraws,
			Help: HelpTextDeckDraws,
		},
		[]string{LabelDeckType},
	)

	DeckReshuffles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDeckReshuffles,
			Help: HelpTextDeckReshuffles,
		},
		[]string{LabelDeckType, LabelKind},
	)
)

// Migration Metrics
var (
	MigrationsRun = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMigrationsRun,
			Help: HelpTextMigrationsRun,
		},
		[]string{LabelOutcome},
	)

	MigrationEntriesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMigrationEntriesSkipped,
			Help: HelpTextMigrationEntriesSkipped,
		},
		[]string{LabelReason},
	)
)
