package metrics

// Metric Names
const (
	MetricNameCatalogImports            = "arsenal_catalog_imports_total"
	MetricNameCatalogDefinitionsWritten = "arsenal_catalog_definitions_written_total"
	MetricNameDeckDraws                 = "arsenal_deck_draws_total"
	MetricNameDeckReshuffles            = "arsenal_deck_reshuffles_total"
	MetricNameMigrationsRun             = "arsenal_migrations_run_total"
	MetricNameMigrationEntriesSkipped   = "arsenal_migration_entries_skipped_total"
)

// Help Texts
const (
	HelpTextCatalogImports            = "Catalog import attempts by outcome"
	HelpTextCatalogDefinitionsWritten = "Definitions created, updated or deprecated during imports"
	HelpTextDeckDraws                 = "Cards drawn per deck type"
	HelpTextDeckReshuffles            = "Deck reshuffles per deck type and kind"
	HelpTextMigrationsRun             = "Legacy inventory migrations by outcome"
	HelpTextMigrationEntriesSkipped   = "Legacy loadout entries skipped during migration by reason"
)

// Label Names
const (
	LabelOutcome  = "outcome"
	LabelAction   = "action"
	LabelDeckType = "deck_type"
	LabelKind     = "kind"
	LabelReason   = "reason"
)

// Outcome Label Values
const (
	OutcomeImported   = "imported"
	OutcomeSkipped    = "skipped"
	OutcomeFailed     = "failed"
	OutcomeMigrated   = "migrated"
	OutcomeNoop       = "noop"
	OutcomeRolledBack = "rolled_back"
)

// Action Label Values
const (
	ActionCreated    = "created"
	ActionUpdated    = "updated"
	ActionDeprecated = "deprecated"
)

// Reshuffle Kind Label Values
const (
	KindRecycle  = "recycle"
	KindReset    = "reset"
	KindDegraded = "degraded"
)

// Skip Reason Label Values
const (
	ReasonParse  = "parse"
	ReasonLookup = "lookup"
)
