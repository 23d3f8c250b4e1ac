package database

var (
	RatingTriggerSQLForTest   = ratingTriggerSQL
	CollationSQLForTest       = collationSQL
	WithMySQLFoundRowsForTest = withMySQLFoundRows
)
