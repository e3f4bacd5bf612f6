package postgres

const (
	// SQL table names:
	counterTable = "counter"

	// SQL column names:
	counterName     = counterTable + ".name"
	counterValue    = counterTable + ".value"
	counterModified = counterTable + ".modified"

	// WHERE clause fragments:
	isCounter = counterName + "=$1"
)
