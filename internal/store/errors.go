package store

import "errors"

// Low-level database operation errors. These are returned (or wrapped)
// by store methods when a SQL-level operation fails before any domain
// logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised
	// SQL query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrOpeningTransaction is returned when the sqlite driver cannot
	// begin a transaction.
	ErrOpeningTransaction = errors.New("error opening transaction")
)
