package config

import "time"

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./library.db"

	// DefaultLoanPeriod is how long a checked out book may be kept before it is overdue
	DefaultLoanPeriod = 14 * 24 * time.Hour

	// DefaultDailyLateFee is charged for every whole day a book is past due
	DefaultDailyLateFee = 1.00

	DefaultAdminEmail = "admin@library.local"
)
