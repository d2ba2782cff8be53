// Package database handles database connections and schema checks.
//
// It wraps GORM and configures MySQL or SQLite connections from the
// application configuration.
//
// # Connect
//
// Connect opens the configured driver, applies pool settings and pings the
// database. SQLite connections are limited to one open connection so that
// ":memory:" databases survive between statements.
//
// # Schema checks
//
// GetTableColumns and MissingColumns let features verify at startup that the
// tables they synchronize into carry the columns their models need.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "contacts", "id", "remote_id", "name")
package database
