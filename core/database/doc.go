// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL connections (the
// production driver) and sqlite connections (tests and local seeding)
// based on the application's configuration.
//
// # Schema Inspection
//
// The package includes tools to inspect the database schema. The
// inventory feature uses them at load time for a sanity check that the
// rental tables carry the columns it relies on, warning early instead
// of failing on the first request.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "materials")
package database
