// Package database handles database connections and schema inspection.
//
// Connect opens either MySQL or a cgo-free SQLite file through GORM. The
// database backs the price synchronisation feature: it stores collection
// objects by token and local number.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let features verify that the tables they
// write to carry the expected columns before changing anything.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//
//	missing, err := database.MissingColumns(db, "objects", "token", "price")
package database
