// Package database provides SQLite connectivity for the movie catalog.
//
// This package manages:
//   - Database connection with WAL mode and foreign keys enforced
//   - Schema migrations loaded from an fs.FS (embedded by package migrations)
//   - Classification of constraint failures for the repository layer
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(database.ConfigFrom(cfg.Database))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with a
// matching .down.sql. Each is applied in its own transaction.
package database
