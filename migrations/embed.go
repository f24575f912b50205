// Package migrations embeds the SQL schema migrations into the binary.
//
// Importing this package (usually for side effects) registers the files with
// the database package so that DB.Migrate can apply them without the SQL
// being present on disk.
package migrations

import (
	"embed"

	"github.com/nerrad567/movie-catalog/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
