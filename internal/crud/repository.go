package crud

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nerrad567/movie-catalog/internal/infrastructure/database"
)

// Filter narrows List to rows whose columns equal the given values.
// Zero values mean "no filter" and are skipped; the rest AND together.
type Filter map[string]int64

// Repository implements generic CRUD for one entity type over SQLite.
//
// Thread Safety:
//   - Holds no mutable state; safe for concurrent use. Concurrency is
//     delegated to *sql.DB.
type Repository[E any] struct {
	db     *sql.DB
	schema Schema[E]
}

// NewRepository creates a SQLite-backed repository for the given schema.
func NewRepository[E any](db *sql.DB, schema Schema[E]) *Repository[E] {
	return &Repository[E]{db: db, schema: schema}
}

// Columns returns the mutable column names in schema order.
func (r *Repository[E]) Columns() []string {
	return r.schema.ColumnNames()
}

// List returns all rows ordered by id, narrowed by filter.
// An empty table yields an empty, non-nil slice.
func (r *Repository[E]) List(ctx context.Context, filter Filter) ([]E, error) {
	var (
		where []string
		args  []any
	)
	// Iterate schema columns, not the map, so the generated SQL is stable.
	for _, c := range r.schema.Columns {
		v, ok := filter[c.Name]
		if !ok || v == 0 {
			continue
		}
		if !c.Filterable {
			return nil, Errorf(ErrInvalidArgument, "%s cannot be filtered by %s", r.schema.Entity, c.Name)
		}
		where = append(where, quoteIdent(c.Name)+" = ?")
		args = append(args, v)
	}
	for name := range filter {
		if _, ok := r.schema.column(name); !ok {
			return nil, Errorf(ErrInvalidArgument, "%s has no column %s", r.schema.Entity, name)
		}
	}

	query := "SELECT " + r.schema.selectList() + " FROM " + r.schema.table()
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s rows: %w", r.schema.Entity, err)
	}
	defer rows.Close()

	items := make([]E, 0)
	for rows.Next() {
		var e E
		if err := rows.Scan(r.schema.scanTargets(&e)...); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", r.schema.Entity, err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", r.schema.Entity, err)
	}
	return items, nil
}

// Count returns the number of rows in the table.
func (r *Repository[E]) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+r.schema.table()).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s rows: %w", r.schema.Entity, err)
	}
	return n, nil
}

// Get returns the row with the given id.
func (r *Repository[E]) Get(ctx context.Context, id int64) (*E, error) {
	query := "SELECT " + r.schema.selectList() + " FROM " + r.schema.table() + " WHERE id = ?"

	var e E
	err := r.db.QueryRowContext(ctx, query, id).Scan(r.schema.scanTargets(&e)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound(r.schema.Entity, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s %d: %w", r.schema.Entity, id, err)
	}
	return &e, nil
}

// FindBy returns the first row whose column equals value.
// It is intended for columns with a UNIQUE constraint.
func (r *Repository[E]) FindBy(ctx context.Context, column string, value any) (*E, error) {
	if _, ok := r.schema.column(column); !ok {
		return nil, Errorf(ErrInvalidArgument, "%s has no column %s", r.schema.Entity, column)
	}
	query := "SELECT " + r.schema.selectList() + " FROM " + r.schema.table() +
		" WHERE " + quoteIdent(column) + " = ? ORDER BY id LIMIT 1"

	var e E
	err := r.db.QueryRowContext(ctx, query, value).Scan(r.schema.scanTargets(&e)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Errorf(ErrNotFound, "no %s found with %s %v", r.schema.Entity, column, value)
	}
	if err != nil {
		return nil, fmt.Errorf("finding %s by %s: %w", r.schema.Entity, column, err)
	}
	return &e, nil
}

// Create inserts entity and writes the storage-assigned id back into it.
// Any id already set on entity is ignored.
func (r *Repository[E]) Create(ctx context.Context, entity *E) error {
	cols := make([]string, len(r.schema.Columns))
	marks := make([]string, len(r.schema.Columns))
	args := make([]any, len(r.schema.Columns))
	for i, c := range r.schema.Columns {
		cols[i] = quoteIdent(c.Name)
		marks[i] = "?"
		args[i] = c.Field(entity)
	}
	query := "INSERT INTO " + r.schema.table() +
		" (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return r.classifyWrite(err, "inserting")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading %s id: %w", r.schema.Entity, err)
	}
	*r.schema.ID(entity) = id
	return nil
}

// Update sets the named columns of row id from entity and returns the number
// of rows affected (0 when id does not exist, otherwise 1).
func (r *Repository[E]) Update(ctx context.Context, id int64, columns []string, entity *E) (int64, error) {
	if len(columns) == 0 {
		return 0, Errorf(ErrInvalidArgument, "no %s fields to update", r.schema.Entity)
	}

	sets := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns)+1)
	for _, name := range columns {
		c, ok := r.schema.column(name)
		if !ok {
			return 0, Errorf(ErrInvalidArgument, "%s has no column %s", r.schema.Entity, name)
		}
		sets = append(sets, quoteIdent(c.Name)+" = ?")
		args = append(args, c.Field(entity))
	}
	args = append(args, id)

	query := "UPDATE " + r.schema.table() + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, r.classifyWrite(err, "updating")
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}
	return n, nil
}

// Delete removes row id. A missing row yields the same error as Get.
func (r *Repository[E]) Delete(ctx context.Context, id int64) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, "DELETE FROM "+r.schema.table()+" WHERE id = ?", id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return Errorf(ErrConflict, "%s %d is still referenced", r.schema.Entity, id)
		}
		return fmt.Errorf("deleting %s %d: %w", r.schema.Entity, id, err)
	}
	return nil
}

// classifyWrite maps constraint failures on INSERT/UPDATE to domain errors.
func (r *Repository[E]) classifyWrite(err error, op string) error {
	switch {
	case database.IsUniqueViolation(err):
		return Errorf(ErrConflict, "%s already exists", r.schema.Entity)
	case database.IsForeignKeyViolation(err):
		return Errorf(ErrInvalidArgument, "%s references a row that does not exist", r.schema.Entity)
	default:
		return fmt.Errorf("%s %s: %w", op, r.schema.Entity, err)
	}
}
