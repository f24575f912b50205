package crud

import "strings"

// Column describes one mutable column of an entity table.
type Column[E any] struct {
	// Name is the column name. It doubles as the JSON field name in request
	// bodies, which is how update policies match supplied fields to columns.
	Name string

	// Field returns a pointer to the struct field backing the column.
	// The same pointer serves as a Scan destination and an Exec argument.
	Field func(e *E) any

	// Filterable allows equality filtering on this column in List.
	Filterable bool
}

// Schema maps an entity type onto a table with an integer primary key "id".
type Schema[E any] struct {
	// Table is the unquoted table name.
	Table string

	// Entity is the human-readable singular name used in error messages.
	Entity string

	// ID returns a pointer to the entity's id field.
	ID func(e *E) *int64

	// Columns lists every column except id, in insert order.
	Columns []Column[E]
}

// ColumnNames returns the mutable column names in schema order.
func (s Schema[E]) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// column looks up a mutable column by name.
func (s Schema[E]) column(name string) (Column[E], bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column[E]{}, false
}

// table returns the quoted table name, safe for reserved words like "user".
func (s Schema[E]) table() string {
	return quoteIdent(s.Table)
}

// selectList returns "id", followed by every column, quoted.
func (s Schema[E]) selectList() string {
	cols := make([]string, 0, len(s.Columns)+1)
	cols = append(cols, quoteIdent("id"))
	for _, c := range s.Columns {
		cols = append(cols, quoteIdent(c.Name))
	}
	return strings.Join(cols, ", ")
}

// scanTargets returns Scan destinations matching selectList.
func (s Schema[E]) scanTargets(e *E) []any {
	targets := make([]any, 0, len(s.Columns)+1)
	targets = append(targets, s.ID(e))
	for _, c := range s.Columns {
		targets = append(targets, c.Field(e))
	}
	return targets
}

// quoteIdent quotes a SQL identifier. Identifiers only ever come from
// Schema definitions, never from request input.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
