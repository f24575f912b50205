package crud

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/nerrad567/movie-catalog/internal/infrastructure/database"
)

// owner and gadget are test entities: gadget references owner and carries
// a unique serial.
type owner struct {
	ID   int64
	Name string
}

type gadget struct {
	ID      int64
	Serial  string
	Year    int
	OwnerID *int64
}

var ownerSchema = Schema[owner]{
	Table:  "owner",
	Entity: "owner",
	ID:     func(o *owner) *int64 { return &o.ID },
	Columns: []Column[owner]{
		{Name: "name", Field: func(o *owner) any { return &o.Name }},
	},
}

var gadgetSchema = Schema[gadget]{
	Table:  "gadget",
	Entity: "gadget",
	ID:     func(g *gadget) *int64 { return &g.ID },
	Columns: []Column[gadget]{
		{Name: "serial", Field: func(g *gadget) any { return &g.Serial }},
		{Name: "year", Field: func(g *gadget) any { return &g.Year }, Filterable: true},
		{Name: "owner_id", Field: func(g *gadget) any { return &g.OwnerID }, Filterable: true},
	},
}

const testSchemaSQL = `
CREATE TABLE owner (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL
) STRICT;
CREATE TABLE gadget (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	serial TEXT NOT NULL UNIQUE,
	year INTEGER NOT NULL,
	owner_id INTEGER REFERENCES owner(id)
) STRICT;
`

// testDB opens a temporary SQLite database with the test tables.
func testDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "crud.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if _, err := db.ExecContext(context.Background(), testSchemaSQL); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}
	return db
}

func ptr(v int64) *int64 { return &v }

func TestRepository_CreateGetRoundTrip(t *testing.T) {
	db := testDB(t)
	owners := NewRepository(db.DB, ownerSchema)
	gadgets := NewRepository(db.DB, gadgetSchema)
	ctx := context.Background()

	o := &owner{Name: "Ada"}
	if err := owners.Create(ctx, o); err != nil {
		t.Fatalf("Create(owner) error = %v", err)
	}
	if o.ID == 0 {
		t.Fatal("Create(owner) did not write back id")
	}

	g := &gadget{ID: 999, Serial: "G-1", Year: 2001, OwnerID: ptr(o.ID)}
	if err := gadgets.Create(ctx, g); err != nil {
		t.Fatalf("Create(gadget) error = %v", err)
	}
	if g.ID == 999 {
		t.Error("Create() should ignore a caller-supplied id")
	}

	got, err := gadgets.Get(ctx, g.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Serial != "G-1" || got.Year != 2001 || got.OwnerID == nil || *got.OwnerID != o.ID {
		t.Errorf("Get() = %+v, want serial G-1, year 2001, owner %d", got, o.ID)
	}
}

func TestRepository_NullableReference(t *testing.T) {
	db := testDB(t)
	gadgets := NewRepository(db.DB, gadgetSchema)
	ctx := context.Background()

	g := &gadget{Serial: "G-null", Year: 1999}
	if err := gadgets.Create(ctx, g); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := gadgets.Get(ctx, g.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.OwnerID != nil {
		t.Errorf("OwnerID = %v, want nil", *got.OwnerID)
	}
}

func TestRepository_GetNotFound(t *testing.T) {
	db := testDB(t)
	gadgets := NewRepository(db.DB, gadgetSchema)

	_, err := gadgets.Get(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
	if got, want := Message(err), "no gadget found with id 42"; got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}
}

func TestRepository_ListFilters(t *testing.T) {
	db := testDB(t)
	owners := NewRepository(db.DB, ownerSchema)
	gadgets := NewRepository(db.DB, gadgetSchema)
	ctx := context.Background()

	empty, err := gadgets.List(ctx, nil)
	if err != nil {
		t.Fatalf("List() on empty table error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("List() on empty table = %#v, want empty non-nil slice", empty)
	}

	o := &owner{Name: "Ada"}
	if err := owners.Create(ctx, o); err != nil {
		t.Fatalf("Create(owner) error = %v", err)
	}
	for _, g := range []*gadget{
		{Serial: "a", Year: 2000, OwnerID: ptr(o.ID)},
		{Serial: "b", Year: 2001},
		{Serial: "c", Year: 2000},
	} {
		if err := gadgets.Create(ctx, g); err != nil {
			t.Fatalf("Create(%s) error = %v", g.Serial, err)
		}
	}

	tests := []struct {
		name    string
		filter  Filter
		serials []string
	}{
		{name: "no filter", filter: nil, serials: []string{"a", "b", "c"}},
		{name: "zero values skipped", filter: Filter{"year": 0, "owner_id": 0}, serials: []string{"a", "b", "c"}},
		{name: "year", filter: Filter{"year": 2000}, serials: []string{"a", "c"}},
		{name: "year and owner", filter: Filter{"year": 2000, "owner_id": o.ID}, serials: []string{"a"}},
		{name: "no match", filter: Filter{"year": 1980}, serials: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gadgets.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != len(tt.serials) {
				t.Fatalf("List() returned %d rows, want %d", len(got), len(tt.serials))
			}
			for i, g := range got {
				if g.Serial != tt.serials[i] {
					t.Errorf("row %d serial = %q, want %q", i, g.Serial, tt.serials[i])
				}
			}
		})
	}
}

func TestRepository_ListRejectsBadFilter(t *testing.T) {
	db := testDB(t)
	gadgets := NewRepository(db.DB, gadgetSchema)
	ctx := context.Background()

	if _, err := gadgets.List(ctx, Filter{"serial": 1}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("List(non-filterable) error = %v, want ErrInvalidArgument", err)
	}
	if _, err := gadgets.List(ctx, Filter{"colour": 1}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("List(unknown column) error = %v, want ErrInvalidArgument", err)
	}
}

func TestRepository_FindBy(t *testing.T) {
	db := testDB(t)
	gadgets := NewRepository(db.DB, gadgetSchema)
	ctx := context.Background()

	if err := gadgets.Create(ctx, &gadget{Serial: "find-me", Year: 2010}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := gadgets.FindBy(ctx, "serial", "find-me")
	if err != nil {
		t.Fatalf("FindBy() error = %v", err)
	}
	if got.Year != 2010 {
		t.Errorf("FindBy().Year = %d, want 2010", got.Year)
	}

	if _, err := gadgets.FindBy(ctx, "serial", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindBy(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := gadgets.FindBy(ctx, "serial; DROP TABLE gadget", "x"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("FindBy(bad column) error = %v, want ErrInvalidArgument", err)
	}
}

func TestRepository_ConstraintErrors(t *testing.T) {
	db := testDB(t)
	owners := NewRepository(db.DB, ownerSchema)
	gadgets := NewRepository(db.DB, gadgetSchema)
	ctx := context.Background()

	if err := gadgets.Create(ctx, &gadget{Serial: "dup", Year: 1}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := gadgets.Create(ctx, &gadget{Serial: "dup", Year: 2}); !errors.Is(err, ErrConflict) {
		t.Errorf("Create(duplicate serial) error = %v, want ErrConflict", err)
	}

	if err := gadgets.Create(ctx, &gadget{Serial: "orphan", Year: 1, OwnerID: ptr(77)}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Create(dangling owner) error = %v, want ErrInvalidArgument", err)
	}

	o := &owner{Name: "Ada"}
	if err := owners.Create(ctx, o); err != nil {
		t.Fatalf("Create(owner) error = %v", err)
	}
	if err := gadgets.Create(ctx, &gadget{Serial: "owned", Year: 1, OwnerID: ptr(o.ID)}); err != nil {
		t.Fatalf("Create(owned) error = %v", err)
	}
	if err := owners.Delete(ctx, o.ID); !errors.Is(err, ErrConflict) {
		t.Errorf("Delete(referenced owner) error = %v, want ErrConflict", err)
	}
}

func TestRepository_Update(t *testing.T) {
	db := testDB(t)
	gadgets := NewRepository(db.DB, gadgetSchema)
	ctx := context.Background()

	g := &gadget{Serial: "before", Year: 2000}
	if err := gadgets.Create(ctx, g); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	n, err := gadgets.Update(ctx, g.ID, []string{"year"}, &gadget{Serial: "ignored", Year: 2024})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Update() rows = %d, want 1", n)
	}

	got, err := gadgets.Get(ctx, g.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Year != 2024 || got.Serial != "before" {
		t.Errorf("after Update() = %+v, want year 2024 and serial unchanged", got)
	}

	n, err = gadgets.Update(ctx, 9999, []string{"year"}, &gadget{Year: 1})
	if err != nil {
		t.Fatalf("Update(missing id) error = %v", err)
	}
	if n != 0 {
		t.Errorf("Update(missing id) rows = %d, want 0", n)
	}

	if _, err := gadgets.Update(ctx, g.ID, nil, g); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Update(no columns) error = %v, want ErrInvalidArgument", err)
	}
	if _, err := gadgets.Update(ctx, g.ID, []string{"id"}, g); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Update(id column) error = %v, want ErrInvalidArgument", err)
	}
}

func TestRepository_Delete(t *testing.T) {
	db := testDB(t)
	gadgets := NewRepository(db.DB, gadgetSchema)
	ctx := context.Background()

	g := &gadget{Serial: "gone", Year: 2000}
	if err := gadgets.Create(ctx, g); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := gadgets.Delete(ctx, g.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := gadgets.Get(ctx, g.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete() error = %v, want ErrNotFound", err)
	}

	err := gadgets.Delete(ctx, g.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete(missing) error = %v, want ErrNotFound", err)
	}
	if got, want := Message(err), "no gadget found with id 1"; got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}
}

func TestRepository_Count(t *testing.T) {
	db := testDB(t)
	owners := NewRepository(db.DB, ownerSchema)
	ctx := context.Background()

	if n, err := owners.Count(ctx); err != nil || n != 0 {
		t.Fatalf("Count() = %d, %v; want 0, nil", n, err)
	}
	for _, name := range []string{"a", "b", "c"} {
		if err := owners.Create(ctx, &owner{Name: name}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if n, err := owners.Count(ctx); err != nil || n != 3 {
		t.Errorf("Count() = %d, %v; want 3, nil", n, err)
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := quoteIdent("user"); got != `"user"` {
		t.Errorf("quoteIdent(user) = %s", got)
	}
	if got := quoteIdent(`we"ird`); got != `"we""ird"` {
		t.Errorf("quoteIdent(we\"ird) = %s", got)
	}
}

func TestRepository_ConcurrentWritesNoLeaks(t *testing.T) {
	db := testDB(t)
	owners := NewRepository(db.DB, ownerSchema)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := owners.Create(ctx, &owner{Name: fmt.Sprintf("owner-%d", i)}); err != nil {
				errs <- err
				return
			}
			if _, err := owners.List(ctx, nil); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent write error = %v", err)
	}

	all, err := owners.List(ctx, nil)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != writers {
		t.Errorf("List() returned %d owners, want %d", len(all), writers)
	}

	// The pool's opener and cleaner goroutines exit only once the handle closes.
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	goleak.VerifyNone(t)
}
