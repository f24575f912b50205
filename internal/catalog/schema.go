package catalog

import "github.com/nerrad567/movie-catalog/internal/crud"

// DirectorSchema maps Director onto the director table.
var DirectorSchema = crud.Schema[Director]{
	Table:  "director",
	Entity: "director",
	ID:     func(d *Director) *int64 { return &d.ID },
	Columns: []crud.Column[Director]{
		{Name: "name", Field: func(d *Director) any { return &d.Name }},
	},
}

// GenreSchema maps Genre onto the genre table.
var GenreSchema = crud.Schema[Genre]{
	Table:  "genre",
	Entity: "genre",
	ID:     func(g *Genre) *int64 { return &g.ID },
	Columns: []crud.Column[Genre]{
		{Name: "name", Field: func(g *Genre) any { return &g.Name }},
	},
}

// MovieSchema maps Movie onto the movie table. Column names match the JSON
// field names so that update bodies can be checked against them.
var MovieSchema = crud.Schema[Movie]{
	Table:  "movie",
	Entity: "movie",
	ID:     func(m *Movie) *int64 { return &m.ID },
	Columns: []crud.Column[Movie]{
		{Name: "title", Field: func(m *Movie) any { return &m.Title }},
		{Name: "description", Field: func(m *Movie) any { return &m.Description }},
		{Name: "trailer", Field: func(m *Movie) any { return &m.Trailer }},
		{Name: "year", Field: func(m *Movie) any { return &m.Year }, Filterable: true},
		{Name: "rating", Field: func(m *Movie) any { return &m.Rating }},
		{Name: "genre_id", Field: func(m *Movie) any { return &m.GenreID }, Filterable: true},
		{Name: "director_id", Field: func(m *Movie) any { return &m.DirectorID }, Filterable: true},
	},
}
