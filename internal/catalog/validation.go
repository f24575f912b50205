package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/nerrad567/movie-catalog/internal/crud"
)

// Field limits.
const (
	maxNameLength        = 200
	maxTitleLength       = 500
	maxDescriptionLength = 10_000
	maxRatingLength      = 16
	maxYear              = 9999
)

// ValidateDirector checks director fields.
func ValidateDirector(d *Director) error {
	return validateName("director", d.Name)
}

// ValidateGenre checks genre fields.
func ValidateGenre(g *Genre) error {
	return validateName("genre", g.Name)
}

// ValidateMovie checks movie fields. References are checked by storage.
func ValidateMovie(m *Movie) error {
	if strings.TrimSpace(m.Title) == "" {
		return crud.Errorf(crud.ErrInvalidArgument, "movie title is required")
	}
	if utf8.RuneCountInString(m.Title) > maxTitleLength {
		return crud.Errorf(crud.ErrInvalidArgument, "movie title must be at most %d characters", maxTitleLength)
	}
	if utf8.RuneCountInString(m.Description) > maxDescriptionLength {
		return crud.Errorf(crud.ErrInvalidArgument, "movie description must be at most %d characters", maxDescriptionLength)
	}
	if utf8.RuneCountInString(m.Rating) > maxRatingLength {
		return crud.Errorf(crud.ErrInvalidArgument, "movie rating must be at most %d characters", maxRatingLength)
	}
	if m.Year < 0 || m.Year > maxYear {
		return crud.Errorf(crud.ErrInvalidArgument, "movie year must be between 0 and %d", maxYear)
	}
	if m.Trailer < 0 {
		return crud.Errorf(crud.ErrInvalidArgument, "movie trailer must not be negative")
	}
	if m.GenreID != nil && *m.GenreID <= 0 {
		return crud.Errorf(crud.ErrInvalidArgument, "movie genre_id must be positive")
	}
	if m.DirectorID != nil && *m.DirectorID <= 0 {
		return crud.Errorf(crud.ErrInvalidArgument, "movie director_id must be positive")
	}
	return nil
}

func validateName(entity, name string) error {
	if strings.TrimSpace(name) == "" {
		return crud.Errorf(crud.ErrInvalidArgument, "%s name is required", entity)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return crud.Errorf(crud.ErrInvalidArgument, "%s name must be at most %d characters", entity, maxNameLength)
	}
	return nil
}
