package catalog

import (
	"context"
	"database/sql"

	"github.com/nerrad567/movie-catalog/internal/crud"
	"github.com/nerrad567/movie-catalog/internal/infrastructure/logging"
)

// Services bundles the catalog resource services.
type Services struct {
	Directors *crud.Service[Director]
	Genres    *crud.Service[Genre]
	Movies    *MovieService
}

// NewServices wires SQLite repositories and services for every catalog resource.
func NewServices(db *sql.DB, logger *logging.Logger) *Services {
	return &Services{
		Directors: NewDirectorService(crud.NewRepository(db, DirectorSchema), logger),
		Genres:    NewGenreService(crud.NewRepository(db, GenreSchema), logger),
		Movies:    NewMovieService(crud.NewRepository(db, MovieSchema), logger),
	}
}

// NewDirectorService creates the director service. Updates only ever write
// the name.
func NewDirectorService(store crud.Store[Director], logger *logging.Logger) *crud.Service[Director] {
	return crud.NewService(store, "director", crud.FixedColumns("name"), crud.Hooks[Director]{
		Validate: ValidateDirector,
	}, logger)
}

// NewGenreService creates the genre service. Updates only ever write the name.
func NewGenreService(store crud.Store[Genre], logger *logging.Logger) *crud.Service[Genre] {
	return crud.NewService(store, "genre", crud.FixedColumns("name"), crud.Hooks[Genre]{
		Validate: ValidateGenre,
	}, logger)
}

// MovieService is the movie resource service. Updates must replace every
// mutable field at once.
type MovieService struct {
	*crud.Service[Movie]
}

// NewMovieService creates the movie service.
func NewMovieService(store crud.Store[Movie], logger *logging.Logger) *MovieService {
	return &MovieService{
		Service: crud.NewService(store, "movie", crud.ExactColumns(), crud.Hooks[Movie]{
			Validate: ValidateMovie,
		}, logger),
	}
}

// ListFiltered returns movies matching every non-zero field of f.
func (s *MovieService) ListFiltered(ctx context.Context, f MovieFilter) ([]Movie, error) {
	return s.List(ctx, crud.Filter{
		"year":        f.Year,
		"director_id": f.DirectorID,
		"genre_id":    f.GenreID,
	})
}
