package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/nerrad567/movie-catalog/internal/catalog"
)

// movieFilterParams are the query parameters accepted by the movie listing.
var movieFilterParams = []string{"year", "director_id", "genre_id"}

// fieldErrors maps a rejected query parameter to its message. It is written
// to the client as-is.
type fieldErrors map[string]string

func (fe fieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, msg := range fe {
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}

// listMovies serves GET /movies/ with optional year, director_id and
// genre_id filters.
func (s *Server) listMovies(r *http.Request) ([]catalog.Movie, error) {
	filter, err := parseMovieFilter(r.URL.Query())
	if err != nil {
		return nil, err
	}
	return s.catalog.Movies.ListFiltered(r.Context(), filter)
}

// parseMovieFilter reads the filter parameters. Each one, when present and
// non-empty, must consist only of digits. Zero means no filter.
func parseMovieFilter(q url.Values) (catalog.MovieFilter, error) {
	var (
		f    catalog.MovieFilter
		errs = fieldErrors{}
	)

	values := make(map[string]int64, len(movieFilterParams))
	for _, name := range movieFilterParams {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, ok := parseDigits(raw)
		if !ok {
			errs[name] = paramTitle(name) + " must be a digital value"
			continue
		}
		values[name] = n
	}
	if len(errs) > 0 {
		return f, errs
	}

	f.Year = values["year"]
	f.DirectorID = values["director_id"]
	f.GenreID = values["genre_id"]
	return f, nil
}

// parseDigits accepts only ASCII digits; signs, spaces and overflow fail.
func parseDigits(s string) (int64, bool) {
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// paramTitle upper-cases the first letter of each word, where words are
// separated by anything that is not a letter: "director_id" -> "Director_Id".
func paramTitle(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	start := true
	for _, c := range name {
		if unicode.IsLetter(c) {
			if start {
				c = unicode.ToUpper(c)
			}
			start = false
		} else {
			start = true
		}
		b.WriteRune(c)
	}
	return b.String()
}
