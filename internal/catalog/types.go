package catalog

// Director is a film director.
type Director struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Genre is a film genre.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Movie is a catalog entry. GenreID and DirectorID are optional references;
// when set they must name existing rows.
type Movie struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Trailer     int64  `json:"trailer"`
	Year        int    `json:"year"`
	Rating      string `json:"rating"`
	GenreID     *int64 `json:"genre_id"`
	DirectorID  *int64 `json:"director_id"`
}

// MovieFilter narrows a movie listing. Zero fields are ignored.
type MovieFilter struct {
	Year       int64
	DirectorID int64
	GenreID    int64
}
