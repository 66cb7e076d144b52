package catalog

// Movie is a single catalog record. JSON names follow the catalog data files.
type Movie struct {
	ID              int64   `json:"id" validate:"gt=0"`
	Title           string  `json:"movieName" validate:"required"`
	Director        string  `json:"director"`
	ReleaseYear     int     `json:"year"`
	Genre           string  `json:"genre"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration"`
	Rating          float64 `json:"imdbRating"`
}

// movieRecord is the wire shape of one entry in a JSON catalog. Every field
// is a pointer so an absent key can be told apart from a zero value.
type movieRecord struct {
	ID          *int64   `json:"id" validate:"required"`
	MovieName   *string  `json:"movieName" validate:"required"`
	Director    *string  `json:"director" validate:"required"`
	Year        *int     `json:"year" validate:"required"`
	Genre       *string  `json:"genre" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Duration    *int     `json:"duration" validate:"required"`
	IMDbRating  *float64 `json:"imdbRating" validate:"required"`
}

func (r movieRecord) movie() Movie {
	return Movie{
		ID:              *r.ID,
		Title:           *r.MovieName,
		Director:        *r.Director,
		ReleaseYear:     *r.Year,
		Genre:           *r.Genre,
		Description:     *r.Description,
		DurationMinutes: *r.Duration,
		Rating:          *r.IMDbRating,
	}
}
