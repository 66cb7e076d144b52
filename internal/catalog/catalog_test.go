package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fixtureMovies() []Movie {
	return []Movie{
		{ID: 1, Title: "The Prison Escape", Director: "John Director", ReleaseYear: 1994, Genre: "Drama", DurationMinutes: 142, Rating: 5.0},
		{ID: 2, Title: "The Family Boss", Director: "Michael Filmmaker", ReleaseYear: 1972, Genre: "Crime, Drama", DurationMinutes: 175, Rating: 5.0},
		{ID: 3, Title: "The Masked Hero", Director: "Chris Moviemaker", ReleaseYear: 2008, Genre: "Action, Crime", DurationMinutes: 152, Rating: 5.0},
		{ID: 7, Title: "Life Journey", Director: "Robert Filmmaker", ReleaseYear: 1994, Genre: "Drama, Romance", DurationMinutes: 142, Rating: 4.0},
		{ID: 5, Title: "Straße der Träume", Director: "Anna Regie", ReleaseYear: 2003, Genre: "Drama", DurationMinutes: 99, Rating: 3.5},
	}
}

func newFixtureStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(fixtureMovies())
	require.NoError(t, err)
	return s
}

func newFixtureEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(newFixtureStore(t), nil)
}

func ids(movies []Movie) []int64 {
	out := make([]int64, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.ID)
	}
	return out
}
