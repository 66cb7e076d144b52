package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrSourceUnavailable = errors.New("catalog source unavailable")
	ErrMalformedSource   = errors.New("catalog source malformed")
	ErrInvalidRecord     = errors.New("invalid catalog record")
)

// Store is the immutable movie catalog. It keeps records in source order and
// indexes them by id. A zero Store is a valid empty catalog.
//
// Nothing mutates a Store after NewStore returns, so it is safe for
// concurrent use without locking.
type Store struct {
	movies []Movie
	byID   map[int64]int
}

// NewStore validates movies and builds the id index. Any invalid record or
// duplicate id rejects the whole batch.
func NewStore(movies []Movie) (*Store, error) {
	s := &Store{
		movies: make([]Movie, 0, len(movies)),
		byID:   make(map[int64]int, len(movies)),
	}

	for i, m := range movies {
		if err := checkStruct(m); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidRecord, i, err)
		}
		if _, dup := s.byID[m.ID]; dup {
			return nil, fmt.Errorf("%w: record %d: duplicate id %d", ErrInvalidRecord, i, m.ID)
		}
		s.byID[m.ID] = len(s.movies)
		s.movies = append(s.movies, m)
	}
	return s, nil
}

// ListAll returns every movie in load order. The slice is a copy.
func (s *Store) ListAll() []Movie {
	out := make([]Movie, len(s.movies))
	copy(out, s.movies)
	return out
}

// FindByID returns the movie with the given id. Non-positive ids are never
// found.
func (s *Store) FindByID(id int64) (Movie, bool) {
	if id <= 0 {
		return Movie{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return Movie{}, false
	}
	return s.movies[i], true
}

func (s *Store) Len() int { return len(s.movies) }
