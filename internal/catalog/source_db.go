package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresSource reads the catalog from a movies table and reviews from a
// reviews table. Movie order is the position column, then id.
type PostgresSource struct {
	db  *sql.DB
	dsn string
}

// OpenPostgres opens a pgx-backed database handle and checks it answers.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := withTimeout(ctx, pingTimeout, db.PingContext); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// NewPostgresDSNSource opens its own connection for the load and closes it
// afterwards.
func NewPostgresDSNSource(dsn string) *PostgresSource {
	return &PostgresSource{dsn: dsn}
}

func (s *PostgresSource) Name() string { return "postgres:movies" }

func (s *PostgresSource) Records(ctx context.Context) ([]Movie, error) {
	var out []Movie
	err := s.withDB(ctx, func(db *sql.DB) (err error) {
		out, err = queryMovies(ctx, db)
		return err
	})
	return out, err
}

func (s *PostgresSource) Reviews(ctx context.Context) ([]Review, error) {
	var out []Review
	err := s.withDB(ctx, func(db *sql.DB) (err error) {
		out, err = queryReviews(ctx, db)
		return err
	})
	return out, err
}

func (s *PostgresSource) withDB(ctx context.Context, fn func(*sql.DB) error) error {
	if s.db != nil {
		return fn(s.db)
	}

	db, err := OpenPostgres(ctx, s.dsn)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer db.Close()
	return fn(db)
}

func queryMovies(ctx context.Context, db *sql.DB) ([]Movie, error) {
	var out []Movie

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := db.QueryContext(ctx, `
			SELECT id, movie_name, director, year, genre, description, duration, imdb_rating
			FROM movies
			ORDER BY position ASC, id ASC
		`)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		defer rows.Close()

		out = make([]Movie, 0, 16)
		for i := 0; rows.Next(); i++ {
			var m Movie
			if err := rows.Scan(
				&m.ID, &m.Title, &m.Director, &m.ReleaseYear,
				&m.Genre, &m.Description, &m.DurationMinutes, &m.Rating,
			); err != nil {
				return fmt.Errorf("%w: record %d: %v", ErrInvalidRecord, i, err)
			}
			out = append(out, m)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func queryReviews(ctx context.Context, db *sql.DB) ([]Review, error) {
	var out []Review

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := db.QueryContext(ctx, `
			SELECT movie_id, reviewer, rating, comment
			FROM reviews
			ORDER BY movie_id ASC, id ASC
		`)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		defer rows.Close()

		out = make([]Review, 0, 16)
		for i := 0; rows.Next(); i++ {
			var r Review
			if err := rows.Scan(&r.MovieID, &r.Reviewer, &r.Rating, &r.Comment); err != nil {
				return fmt.Errorf("%w: review %d: %v", ErrInvalidRecord, i, err)
			}
			out = append(out, r)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
