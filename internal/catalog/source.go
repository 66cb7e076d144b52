package catalog

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
)

//go:embed data/movies.json data/reviews.json
var bundled embed.FS

const (
	bundledPath        = "data/movies.json"
	bundledReviewsPath = "data/reviews.json"
)

// Source yields the raw catalog records, in load order.
type Source interface {
	Name() string
	Records(ctx context.Context) ([]Movie, error)
}

// ReviewSource yields the reviews shown on movie detail pages.
type ReviewSource interface {
	Name() string
	Reviews(ctx context.Context) ([]Review, error)
}

// JSONSource reads a JSON array: movie objects through Records, review
// objects through Reviews.
type JSONSource struct {
	name string
	read func() ([]byte, error)
}

func NewJSONFileSource(path string) *JSONSource {
	return &JSONSource{
		name: "file:" + path,
		read: func() ([]byte, error) { return os.ReadFile(path) },
	}
}

// NewBundledSource reads the dataset compiled into the binary.
func NewBundledSource() *JSONSource {
	return &JSONSource{
		name: "bundled:" + bundledPath,
		read: func() ([]byte, error) { return fs.ReadFile(bundled, bundledPath) },
	}
}

// NewBundledReviewSource reads the reviews compiled into the binary. They
// belong to the bundled catalog.
func NewBundledReviewSource() *JSONSource {
	return &JSONSource{
		name: "bundled:" + bundledReviewsPath,
		read: func() ([]byte, error) { return fs.ReadFile(bundled, bundledReviewsPath) },
	}
}

func NewJSONBytesSource(name string, raw []byte) *JSONSource {
	return &JSONSource{
		name: name,
		read: func() ([]byte, error) { return raw, nil },
	}
}

func (s *JSONSource) Name() string { return s.name }

func (s *JSONSource) Records(ctx context.Context) ([]Movie, error) {
	raw, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return decodeMovies(raw)
}

func (s *JSONSource) Reviews(ctx context.Context) ([]Review, error) {
	raw, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return decodeReviews(raw)
}

func (s *JSONSource) fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := s.read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return raw, nil
}

func decodeMovies(raw []byte) ([]Movie, error) {
	return decodeArray(raw, movieRecord.movie)
}

func decodeReviews(raw []byte) ([]Review, error) {
	return decodeArray(raw, reviewRecord.review)
}
