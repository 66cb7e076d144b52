package catalog

import (
	"fmt"
	"sort"
)

// Review is one reader review attached to a catalog movie.
type Review struct {
	MovieID  int64   `json:"movieId" validate:"gt=0"`
	Reviewer string  `json:"reviewer" validate:"required"`
	Rating   float64 `json:"rating" validate:"min=0,max=5"`
	Comment  string  `json:"comment"`
}

type reviewRecord struct {
	MovieID  *int64   `json:"movieId" validate:"required"`
	Reviewer *string  `json:"reviewer" validate:"required"`
	Rating   *float64 `json:"rating" validate:"required"`
	Comment  *string  `json:"comment" validate:"required"`
}

func (r reviewRecord) review() Review {
	return Review{
		MovieID:  *r.MovieID,
		Reviewer: *r.Reviewer,
		Rating:   *r.Rating,
		Comment:  *r.Comment,
	}
}

// Reviews indexes reviews by movie id. Like Store it is immutable once built.
// A nil *Reviews holds no reviews.
type Reviews struct {
	byMovie map[int64][]Review
	n       int
}

// NewReviews validates every review. Reviews for ids missing from the
// catalog are kept; they are simply never asked for.
func NewReviews(list []Review) (*Reviews, error) {
	rs := &Reviews{byMovie: make(map[int64][]Review)}
	for i, r := range list {
		if err := checkStruct(r); err != nil {
			return nil, fmt.Errorf("%w: review %d: %v", ErrInvalidRecord, i, err)
		}
		rs.byMovie[r.MovieID] = append(rs.byMovie[r.MovieID], r)
	}
	rs.n = len(list)
	return rs, nil
}

// For returns the reviews of one movie in load order. The result is never
// nil and never aliases the index.
func (rs *Reviews) For(movieID int64) []Review {
	if rs == nil {
		return []Review{}
	}
	return append([]Review{}, rs.byMovie[movieID]...)
}

// Len is the total number of reviews held.
func (rs *Reviews) Len() int {
	if rs == nil {
		return 0
	}
	return rs.n
}

// MovieIDs lists the movies that have at least one review, ascending.
func (rs *Reviews) MovieIDs() []int64 {
	if rs == nil {
		return nil
	}
	out := make([]int64, 0, len(rs.byMovie))
	for id := range rs.byMovie {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
