package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LoadReport describes the outcome of a one-time load.
type LoadReport struct {
	Source   string
	Count    int
	LoadedAt time.Time
	Err      error
}

func (r LoadReport) OK() bool { return r.Err == nil }

// Load builds the catalog from src. It never fails: when the source cannot be
// read, cannot be parsed, or holds an invalid record, the returned Store is
// empty and the report carries the cause.
func Load(ctx context.Context, src Source, log *zap.Logger) (*Store, LoadReport) {
	return loadOnce(ctx, src.Name(), "catalog", log, &Store{}, func(ctx context.Context) (*Store, error) {
		movies, err := src.Records(ctx)
		if err != nil {
			return nil, err
		}
		return NewStore(movies)
	})
}

// LoadReviews builds the review index from src with the same policy as Load:
// any failure leaves no reviews at all.
func LoadReviews(ctx context.Context, src ReviewSource, log *zap.Logger) (*Reviews, LoadReport) {
	return loadOnce(ctx, src.Name(), "reviews", log, &Reviews{}, func(ctx context.Context) (*Reviews, error) {
		list, err := src.Reviews(ctx)
		if err != nil {
			return nil, err
		}
		return NewReviews(list)
	})
}

type counted interface{ Len() int }

func loadOnce[T counted](
	ctx context.Context,
	source, what string,
	log *zap.Logger,
	empty T,
	build func(context.Context) (T, error),
) (T, LoadReport) {
	if log == nil {
		log = zap.NewNop()
	}

	rep := LoadReport{Source: source}

	v, err := build(ctx)
	rep.LoadedAt = time.Now().UTC()
	if err != nil {
		rep.Err = err
		log.Warn(what+" load failed, serving empty "+what,
			zap.String("source", rep.Source),
			zap.Error(err),
		)
		return empty, rep
	}

	rep.Count = v.Len()
	log.Info(what+" loaded",
		zap.String("source", rep.Source),
		zap.Int("records", rep.Count),
	)
	return v, rep
}
