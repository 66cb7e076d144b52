package catalog

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// Query holds the optional criteria of a combined search. Blank text and a
// non-positive ID mean "not given".
type Query struct {
	Name  string
	ID    int64
	Genre string
}

// Engine answers catalog queries. It only reads the Store.
type Engine struct {
	store *Store
	log   *zap.Logger
}

func NewEngine(store *Store, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: store, log: log}
}

func (e *Engine) ListAll() []Movie { return e.store.ListAll() }

func (e *Engine) FindByID(id int64) (Movie, bool) { return e.store.FindByID(id) }

// SearchByName returns movies whose title contains name, ignoring case.
// Blank input matches nothing.
func (e *Engine) SearchByName(name string) []Movie {
	return e.searchField("name", name, titleOf)
}

// SearchByGenre returns movies whose genre contains genre, ignoring case.
// Blank input matches nothing.
func (e *Engine) SearchByGenre(genre string) []Movie {
	return e.searchField("genre", genre, genreOf)
}

func (e *Engine) searchField(field, text string, get func(Movie) string) []Movie {
	needle, ok := foldNeedle(text)
	if !ok {
		e.log.Debug("blank search input", zap.String("field", field))
		return []Movie{}
	}

	out := filterContains(e.store.movies, needle, get)
	e.log.Debug("search",
		zap.String("field", field),
		zap.String("needle", needle),
		zap.Int("matches", len(out)),
	)
	return out
}

// Search runs the staged pipeline: the id, when given, replaces the working
// set with at most one movie; the name and genre filters then narrow whatever
// is left. With no criteria the whole catalog is returned.
func (e *Engine) Search(q Query) []Movie {
	working := e.resolve(q.ID)

	if needle, ok := foldNeedle(q.Name); ok {
		working = filterContains(working, needle, titleOf)
	}
	if needle, ok := foldNeedle(q.Genre); ok {
		working = filterContains(working, needle, genreOf)
	}

	e.log.Debug("combined search",
		zap.String("name", q.Name),
		zap.Int64("id", q.ID),
		zap.String("genre", q.Genre),
		zap.Int("matches", len(working)),
	)
	return working
}

func (e *Engine) resolve(id int64) []Movie {
	if id <= 0 {
		return e.store.ListAll()
	}
	if m, ok := e.store.FindByID(id); ok {
		return []Movie{m}
	}
	return []Movie{}
}

func filterContains(in []Movie, needle string, get func(Movie) string) []Movie {
	out := make([]Movie, 0, len(in))
	for _, m := range in {
		if strings.Contains(fold(get(m)), needle) {
			out = append(out, m)
		}
	}
	return out
}

// foldNeedle trims and case-folds search text. It reports false for blank
// input.
func foldNeedle(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return fold(text), true
}

// fold builds a fresh Caser per call; a Caser must not be shared between
// goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}

func titleOf(m Movie) string { return m.Title }
func genreOf(m Movie) string { return m.Genre }
