package catalog

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MovieCatalog/pkg/kit"
)

const (
	searchHint    = "Use the search form to find your favorite movies."
	searchNoMatch = "No movies found matching your search criteria. Try different search terms."
)

var (
	errInvalidID     = kit.NewError(http.StatusBadRequest, "invalid_id", "invalid id")
	errMovieNotFound = kit.NewError(http.StatusNotFound, "movie_not_found", "movie not found")
)

type Server struct {
	Engine  *Engine
	Report  LoadReport
	Log     *zap.Logger
	Metrics *Metrics

	// Reviews may be nil; detail pages then list none.
	Reviews       *Reviews
	ReviewsReport LoadReport

	// SearchLimiter wraps the search routes; nil means unlimited.
	SearchLimiter func(http.Handler) http.Handler
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	// The catalog always answers, possibly with no data.
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/catalog/status", s.status)

	r.Get("/movies", s.list)
	r.Group(func(sr chi.Router) {
		if s.SearchLimiter != nil {
			sr.Use(s.SearchLimiter)
		}
		sr.Get("/movies/search", kit.Handle(s.Log, s.search))
		sr.Get("/movies/search/name", s.searchByName)
		sr.Get("/movies/search/genre", s.searchByGenre)
	})
	r.Get("/movies/{id}", kit.Handle(s.Log, s.get))
	r.Get("/movies/{id}/details", kit.Handle(s.Log, s.details))

	return r
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

type reviewsStatus struct {
	Source  string `json:"source"`
	Reviews int    `json:"reviews"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

type statusResp struct {
	Source   string         `json:"source"`
	Movies   int            `json:"movies"`
	LoadedAt time.Time      `json:"loaded_at"`
	OK       bool           `json:"ok"`
	Error    string         `json:"error,omitempty"`
	Reviews  *reviewsStatus `json:"reviews,omitempty"`
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	resp := statusResp{
		Source:   s.Report.Source,
		Movies:   s.Report.Count,
		LoadedAt: s.Report.LoadedAt,
		OK:       s.Report.OK(),
		Error:    errText(s.Report.Err),
	}
	if s.ReviewsReport.Source != "" {
		resp.Reviews = &reviewsStatus{
			Source:  s.ReviewsReport.Source,
			Reviews: s.ReviewsReport.Count,
			OK:      s.ReviewsReport.OK(),
			Error:   errText(s.ReviewsReport.Err),
		}
	}
	kit.WriteJSON(w, http.StatusOK, resp)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Engine.ListAll())
}

type movieView struct {
	Movie Movie  `json:"movie"`
	Icon  string `json:"icon"`
}

type movieDetails struct {
	Movie   Movie    `json:"movie"`
	Icon    string   `json:"icon"`
	Reviews []Review `json:"reviews"`
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) error {
	m, err := s.movieFromPath(r)
	if err != nil {
		return err
	}
	kit.WriteJSON(w, http.StatusOK, movieView{Movie: m, Icon: IconFor(m.Title)})
	return nil
}

func (s *Server) details(w http.ResponseWriter, r *http.Request) error {
	m, err := s.movieFromPath(r)
	if err != nil {
		return err
	}
	kit.WriteJSON(w, http.StatusOK, movieDetails{
		Movie:   m,
		Icon:    IconFor(m.Title),
		Reviews: s.Reviews.For(m.ID),
	})
	return nil
}

func (s *Server) movieFromPath(r *http.Request) (Movie, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Movie{}, errInvalidID.With("id", raw)
	}

	m, ok := s.Engine.FindByID(id)
	if !ok {
		s.logger().Warn("movie not found", zap.Int64("id", id))
		return Movie{}, errMovieNotFound.With("id", id)
	}
	return m, nil
}

type searchCriteria struct {
	Name  string `json:"name"`
	ID    *int64 `json:"id,omitempty"`
	Genre string `json:"genre"`
}

type searchResp struct {
	Movies          []Movie         `json:"movies"`
	SearchPerformed bool            `json:"searchPerformed"`
	SearchMessage   string          `json:"searchMessage"`
	Criteria        *searchCriteria `json:"criteria,omitempty"`
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) error {
	qv := r.URL.Query()
	name := qv.Get("name")
	genre := qv.Get("genre")

	id, hasID, err := parseOptionalID(qv.Get("id"))
	if err != nil {
		return errInvalidID.With("id", qv.Get("id"))
	}

	if isBlank(name) && !hasID && isBlank(genre) {
		kit.WriteJSON(w, http.StatusOK, searchResp{
			Movies:        s.Engine.ListAll(),
			SearchMessage: searchHint,
		})
		return nil
	}

	movies := s.Engine.Search(Query{Name: name, ID: id, Genre: genre})
	s.Metrics.observeSearch("combined", len(movies))

	crit := &searchCriteria{Name: strings.TrimSpace(name), Genre: strings.TrimSpace(genre)}
	if hasID {
		crit.ID = &id
	}

	msg := searchNoMatch
	if len(movies) == 0 {
		s.logger().Info("no movies matched search",
			zap.String("name", name),
			zap.Int64("id", id),
			zap.String("genre", genre),
		)
	} else {
		msg = foundMessage(len(movies))
	}

	kit.WriteJSON(w, http.StatusOK, searchResp{
		Movies:          movies,
		SearchPerformed: true,
		SearchMessage:   msg,
		Criteria:        crit,
	})
	return nil
}

func (s *Server) searchByName(w http.ResponseWriter, r *http.Request) {
	movies := s.Engine.SearchByName(r.URL.Query().Get("q"))
	s.Metrics.observeSearch("name", len(movies))
	kit.WriteJSON(w, http.StatusOK, movies)
}

func (s *Server) searchByGenre(w http.ResponseWriter, r *http.Request) {
	movies := s.Engine.SearchByGenre(r.URL.Query().Get("q"))
	s.Metrics.observeSearch("genre", len(movies))
	kit.WriteJSON(w, http.StatusOK, movies)
}

// parseOptionalID treats an empty value as absent.
func parseOptionalID(raw string) (int64, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

func foundMessage(n int) string {
	if n == 1 {
		return "Found 1 movie matching your search."
	}
	return fmt.Sprintf("Found %d movies matching your search.", n)
}
