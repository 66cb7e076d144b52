package catalog_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"MovieCatalog/internal/catalog"
	"MovieCatalog/pkg/kit"
)

type searchBody struct {
	Movies          []catalog.Movie `json:"movies"`
	SearchPerformed bool            `json:"searchPerformed"`
	SearchMessage   string          `json:"searchMessage"`
	Criteria        *struct {
		Name  string `json:"name"`
		ID    *int64 `json:"id"`
		Genre string `json:"genre"`
	} `json:"criteria"`
}

type detailsBody struct {
	Movie catalog.Movie `json:"movie"`
	Icon  string        `json:"icon"`
}

func newCatalogTS(t *testing.T, src catalog.Source, deps catalog.HTTPDeps) *httptest.Server {
	t.Helper()

	store, rep := catalog.Load(context.Background(), src, zap.NewNop())
	s := &catalog.Server{
		Engine: catalog.NewEngine(store, zap.NewNop()),
		Report: rep,
		Log:    zap.NewNop(),
	}

	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	deps.Service = "catalog"

	ts := httptest.NewServer(catalog.NewHandler(s, deps))
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out), "body=%s", raw)
	}
	return resp
}

func TestHTTP_ListMovies(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewBundledSource(), catalog.HTTPDeps{})

	var movies []catalog.Movie
	resp := getJSON(t, ts.URL+"/movies", &movies)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, movies)
	assert.Equal(t, "The Prison Escape", movies[0].Title)
}

func TestHTTP_MovieDetails(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewBundledSource(), catalog.HTTPDeps{})

	for _, path := range []string{"/movies/1", "/movies/1/details"} {
		var got detailsBody
		resp := getJSON(t, ts.URL+path, &got)

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, int64(1), got.Movie.ID)
		assert.Equal(t, "🔒", got.Icon)
	}
}

func TestHTTP_MovieDetailsListsReviews(t *testing.T) {
	ctx := context.Background()
	store, rep := catalog.Load(ctx, catalog.NewBundledSource(), nil)
	reviews, reviewsRep := catalog.LoadReviews(ctx, catalog.NewBundledReviewSource(), nil)
	s := &catalog.Server{
		Engine:        catalog.NewEngine(store, nil),
		Report:        rep,
		Reviews:       reviews,
		ReviewsReport: reviewsRep,
	}
	ts := httptest.NewServer(catalog.NewHandler(s, catalog.HTTPDeps{Service: "catalog"}))
	t.Cleanup(ts.Close)

	var got struct {
		Movie   catalog.Movie    `json:"movie"`
		Reviews []catalog.Review `json:"reviews"`
	}
	resp := getJSON(t, ts.URL+"/movies/1/details", &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), got.Movie.ID)
	require.Equal(t, reviews.For(1), got.Reviews)
	for _, r := range got.Reviews {
		assert.Equal(t, int64(1), r.MovieID)
	}

	// A movie without reviews lists an empty array, not null.
	var raw map[string]json.RawMessage
	getJSON(t, ts.URL+"/movies/4/details", &raw)
	assert.JSONEq(t, "[]", string(raw["reviews"]))

	// The short form carries no reviews.
	raw = nil
	getJSON(t, ts.URL+"/movies/1", &raw)
	assert.NotContains(t, raw, "reviews")

	var status struct {
		Reviews *struct {
			Reviews int  `json:"reviews"`
			OK      bool `json:"ok"`
		} `json:"reviews"`
	}
	getJSON(t, ts.URL+"/catalog/status", &status)
	require.NotNil(t, status.Reviews)
	assert.True(t, status.Reviews.OK)
	assert.Equal(t, reviews.Len(), status.Reviews.Reviews)
}

func TestHTTP_MovieDetailsWithoutReviewSource(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewBundledSource(), catalog.HTTPDeps{})

	var raw map[string]json.RawMessage
	resp := getJSON(t, ts.URL+"/movies/1/details", &raw)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(raw["reviews"]))

	raw = nil
	getJSON(t, ts.URL+"/catalog/status", &raw)
	assert.NotContains(t, raw, "reviews")
}

func TestHTTP_MovieDetailsErrors(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewBundledSource(), catalog.HTTPDeps{})

	var notFound kit.ErrorResponse
	resp := getJSON(t, ts.URL+"/movies/999", &notFound)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "movie_not_found", notFound.Code)
	assert.Equal(t, "movie not found", notFound.Error)
	assert.EqualValues(t, 999, notFound.Details["id"])
	assert.NotEmpty(t, notFound.RequestID)

	resp = getJSON(t, ts.URL+"/movies/-1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var bad kit.ErrorResponse
	resp = getJSON(t, ts.URL+"/movies/abc", &bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_id", bad.Code)
	assert.Equal(t, "invalid id", bad.Error)

	resp = getJSON(t, ts.URL+"/movies/999/details", &notFound)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "movie_not_found", notFound.Code)
}

func TestHTTP_SearchNoCriteria(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewBundledSource(), catalog.HTTPDeps{})

	var all []catalog.Movie
	getJSON(t, ts.URL+"/movies", &all)

	for _, q := range []string{"", "?name=&genre=", "?name=%20%20&id="} {
		var got searchBody
		resp := getJSON(t, ts.URL+"/movies/search"+q, &got)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.False(t, got.SearchPerformed, q)
		assert.Nil(t, got.Criteria)
		assert.Equal(t, all, got.Movies)
	}
}

func TestHTTP_SearchCombined(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewBundledSource(), catalog.HTTPDeps{})

	var got searchBody
	resp := getJSON(t, ts.URL+"/movies/search?name=%20family%20&genre=crime", &got)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, got.SearchPerformed)
	require.Len(t, got.Movies, 1)
	assert.Equal(t, "The Family Boss", got.Movies[0].Title)
	assert.Equal(t, "Found 1 movie matching your search.", got.SearchMessage)
	require.NotNil(t, got.Criteria)
	assert.Equal(t, "family", got.Criteria.Name)
	assert.Equal(t, "crime", got.Criteria.Genre)
	assert.Nil(t, got.Criteria.ID)
}

func TestHTTP_SearchByIDThenName(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewBundledSource(), catalog.HTTPDeps{})

	var got searchBody
	getJSON(t, ts.URL+"/movies/search?id=1", &got)
	require.Len(t, got.Movies, 1)
	require.NotNil(t, got.Criteria.ID)
	assert.Equal(t, int64(1), *got.Criteria.ID)

	got = searchBody{}
	getJSON(t, ts.URL+"/movies/search?id=1&name=nonexistent", &got)
	assert.True(t, got.SearchPerformed)
	assert.Empty(t, got.Movies)
	assert.True(t, strings.HasPrefix(got.SearchMessage, "No movies found"))
}

func TestHTTP_SearchZeroIDReturnsCatalog(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewBundledSource(), catalog.HTTPDeps{})

	var all []catalog.Movie
	getJSON(t, ts.URL+"/movies", &all)

	var got searchBody
	getJSON(t, ts.URL+"/movies/search?id=0", &got)
	assert.True(t, got.SearchPerformed)
	assert.Equal(t, all, got.Movies)
}

func TestHTTP_SearchBadID(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewBundledSource(), catalog.HTTPDeps{})

	var got kit.ErrorResponse
	resp := getJSON(t, ts.URL+"/movies/search?id=one", &got)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_id", got.Code)
	assert.Equal(t, "one", got.Details["id"])
}

func TestHTTP_SingleCriterionSearch(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewBundledSource(), catalog.HTTPDeps{})

	var byName []catalog.Movie
	getJSON(t, ts.URL+"/movies/search/name?q=PRISON", &byName)
	require.Len(t, byName, 1)
	assert.Equal(t, int64(1), byName[0].ID)

	var blank []catalog.Movie
	getJSON(t, ts.URL+"/movies/search/name?q=%20", &blank)
	assert.Empty(t, blank)

	var byGenre []catalog.Movie
	getJSON(t, ts.URL+"/movies/search/genre?q=crime", &byGenre)
	require.NotEmpty(t, byGenre)
	for _, m := range byGenre {
		assert.Contains(t, strings.ToLower(m.Genre), "crime")
	}
}

func TestHTTP_EmptyCatalogStillServes(t *testing.T) {
	src := catalog.NewJSONBytesSource("broken", []byte("{"))
	ts := newCatalogTS(t, src, catalog.HTTPDeps{})

	var movies []catalog.Movie
	resp := getJSON(t, ts.URL+"/movies", &movies)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, movies)

	var got searchBody
	getJSON(t, ts.URL+"/movies/search?genre=drama", &got)
	assert.Empty(t, got.Movies)

	resp = getJSON(t, ts.URL+"/readyz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var status struct {
		Source string `json:"source"`
		Movies int    `json:"movies"`
		OK     bool   `json:"ok"`
		Error  string `json:"error"`
	}
	getJSON(t, ts.URL+"/catalog/status", &status)
	assert.False(t, status.OK)
	assert.Equal(t, "broken", status.Source)
	assert.Contains(t, status.Error, catalog.ErrMalformedSource.Error())
}

func TestHTTP_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	ts := newCatalogTS(t, catalog.NewBundledSource(), catalog.HTTPDeps{
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   "scrape-token",
	})

	getJSON(t, ts.URL+"/movies/search?name=prison", nil)
	getJSON(t, ts.URL+"/movies/search/genre?q=nonexistent", nil)

	resp := getJSON(t, ts.URL+"/metrics", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/metrics", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer scrape-token")

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := string(raw)
	assert.Contains(t, body, "catalog_movies 12")
	assert.Contains(t, body, "catalog_load_failed 0")
	assert.Contains(t, body, "catalog_reviews 0")
	assert.Contains(t, body, `catalog_searches_total{kind="combined",outcome="hit"} 1`)
	assert.Contains(t, body, `catalog_searches_total{kind="genre",outcome="empty"} 1`)
	assert.Contains(t, body, `path="/movies/search"`)
}

func TestHTTP_SearchRateLimited(t *testing.T) {
	store, rep := catalog.Load(context.Background(), catalog.NewBundledSource(), nil)
	s := &catalog.Server{
		Engine:        catalog.NewEngine(store, nil),
		Report:        rep,
		SearchLimiter: kit.RateLimitByIP(2, time.Minute),
	}
	ts := httptest.NewServer(catalog.NewHandler(s, catalog.HTTPDeps{Service: "catalog"}))
	t.Cleanup(ts.Close)

	for i := 0; i < 2; i++ {
		resp := getJSON(t, ts.URL+"/movies/search?name=the", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := getJSON(t, ts.URL+"/movies/search?name=the", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// Listing is not behind the search limiter.
	resp = getJSON(t, ts.URL+"/movies", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTP_Healthz(t *testing.T) {
	ts := newCatalogTS(t, catalog.NewBundledSource(), catalog.HTTPDeps{})

	resp := getJSON(t, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
