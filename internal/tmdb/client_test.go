package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-key", zap.NewNop()), srv
}

func TestTrendingDecodesPage(t *testing.T) {
	var gotPath, gotKey string
	cl, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"page":          1,
			"results":       []map[string]any{{"id": 550, "title": "Fight Club"}},
			"total_pages":   10,
			"total_results": 200,
		})
	})

	p, err := cl.Trending(context.Background(), "movie", "week", 1)
	require.NoError(t, err)
	assert.Equal(t, "/trending/movie/week", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, 1, p.Page)
	assert.Len(t, p.Results, 1)
	assert.Equal(t, 200, p.TotalResults)
}

func TestTrendingDefaultsMediaTypeAndWindow(t *testing.T) {
	var gotPath string
	cl, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"page":1,"results":[]}`))
	})

	_, err := cl.Trending(context.Background(), "", "fortnight", 1)
	require.NoError(t, err)
	assert.Equal(t, "/trending/all/week", gotPath)
}

func TestSearchSetsQueryAndPage(t *testing.T) {
	var got string
	cl, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"page":2,"results":[]}`))
	})

	_, err := cl.Search(context.Background(), "tv", "severance", 2)
	require.NoError(t, err)
	assert.Contains(t, got, "query=severance")
	assert.Contains(t, got, "page=2")
}

func TestUpstreamErrorCollapsesToErrUpstream(t *testing.T) {
	cl, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := cl.Trending(context.Background(), "movie", "week", 1)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestMalformedBodyCollapsesToErrUpstream(t *testing.T) {
	cl, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	_, err := cl.Search(context.Background(), "movie", "x", 1)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int
	cl, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		_, err := cl.Trending(context.Background(), "movie", "week", 1)
		assert.ErrorIs(t, err, ErrUpstream)
	}
	assert.Equal(t, 5, hits)

	// Sixth call is rejected by the open breaker without touching the
	// upstream.
	_, err := cl.Trending(context.Background(), "movie", "week", 1)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, 5, hits)
}

func TestDetailsReturnsRawDocument(t *testing.T) {
	cl, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/1396", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":1396,"name":"Breaking Bad"}`))
	})

	raw, err := cl.Details(context.Background(), "tv", 1396)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1396,"name":"Breaking Bad"}`, string(raw))
}

func TestDiscoverQueryValues(t *testing.T) {
	cases := []struct {
		name string
		in   DiscoverQuery
		want map[string]string
		omit []string
	}{
		{
			name: "movie with genres and year",
			in:   DiscoverQuery{MediaType: "movie", Genres: []string{"28", "12"}, Year: 1999, SortBy: "vote_average.desc", Page: 3},
			want: map[string]string{
				"with_genres":          "28,12",
				"primary_release_year": "1999",
				"sort_by":              "vote_average.desc",
				"page":                 "3",
			},
		},
		{
			name: "tv year maps to first_air_date_year",
			in:   DiscoverQuery{MediaType: "tv", Year: 2008},
			want: map[string]string{"first_air_date_year": "2008"},
			omit: []string{"primary_release_year"},
		},
		{
			name: "unknown sort falls back to popularity",
			in:   DiscoverQuery{MediaType: "movie", SortBy: "release_date.chaotic"},
			want: map[string]string{"sort_by": "popularity.desc"},
		},
		{
			name: "zero values omitted",
			in:   DiscoverQuery{MediaType: "movie", Page: 1},
			want: map[string]string{"sort_by": "popularity.desc"},
			omit: []string{"with_genres", "primary_release_year", "page"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := tc.in.Values()
			for k, want := range tc.want {
				assert.Equal(t, want, v.Get(k), k)
			}
			for _, k := range tc.omit {
				assert.False(t, v.Has(k), "unexpected %s", k)
			}
		})
	}
}
