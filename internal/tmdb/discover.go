package tmdb

import (
	"fmt"
	"net/url"
	"strings"
)

// sortKeys whitelists the sort orders the discover endpoint accepts.  An
// unknown value falls back to popularity so client input cannot produce
// an upstream 400.
var sortKeys = map[string]bool{
	"popularity.desc":           true,
	"popularity.asc":            true,
	"vote_average.desc":         true,
	"vote_average.asc":          true,
	"primary_release_date.desc": true,
	"first_air_date.desc":       true,
}

// DiscoverQuery carries the browse filters the catalog pages expose.
// Zero values are omitted from the request.
type DiscoverQuery struct {
	MediaType string   // "movie" or "tv"
	Genres    []string // genre ids, joined with commas (AND semantics upstream)
	Year      int      // release year (movie) / first air year (tv)
	SortBy    string
	Page      int
}

// Values builds the upstream query parameters.  The year filter maps to a
// different parameter per media type, which is the only branch in here.
func (d DiscoverQuery) Values() url.Values {
	q := url.Values{}
	if len(d.Genres) > 0 {
		q.Set("with_genres", strings.Join(d.Genres, ","))
	}
	if d.Year > 0 {
		if d.MediaType == "tv" {
			q.Set("first_air_date_year", fmt.Sprint(d.Year))
		} else {
			q.Set("primary_release_year", fmt.Sprint(d.Year))
		}
	}
	sort := d.SortBy
	if !sortKeys[sort] {
		sort = "popularity.desc"
	}
	q.Set("sort_by", sort)
	if d.Page > 1 {
		q.Set("page", fmt.Sprint(d.Page))
	}
	return q
}
