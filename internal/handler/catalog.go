// This file defines handlers for the public catalog browsing API.  These
// routes proxy the external movie database and require no authentication;
// the Redis response-cache middleware keeps repeat queries off the
// upstream.

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cinehub/cinehub/internal/model"
	"github.com/cinehub/cinehub/internal/tmdb"
)

// CatalogHandler proxies the external movie catalog.
type CatalogHandler struct {
	Catalog *tmdb.Client
}

func NewCatalogHandler(cl *tmdb.Client) *CatalogHandler {
	return &CatalogHandler{Catalog: cl}
}

// upstreamError maps catalog failures without leaking upstream detail.
func upstreamError(c echo.Context, err error) error {
	if errors.Is(err, tmdb.ErrUpstream) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "catalog unavailable"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// Trending serves GET /v1/catalog/trending?type=&window=&page=.
func (h *CatalogHandler) Trending(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	p, err := h.Catalog.Trending(c.Request().Context(), c.QueryParam("type"), c.QueryParam("window"), page)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Discover serves GET /v1/catalog/discover?type=&genres=&year=&sort_by=&page=.
func (h *CatalogHandler) Discover(c echo.Context) error {
	mediaType := c.QueryParam("type")
	if mediaType == "" {
		mediaType = model.MediaMovie
	}
	if !model.ValidMediaType(mediaType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be movie or tv"})
	}
	q := tmdb.DiscoverQuery{
		MediaType: mediaType,
		SortBy:    c.QueryParam("sort_by"),
	}
	if g := c.QueryParam("genres"); g != "" {
		q.Genres = strings.Split(g, ",")
	}
	q.Year, _ = strconv.Atoi(c.QueryParam("year"))
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))

	p, err := h.Catalog.Discover(c.Request().Context(), q)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Search serves GET /v1/catalog/search?type=&query=&page=.
func (h *CatalogHandler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))
	if query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "query is required"})
	}
	mediaType := c.QueryParam("type")
	if mediaType == "" {
		mediaType = model.MediaMovie
	}
	if !model.ValidMediaType(mediaType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be movie or tv"})
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))

	p, err := h.Catalog.Search(c.Request().Context(), mediaType, query, page)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Details serves GET /v1/catalog/:type/:id.
func (h *CatalogHandler) Details(c echo.Context) error {
	mediaType := c.Param("type")
	if !model.ValidMediaType(mediaType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be movie or tv"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	doc, err := h.Catalog.Details(c.Request().Context(), mediaType, id)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSONBlob(http.StatusOK, doc)
}
