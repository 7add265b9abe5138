package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/products_api/internal/logging"
	"github.com/Skotchmaster/products_api/internal/models"
	"github.com/Skotchmaster/products_api/internal/search"
	"github.com/Skotchmaster/products_api/internal/transport"
)

// Searcher is implemented by *search.Index.
type Searcher interface {
	Search(ctx context.Context, query string, size int) (int64, []models.Product, error)
}

type SearchHTTP struct {
	Index Searcher
}

func (h *SearchHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		l.Warn("search_failed", "status", 400, "reason", "query is required")
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	size := search.DefaultSize
	if raw := c.QueryParam("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			l.Warn("search_failed", "status", 400, "reason", msgInvalidQuery, "size", raw)
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidQuery)
		}
		size = search.ClampSize(n)
	}

	total, items, err := h.Index.Search(ctx, q, size)
	if err != nil {
		l.Error("search_failed", "status", 500, "reason", "cannot search products", "error", err)
		return internalError()
	}

	return c.JSON(http.StatusOK, transport.SearchResponse{Total: total, Products: items})
}
