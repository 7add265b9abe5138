package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	msgInvalidID       = "id is not an integer"
	msgInvalidBody     = "invalid body"
	msgInvalidQuery    = "invalid query"
	msgProductNotFound = "product not found"
	msgUserNotFound    = "user not found"
	msgInternal        = "internal error"
)

func parseID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func bindBody(c echo.Context, dst any) error {
	return (&echo.DefaultBinder{}).BindBody(c, dst)
}

func internalError() error {
	return echo.NewHTTPError(http.StatusInternalServerError, msgInternal)
}
