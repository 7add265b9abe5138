package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/products_api/internal/logging"
	"github.com/Skotchmaster/products_api/internal/service"
)

// associationError maps the user/product link errors to HTTP errors and logs
// them under op.
func associationError(c echo.Context, op string, err error) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "association."+op)

	var (
		status int
		msg    string
	)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		status, msg = http.StatusNotFound, msgUserNotFound
	case errors.Is(err, service.ErrProductNotFound):
		status, msg = http.StatusNotFound, msgProductNotFound
	case errors.Is(err, service.ErrNotLinked):
		status, msg = http.StatusNotFound, service.ErrNotLinked.Error()
	case errors.Is(err, service.ErrAlreadyLinked):
		status, msg = http.StatusBadRequest, service.ErrAlreadyLinked.Error()
	default:
		l.Error(op+"_failed", "status", 500, "reason", "storage failure", "error", err)
		return internalError()
	}

	l.Warn(op+"_failed", "status", status, "reason", msg, "error", err)
	return echo.NewHTTPError(status, msg)
}

func parseLinkIDs(c echo.Context) (userID, productID int64, err error) {
	if userID, err = parseID(c, "userId"); err != nil {
		return 0, 0, err
	}
	if productID, err = parseID(c, "productId"); err != nil {
		return 0, 0, err
	}
	return userID, productID, nil
}

func (h *UserHTTP) LinkProduct(c echo.Context) error {
	ctx := c.Request().Context()

	userID, productID, err := parseLinkIDs(c)
	if err != nil {
		logging.FromContext(ctx).Warn("link_product_failed", "status", 400, "reason", msgInvalidID, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidID)
	}

	user, err := h.Svc.LinkProduct(ctx, userID, productID)
	if err != nil {
		return associationError(c, "link_product", err)
	}

	logging.FromContext(ctx).Info("link_product_success", "userID", userID, "productID", productID)
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) UserProducts(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := parseID(c, "userId")
	if err != nil {
		logging.FromContext(ctx).Warn("user_products_failed", "status", 400, "reason", msgInvalidID, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidID)
	}

	items, err := h.Svc.UserProducts(ctx, userID)
	if err != nil {
		return associationError(c, "user_products", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *UserHTTP) UnlinkProduct(c echo.Context) error {
	ctx := c.Request().Context()

	userID, productID, err := parseLinkIDs(c)
	if err != nil {
		logging.FromContext(ctx).Warn("unlink_product_failed", "status", 400, "reason", msgInvalidID, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidID)
	}

	if err := h.Svc.UnlinkProduct(ctx, userID, productID); err != nil {
		return associationError(c, "unlink_product", err)
	}

	logging.FromContext(ctx).Info("unlink_product_success", "userID", userID, "productID", productID)
	return c.NoContent(http.StatusNoContent)
}
