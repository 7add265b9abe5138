package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/products_api/internal/logging"
	"github.com/Skotchmaster/products_api/internal/service"
	"github.com/Skotchmaster/products_api/internal/transport"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.create_user")

	var req transport.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_user_failed", "status", 400, "reason", msgInvalidBody, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	user, err := h.Svc.CreateUser(ctx, req.UserName)
	if err != nil {
		l.Error("create_user_failed", "status", 500, "reason", "cannot add user to db", "error", err)
		return internalError()
	}

	l.Info("create_user_success", "userID", user.ID)
	c.Response().Header().Set(echo.HeaderLocation, "/api/users/"+strconv.FormatInt(user.ID, 10))
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_users")

	users, err := h.Svc.GetUsers(ctx)
	if err != nil {
		l.Error("get_users_failed", "status", 500, "reason", "cannot list users", "error", err)
		return internalError()
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_user")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("get_user_failed", "status", 400, "reason", msgInvalidID, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidID)
	}

	user, err := h.Svc.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			l.Warn("get_user_failed", "status", 404, "reason", msgUserNotFound, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, msgUserNotFound)
		}
		l.Error("get_user_failed", "status", 500, "reason", "cannot get user", "error", err)
		return internalError()
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete_user")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("delete_user_failed", "status", 400, "reason", msgInvalidID, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidID)
	}

	if err := h.Svc.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			l.Warn("delete_user_failed", "status", 404, "reason", msgUserNotFound, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, msgUserNotFound)
		}
		l.Error("delete_user_failed", "status", 500, "reason", "cannot delete user from db", "error", err)
		return internalError()
	}

	l.Info("delete_user_success", "userID", id)
	return c.NoContent(http.StatusNoContent)
}
