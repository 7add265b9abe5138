package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/products_api/internal/logging"
	"github.com/Skotchmaster/products_api/internal/models"
	"github.com/Skotchmaster/products_api/internal/service"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	items, err := h.Svc.GetProducts(ctx)
	if err != nil {
		l.Error("get_products_failed", "status", 500, "reason", "cannot list products", "error", err)
		return internalError()
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", msgInvalidID, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidID)
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			l.Warn("get_product_failed", "status", 404, "reason", msgProductNotFound, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		}
		l.Error("get_product_failed", "status", 500, "reason", "cannot get product", "error", err)
		return internalError()
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req models.Product
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", msgInvalidBody, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	created, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		l.Error("create_product_failed", "status", 500, "reason", "cannot add product to db", "error", err)
		return internalError()
	}

	l.Info("create_product_success", "productID", created.ID)
	c.Response().Header().Set(echo.HeaderLocation, "/api/products/"+strconv.FormatInt(created.ID, 10))
	return c.JSON(http.StatusCreated, created)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", msgInvalidID, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidID)
	}

	var req models.Product
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", msgInvalidBody, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	updated, err := h.Svc.UpdateProduct(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIDMismatch):
			l.Warn("update_product_failed", "status", 400, "reason", "id mismatch", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "id mismatch")
		case errors.Is(err, service.ErrProductNotFound):
			l.Warn("update_product_failed", "status", 404, "reason", msgProductNotFound, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		default:
			l.Error("update_product_failed", "status", 500, "reason", "cannot update product", "error", err)
			return internalError()
		}
	}

	l.Info("update_product_success", "productID", id)
	return c.JSON(http.StatusOK, updated)
}

func (h *ProductHTTP) PatchPrice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch_price")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("patch_price_failed", "status", 400, "reason", msgInvalidID, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidID)
	}

	var price *decimal.Decimal
	if err := bindBody(c, &price); err != nil || price == nil {
		l.Warn("patch_price_failed", "status", 400, "reason", "price is required", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	prod, err := h.Svc.UpdatePrice(ctx, id, *price)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			l.Warn("patch_price_failed", "status", 404, "reason", msgProductNotFound, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		}
		l.Error("patch_price_failed", "status", 500, "reason", "cannot update price", "error", err)
		return internalError()
	}

	l.Info("patch_price_success", "productID", id)
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("delete_product_failed", "status", 400, "reason", msgInvalidID, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidID)
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			l.Warn("delete_product_failed", "status", 404, "reason", msgProductNotFound, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		}
		l.Error("delete_product_failed", "status", 500, "reason", "cannot delete product from db", "error", err)
		return internalError()
	}

	l.Info("delete_product_success", "productID", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHTTP) DeleteProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_products")

	var ids []int64
	if err := bindBody(c, &ids); err != nil || len(ids) == 0 {
		l.Warn("delete_products_failed", "status", 400, "reason", "ids are required", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	if err := h.Svc.DeleteProducts(ctx, ids); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			l.Warn("delete_products_failed", "status", 404, "reason", msgProductNotFound, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		}
		l.Error("delete_products_failed", "status", 500, "reason", "cannot delete products from db", "error", err)
		return internalError()
	}

	l.Info("delete_products_success", "requested", len(ids))
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHTTP) SortedProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.sorted_products")

	items, err := h.Svc.SortedProducts(ctx, c.QueryParam("sortOrder"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSortOrder) {
			l.Warn("sorted_products_failed", "status", 400, "reason", "invalid sort order", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid sort order")
		}
		l.Error("sorted_products_failed", "status", 500, "reason", "cannot list products", "error", err)
		return internalError()
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) FindByDescription(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.find_by_description")

	keyword := c.Param("keyword")
	prod, err := h.Svc.FindByDescription(ctx, keyword)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			l.Warn("find_by_description_failed", "status", 404, "reason", msgProductNotFound, "keyword", keyword)
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		}
		l.Error("find_by_description_failed", "status", 500, "reason", "cannot search products", "error", err)
		return internalError()
	}

	return c.JSON(http.StatusOK, prod)
}
