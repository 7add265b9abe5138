package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/products_api/internal/models"
)

type ProductService struct {
	Repo      ProductRepository
	Publisher Publisher
	Index     ProductIndex
}

func productNotFound(err error, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("product %d: %w", id, ErrProductNotFound)
	}
	return err
}

func (s *ProductService) GetProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, productNotFound(err, id)
	}
	return prod, nil
}

// CreateProduct stores prod under a new id; any id in the payload is ignored.
func (s *ProductService) CreateProduct(ctx context.Context, prod models.Product) (*models.Product, error) {
	prod.ID = 0
	prod.UserID = nil
	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		return nil, err
	}

	publish(ctx, s.Publisher, ProductTopic, strconv.FormatInt(prod.ID, 10), map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	indexProduct(ctx, s.Index, prod)

	return &prod, nil
}

// UpdateProduct replaces the product stored under id with prod. The payload
// must carry the same id as the path.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, prod models.Product) (*models.Product, error) {
	if prod.ID != id {
		return nil, fmt.Errorf("path id %d, body id %d: %w", id, prod.ID, ErrIDMismatch)
	}

	updated, err := s.Repo.UpdateProduct(ctx, &prod)
	if err != nil {
		return nil, productNotFound(err, id)
	}

	publish(ctx, s.Publisher, ProductTopic, strconv.FormatInt(id, 10), map[string]any{
		"type":      "product_updated",
		"productID": updated.ID,
		"name":      updated.Name,
	})
	indexProduct(ctx, s.Index, *updated)

	return updated, nil
}

func (s *ProductService) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (*models.Product, error) {
	prod, err := s.Repo.UpdatePrice(ctx, id, price)
	if err != nil {
		return nil, productNotFound(err, id)
	}

	publish(ctx, s.Publisher, ProductTopic, strconv.FormatInt(id, 10), map[string]any{
		"type":      "product_price_changed",
		"productID": prod.ID,
		"price":     prod.Price,
	})
	indexProduct(ctx, s.Index, *prod)

	return prod, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return productNotFound(err, id)
	}

	publish(ctx, s.Publisher, ProductTopic, strconv.FormatInt(id, 10), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	unindexProducts(ctx, s.Index, id)

	return nil
}

// DeleteProducts removes every existing product listed in ids and reports
// ErrProductNotFound only when none of them exist.
func (s *ProductService) DeleteProducts(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("no ids given: %w", ErrValidation)
	}

	deleted, err := s.Repo.DeleteProducts(ctx, ids)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("none of %v: %w", ids, ErrProductNotFound)
		}
		return err
	}

	removed := make([]int64, len(deleted))
	for i, p := range deleted {
		removed[i] = p.ID
		publish(ctx, s.Publisher, ProductTopic, strconv.FormatInt(p.ID, 10), map[string]any{
			"type":      "product_deleted",
			"productID": p.ID,
		})
	}
	unindexProducts(ctx, s.Index, removed...)

	return nil
}

// SortedProducts orders by name; sortOrder is "asc" or "desc" in any case.
func (s *ProductService) SortedProducts(ctx context.Context, sortOrder string) ([]models.Product, error) {
	switch strings.ToLower(sortOrder) {
	case "asc":
		return s.Repo.SortedProducts(ctx, false)
	case "desc":
		return s.Repo.SortedProducts(ctx, true)
	default:
		return nil, fmt.Errorf("sort order %q: %w", sortOrder, ErrInvalidSortOrder)
	}
}

func (s *ProductService) FindByDescription(ctx context.Context, keyword string) (*models.Product, error) {
	prod, err := s.Repo.FindByDescription(ctx, keyword)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("description %q: %w", keyword, ErrProductNotFound)
		}
		return nil, err
	}
	return prod, nil
}
