package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/products_api/internal/logging"
	"github.com/Skotchmaster/products_api/internal/models"
)

var (
	ErrValidation       = errors.New("validation")
	ErrProductNotFound  = errors.New("product not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrIDMismatch       = errors.New("id mismatch")
	ErrInvalidSortOrder = errors.New("invalid sort order")
	ErrAlreadyLinked    = errors.New("product already linked to this user")
	ErrNotLinked        = errors.New("product is not linked to this user")
)

const (
	ProductTopic = "product_events"
	UserTopic    = "user_events"

	sideEffectTimeout = 5 * time.Second
)

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, prod *models.Product) error
	UpdateProduct(ctx context.Context, prod *models.Product) (*models.Product, error)
	UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	DeleteProducts(ctx context.Context, ids []int64) ([]models.Product, error)
	SortedProducts(ctx context.Context, desc bool) ([]models.Product, error)
	FindByDescription(ctx context.Context, keyword string) (*models.Product, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) ([]int64, error)

	LinkProduct(ctx context.Context, userID, productID int64) (*models.User, error)
	UserProducts(ctx context.Context, userID int64) ([]models.Product, error)
	UnlinkProduct(ctx context.Context, userID, productID int64) error
}

// Publisher delivers change events. *mykafka.Producer satisfies it.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// ProductIndex mirrors products into the search index. *search.Index
// satisfies it.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

func publish(ctx context.Context, p Publisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("publish_event_failed", "topic", topic, "type", event["type"], "error", err)
	}
}

func indexProduct(ctx context.Context, idx ProductIndex, p models.Product) {
	if idx == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()
	if err := idx.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Error("index_product_failed", "productID", p.ID, "error", err)
	}
}

func unindexProducts(ctx context.Context, idx ProductIndex, ids ...int64) {
	if idx == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()
	for _, id := range ids {
		if err := idx.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Error("unindex_product_failed", "productID", id, "error", err)
		}
	}
}
