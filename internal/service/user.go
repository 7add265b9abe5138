package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Skotchmaster/products_api/internal/models"
	"github.com/Skotchmaster/products_api/internal/repo"
)

type UserService struct {
	Repo      UserRepository
	Publisher Publisher
	Index     ProductIndex
}

func mapUserErr(err error, userID, productID int64) error {
	switch {
	case errors.Is(err, repo.ErrUserNotFound):
		return fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	case errors.Is(err, repo.ErrProductNotFound):
		return fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
	case errors.Is(err, repo.ErrAlreadyLinked):
		return fmt.Errorf("user %d, product %d: %w", userID, productID, ErrAlreadyLinked)
	case errors.Is(err, repo.ErrNotLinked):
		return fmt.Errorf("user %d, product %d: %w", userID, productID, ErrNotLinked)
	default:
		return err
	}
}

func (s *UserService) CreateUser(ctx context.Context, userName string) (*models.User, error) {
	user := models.User{UserName: userName}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}
	user.Products = []models.Product{}

	publish(ctx, s.Publisher, UserTopic, strconv.FormatInt(user.ID, 10), map[string]any{
		"type":     "user_created",
		"userID":   user.ID,
		"userName": user.UserName,
	})

	return &user, nil
}

func (s *UserService) GetUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, mapUserErr(err, id, 0)
	}
	return user, nil
}

// DeleteUser removes the user together with every product it owns.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	removed, err := s.Repo.DeleteUser(ctx, id)
	if err != nil {
		return mapUserErr(err, id, 0)
	}

	publish(ctx, s.Publisher, UserTopic, strconv.FormatInt(id, 10), map[string]any{
		"type":       "user_deleted",
		"userID":     id,
		"productIDs": removed,
	})
	unindexProducts(ctx, s.Index, removed...)

	return nil
}

func (s *UserService) LinkProduct(ctx context.Context, userID, productID int64) (*models.User, error) {
	user, err := s.Repo.LinkProduct(ctx, userID, productID)
	if err != nil {
		return nil, mapUserErr(err, userID, productID)
	}

	publish(ctx, s.Publisher, ProductTopic, strconv.FormatInt(productID, 10), map[string]any{
		"type":      "product_linked",
		"productID": productID,
		"userID":    userID,
	})

	return user, nil
}

func (s *UserService) UserProducts(ctx context.Context, userID int64) ([]models.Product, error) {
	items, err := s.Repo.UserProducts(ctx, userID)
	if err != nil {
		return nil, mapUserErr(err, userID, 0)
	}
	return items, nil
}

func (s *UserService) UnlinkProduct(ctx context.Context, userID, productID int64) error {
	if err := s.Repo.UnlinkProduct(ctx, userID, productID); err != nil {
		return mapUserErr(err, userID, productID)
	}

	publish(ctx, s.Publisher, ProductTopic, strconv.FormatInt(productID, 10), map[string]any{
		"type":      "product_unlinked",
		"productID": productID,
		"userID":    userID,
	})

	return nil
}
