package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/products_api/internal/models"
)

func preloadProducts(db *gorm.DB) *gorm.DB {
	return db.Order("products.id ASC")
}

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Omit("Products").Create(user).Error
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.DB.WithContext(ctx).Preload("Products", preloadProducts).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return findUser(r.DB.WithContext(ctx), id)
}

// DeleteUser removes the user; the database cascades to its products. The ids
// of those products are returned.
func (r *GormRepo) DeleteUser(ctx context.Context, id int64) ([]int64, error) {
	var productIDs []int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, id); err != nil {
			return err
		}
		if err := tx.Model(&models.Product{}).Where("user_id = ?", id).Order("id ASC").Pluck("id", &productIDs).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return productIDs, nil
}

// LinkProduct makes userID the owner of productID. A product owned by another
// user is moved.
func (r *GormRepo) LinkProduct(ctx context.Context, userID, productID int64) (*models.User, error) {
	var user *models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}

		var prod models.Product
		if err := tx.First(&prod, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if prod.UserID != nil && *prod.UserID == userID {
			return ErrAlreadyLinked
		}

		if err := tx.Model(&prod).Update("user_id", userID).Error; err != nil {
			return err
		}

		var err error
		user, err = findUser(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *GormRepo) UserProducts(ctx context.Context, userID int64) ([]models.Product, error) {
	db := r.DB.WithContext(ctx)
	if err := userExists(db, userID); err != nil {
		return nil, err
	}

	items := []models.Product{}
	if err := db.Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UnlinkProduct clears the owner of productID. The product itself stays.
func (r *GormRepo) UnlinkProduct(ctx context.Context, userID, productID int64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}

		res := tx.Model(&models.Product{}).
			Where("id = ? AND user_id = ?", productID, userID).
			Update("user_id", nil)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotLinked
		}
		return nil
	})
}

func findUser(db *gorm.DB, id int64) (*models.User, error) {
	var user models.User
	if err := db.Preload("Products", preloadProducts).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func userExists(db *gorm.DB, id int64) error {
	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}
