package repo

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/products_api/internal/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	items := []models.Product{}
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts prod and reloads it, so prod holds the values as
// stored (price rounded to the column scale).
func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	db := r.DB.WithContext(ctx)
	if err := db.Create(prod).Error; err != nil {
		return err
	}
	return db.First(prod, prod.ID).Error
}

// UpdateProduct overwrites name, description and price of the row with
// prod.ID. Ownership is left as it is.
func (r *GormRepo) UpdateProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", prod.ID).
		Updates(map[string]any{
			"name":        prod.Name,
			"description": prod.Description,
			"price":       prod.Price,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetProduct(ctx, prod.ID)
}

func (r *GormRepo) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (*models.Product, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("price", price)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetProduct(ctx, id)
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id int64) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteProducts removes every product whose id is in ids and returns the
// removed rows. Unknown ids are skipped; gorm.ErrRecordNotFound is returned
// only when none of them exist.
func (r *GormRepo) DeleteProducts(ctx context.Context, ids []int64) ([]models.Product, error) {
	var found []models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ?", ids).Order("id ASC").Find(&found).Error; err != nil {
			return err
		}
		if len(found) == 0 {
			return gorm.ErrRecordNotFound
		}

		matched := make([]int64, len(found))
		for i, p := range found {
			matched[i] = p.ID
		}
		return tx.Delete(&models.Product{}, matched).Error
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *GormRepo) SortedProducts(ctx context.Context, desc bool) ([]models.Product, error) {
	items := []models.Product{}
	err := r.DB.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "name"}, Desc: desc}).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindByDescription returns the lowest-id product whose description contains
// keyword literally.
func (r *GormRepo) FindByDescription(ctx context.Context, keyword string) (*models.Product, error) {
	var prod models.Product
	pattern := "%" + likeEscaper.Replace(keyword) + "%"
	err := r.DB.WithContext(ctx).
		Where(`description LIKE ? ESCAPE '\'`, pattern).
		Order("id ASC").
		First(&prod).Error
	if err != nil {
		return nil, err
	}
	return &prod, nil
}
