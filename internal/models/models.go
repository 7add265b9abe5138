package models

import "github.com/shopspring/decimal"

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string          `gorm:"not null"                  json:"name"`
	Description string          `gorm:"not null"                  json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	UserID      *int64          `gorm:"index"                     json:"-"`
}

// User owns products through products.user_id; removing a user removes its
// products in the database.
type User struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"                        json:"id"`
	UserName string    `gorm:"not null;default:''"                             json:"userName"`
	Products []Product `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"products"`
}
