package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices go out as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

type Category struct {
	CategoryID   int64      `db:"category_id" json:"category_id"`
	CategoryName string     `db:"category_name" json:"category_name"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

type Dish struct {
	DishID      int64           `db:"dish_id" json:"dish_id"`
	DishName    string          `db:"dish_name" json:"dish_name"`
	Description *string         `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	CategoryID  *int64          `db:"category_id" json:"category_id"`
	ImageURL    *string         `db:"image_url" json:"image_url"`
	IsAvailable bool            `db:"is_available" json:"is_available"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time      `db:"updated_at" json:"updated_at,omitempty"`
}

type Inventory struct {
	InventoryID     int64     `db:"inventory_id" json:"inventory_id"`
	DishID          int64     `db:"dish_id" json:"dish_id"`
	DishName        string    `db:"dish_name" json:"dish_name,omitempty"`
	QuantityInStock int       `db:"quantity_in_stock" json:"quantity_in_stock"`
	Version         int       `db:"version" json:"version"`
	LastUpdated     time.Time `db:"last_updated" json:"last_updated"`
}

type Review struct {
	ReviewID  int64      `db:"review_id" json:"review_id"`
	UserID    int64      `db:"user_id" json:"user_id"`
	DishID    int64      `db:"dish_id" json:"dish_id"`
	Rating    int        `db:"rating" json:"rating"`
	Comment   *string    `db:"comment" json:"comment"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// ReviewDetail is the admin listing row.
type ReviewDetail struct {
	ReviewID  int64     `db:"review_id" json:"review_id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   *string   `db:"comment" json:"comment"`
	DishName  string    `db:"dish_name" json:"dish_name"`
	Username  string    `db:"username" json:"username"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
