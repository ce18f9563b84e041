package dbhelper

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/greatwok/database"
	"github.com/ray-remotestate/greatwok/models"
)

const dishColumns = `dish_id, dish_name, description, price, category_id, image_url, is_available, created_at, updated_at`

type DishFilter struct {
	CategoryID *int64
	Available  *bool
}

// DishFields carries a create or a partial update; nil means "not provided".
type DishFields struct {
	DishName    *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *int64
	ImageURL    *string
	IsAvailable *bool
}

func ListDishes(ctx context.Context, filter DishFilter) ([]models.Dish, error) {
	var (
		where []string
		args  []any
	)
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.Available != nil {
		args = append(args, *filter.Available)
		where = append(where, fmt.Sprintf("is_available = $%d", len(args)))
	}

	query := `SELECT ` + dishColumns + ` FROM dishes`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	dishes := []models.Dish{}
	err := database.Wok.SelectContext(ctx, &dishes, query, args...)
	return dishes, err
}

func GetDish(ctx context.Context, id int64) (*models.Dish, error) {
	var d models.Dish
	if err := database.Wok.GetContext(ctx, &d, `SELECT `+dishColumns+` FROM dishes WHERE dish_id = $1`, id); err != nil {
		return nil, err
	}
	return &d, nil
}

func DishExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := database.Wok.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM dishes WHERE dish_id = $1)`, id)
	return exists, err
}

func CreateDish(ctx context.Context, f DishFields) (*models.Dish, error) {
	available := true
	if f.IsAvailable != nil {
		available = *f.IsAvailable
	}

	var d models.Dish
	err := database.Wok.GetContext(ctx, &d, `
		INSERT INTO dishes (dish_name, description, price, category_id, image_url, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+dishColumns,
		f.DishName, f.Description, f.Price, f.CategoryID, f.ImageURL, available)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func UpdateDish(ctx context.Context, id int64, f DishFields) (*models.Dish, error) {
	var d models.Dish
	err := database.Wok.GetContext(ctx, &d, `
		UPDATE dishes SET
			dish_name = COALESCE($1, dish_name),
			description = COALESCE($2, description),
			price = COALESCE($3, price),
			category_id = COALESCE($4, category_id),
			image_url = COALESCE($5, image_url),
			is_available = COALESCE($6, is_available),
			updated_at = NOW()
		WHERE dish_id = $7
		RETURNING `+dishColumns,
		f.DishName, f.Description, f.Price, f.CategoryID, f.ImageURL, f.IsAvailable, id)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func DeleteDish(ctx context.Context, id int64) error {
	return affectedOrNotFound(database.Wok.ExecContext(ctx, `DELETE FROM dishes WHERE dish_id = $1`, id))
}
