package dbhelper

import (
	"context"

	"github.com/ray-remotestate/greatwok/database"
	"github.com/ray-remotestate/greatwok/models"
)

const categoryColumns = `category_id, category_name, created_at, updated_at`

func ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := database.Wok.SelectContext(ctx, &categories, `SELECT `+categoryColumns+` FROM categories ORDER BY category_id ASC`)
	return categories, err
}

func GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	if err := database.Wok.GetContext(ctx, &c, `SELECT `+categoryColumns+` FROM categories WHERE category_id = $1`, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	err := database.Wok.GetContext(ctx, &c, `
		INSERT INTO categories (category_name) VALUES ($1)
		RETURNING `+categoryColumns, name)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func UpdateCategory(ctx context.Context, id int64, name string) (*models.Category, error) {
	var c models.Category
	err := database.Wok.GetContext(ctx, &c, `
		UPDATE categories SET category_name = $1, updated_at = NOW()
		WHERE category_id = $2
		RETURNING `+categoryColumns, name, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func DeleteCategory(ctx context.Context, id int64) error {
	return affectedOrNotFound(database.Wok.ExecContext(ctx, `DELETE FROM categories WHERE category_id = $1`, id))
}
