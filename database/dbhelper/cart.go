package dbhelper

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ray-remotestate/greatwok/database"
	"github.com/ray-remotestate/greatwok/models"
)

const cartColumns = `cart_item_id, user_id, dish_id, quantity`

func ListCart(ctx context.Context, userID int64) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	err := database.Wok.SelectContext(ctx, &lines, `
		SELECT c.cart_item_id, c.user_id, c.dish_id, c.quantity, d.dish_name, d.price
		FROM cart_items c
		LEFT JOIN dishes d ON c.dish_id = d.dish_id
		WHERE c.user_id = $1
		ORDER BY c.cart_item_id ASC`, userID)
	return lines, err
}

func GetCartItem(ctx context.Context, id int64) (*models.CartItem, error) {
	var item models.CartItem
	if err := database.Wok.GetContext(ctx, &item, `SELECT `+cartColumns+` FROM cart_items WHERE cart_item_id = $1`, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// AddToCart inserts the dish or merges the quantity into the existing line.
// created reports whether a new row was inserted.
func AddToCart(ctx context.Context, userID, dishID int64, quantity int) (item *models.CartItem, created bool, err error) {
	var row struct {
		models.CartItem
		Inserted bool `db:"inserted"`
	}
	err = database.Wok.GetContext(ctx, &row, `
		INSERT INTO cart_items (user_id, dish_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, dish_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING `+cartColumns+`, (xmax = 0) AS inserted`,
		userID, dishID, quantity)
	if err != nil {
		return nil, false, err
	}
	return &row.CartItem, row.Inserted, nil
}

func UpdateCartItem(ctx context.Context, id int64, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := database.Wok.GetContext(ctx, &item, `
		UPDATE cart_items SET quantity = $1 WHERE cart_item_id = $2
		RETURNING `+cartColumns, quantity, id)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func DeleteCartItem(ctx context.Context, id int64) error {
	return affectedOrNotFound(database.Wok.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_item_id = $1`, id))
}

// ClearCart empties a user's cart; pass a *sqlx.Tx to make it part of a checkout.
func ClearCart(ctx context.Context, exec sqlx.ExecerContext, userID int64) (int64, error) {
	res, err := exec.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
