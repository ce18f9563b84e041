package dbhelper

import (
	"context"

	"github.com/ray-remotestate/greatwok/database"
	"github.com/ray-remotestate/greatwok/models"
)

const inventoryColumns = `inventory_id, dish_id, quantity_in_stock, version, last_updated`

func ListInventory(ctx context.Context) ([]models.Inventory, error) {
	items := []models.Inventory{}
	err := database.Wok.SelectContext(ctx, &items, `
		SELECT i.inventory_id, i.dish_id, i.quantity_in_stock, i.version, i.last_updated, d.dish_name
		FROM inventory i
		JOIN dishes d ON i.dish_id = d.dish_id
		ORDER BY i.inventory_id ASC`)
	return items, err
}

func GetInventory(ctx context.Context, id int64) (*models.Inventory, error) {
	var item models.Inventory
	err := database.Wok.GetContext(ctx, &item, `
		SELECT i.inventory_id, i.dish_id, i.quantity_in_stock, i.version, i.last_updated, d.dish_name
		FROM inventory i
		JOIN dishes d ON i.dish_id = d.dish_id
		WHERE i.inventory_id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func GetInventoryByDish(ctx context.Context, dishID int64) (*models.Inventory, error) {
	var item models.Inventory
	err := database.Wok.GetContext(ctx, &item, `
		SELECT i.inventory_id, i.dish_id, i.quantity_in_stock, i.version, i.last_updated, d.dish_name
		FROM inventory i
		JOIN dishes d ON i.dish_id = d.dish_id
		WHERE i.dish_id = $1`, dishID)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func CreateInventory(ctx context.Context, dishID int64, quantity int) (*models.Inventory, error) {
	var item models.Inventory
	err := database.Wok.GetContext(ctx, &item, `
		INSERT INTO inventory (dish_id, quantity_in_stock) VALUES ($1, $2)
		RETURNING `+inventoryColumns, dishID, quantity)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateInventory sets a new stock total. With expectedVersion set the write
// only lands if nobody else updated the row since it was read.
func UpdateInventory(ctx context.Context, id int64, quantity int, expectedVersion *int) (*models.Inventory, error) {
	var item models.Inventory
	err := database.Wok.GetContext(ctx, &item, `
		UPDATE inventory
		SET quantity_in_stock = $1, version = version + 1, last_updated = NOW()
		WHERE inventory_id = $2 AND ($3::int IS NULL OR version = $3)
		RETURNING `+inventoryColumns, quantity, id, expectedVersion)
	if err == nil {
		return &item, nil
	}
	if !IsNotFound(err) || expectedVersion == nil {
		return nil, err
	}

	var exists bool
	if err := database.Wok.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM inventory WHERE inventory_id = $1)`, id); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrVersionConflict
	}
	return nil, err
}

// Restock adds delta to the stock in a single statement.
func Restock(ctx context.Context, id int64, delta int) (*models.Inventory, error) {
	var item models.Inventory
	err := database.Wok.GetContext(ctx, &item, `
		UPDATE inventory
		SET quantity_in_stock = quantity_in_stock + $1, version = version + 1, last_updated = NOW()
		WHERE inventory_id = $2
		RETURNING `+inventoryColumns, delta, id)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func DeleteInventory(ctx context.Context, id int64) error {
	return affectedOrNotFound(database.Wok.ExecContext(ctx, `DELETE FROM inventory WHERE inventory_id = $1`, id))
}
