package dbhelper

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/greatwok/database"
	"github.com/ray-remotestate/greatwok/models"
)

const (
	orderColumns     = `order_id, user_id, total_price, address_id, status, delivery_type, idempotency_key, placed_at, updated_at`
	orderItemColumns = `order_item_id, order_id, dish_id, quantity, price, status`
)

var (
	ErrAddressNotFound  = errors.New("address does not exist")
	ErrAddressNotOwned  = errors.New("address does not belong to the user")
	ErrUnknownDish      = errors.New("dish does not exist")
	ErrDishUnavailable  = errors.New("dish is not available")
	ErrIdempotencyInUse = errors.New("idempotency key is already being used by another request")
	ErrEmptyOrder       = errors.New("order has no items")
)

type PlaceOrderParams struct {
	UserID         int64
	AddressID      int64
	DeliveryType   models.DeliveryType
	Lines          []models.OrderLine
	IdempotencyKey string
}

type PlacedOrder struct {
	Order *models.Order
	Items []models.OrderItem
	// Replayed is set when the idempotency key matched an earlier order.
	Replayed    bool
	CartCleared int64
}

// PlaceOrder writes the order, its items and the cart clear in one
// transaction, pricing every line from the dishes table.
func PlaceOrder(ctx context.Context, p PlaceOrderParams) (*PlacedOrder, error) {
	if len(p.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	var placed PlacedOrder
	err := database.Tx(ctx, func(tx *sqlx.Tx) error {
		if p.IdempotencyKey != "" {
			existing, err := findOrderByIdempotencyKey(ctx, tx, p.UserID, p.IdempotencyKey)
			if err != nil && !IsNotFound(err) {
				return err
			}
			if existing != nil {
				items, err := orderItems(ctx, tx, existing.OrderID)
				if err != nil {
					return err
				}
				placed = PlacedOrder{Order: existing, Items: items, Replayed: true}
				return nil
			}
		}

		var owner int64
		if err := tx.GetContext(ctx, &owner, `SELECT user_id FROM addresses WHERE address_id = $1`, p.AddressID); err != nil {
			if IsNotFound(err) {
				return ErrAddressNotFound
			}
			return err
		}
		if owner != p.UserID {
			return ErrAddressNotOwned
		}

		prices, err := lockDishPrices(ctx, tx, p.Lines)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range p.Lines {
			total = total.Add(prices[line.DishID].Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		var key *string
		if p.IdempotencyKey != "" {
			key = &p.IdempotencyKey
		}

		var order models.Order
		err = tx.GetContext(ctx, &order, `
			INSERT INTO orders (user_id, total_price, address_id, status, delivery_type, idempotency_key, placed_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
			RETURNING `+orderColumns,
			p.UserID, total, p.AddressID, models.StatusPending, p.DeliveryType, key)
		if err != nil {
			if IsUniqueViolation(err) {
				return ErrIdempotencyInUse
			}
			return err
		}

		items := make([]models.OrderItem, 0, len(p.Lines))
		for _, line := range p.Lines {
			var item models.OrderItem
			err := tx.GetContext(ctx, &item, `
				INSERT INTO order_items (order_id, dish_id, quantity, price, status)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING `+orderItemColumns,
				order.OrderID, line.DishID, line.Quantity, prices[line.DishID], models.StatusPending)
			if err != nil {
				return fmt.Errorf("insert order item for dish %d: %w", line.DishID, err)
			}
			items = append(items, item)
		}

		cleared, err := ClearCart(ctx, tx, p.UserID)
		if err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		placed = PlacedOrder{Order: &order, Items: items, CartCleared: cleared}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &placed, nil
}

func lockDishPrices(ctx context.Context, tx *sqlx.Tx, lines []models.OrderLine) (map[int64]decimal.Decimal, error) {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.DishID)
	}

	var rows []struct {
		DishID      int64           `db:"dish_id"`
		Price       decimal.Decimal `db:"price"`
		IsAvailable bool            `db:"is_available"`
	}
	err := tx.SelectContext(ctx, &rows, `
		SELECT dish_id, price, is_available FROM dishes
		WHERE dish_id = ANY($1)
		FOR SHARE`, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	prices := make(map[int64]decimal.Decimal, len(rows))
	for _, row := range rows {
		if !row.IsAvailable {
			return nil, fmt.Errorf("%w: %d", ErrDishUnavailable, row.DishID)
		}
		prices[row.DishID] = row.Price
	}
	for _, id := range ids {
		if _, ok := prices[id]; !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownDish, id)
		}
	}
	return prices, nil
}

func findOrderByIdempotencyKey(ctx context.Context, q sqlx.QueryerContext, userID int64, key string) (*models.Order, error) {
	var order models.Order
	err := sqlx.GetContext(ctx, q, &order, `
		SELECT `+orderColumns+` FROM orders WHERE user_id = $1 AND idempotency_key = $2`, userID, key)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func orderItems(ctx context.Context, q sqlx.QueryerContext, orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	err := sqlx.SelectContext(ctx, q, &items, `
		SELECT oi.order_item_id, oi.order_id, oi.dish_id, d.dish_name, oi.quantity, oi.price, oi.status
		FROM order_items oi
		LEFT JOIN dishes d ON oi.dish_id = d.dish_id
		WHERE oi.order_id = $1
		ORDER BY oi.order_item_id ASC`, orderID)
	return items, err
}

func GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := database.Wok.GetContext(ctx, &order, `SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, id); err != nil {
		return nil, err
	}
	return &order, nil
}

func ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	return orderItems(ctx, database.Wok, orderID)
}

func ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	orders := []models.Order{}
	err := database.Wok.SelectContext(ctx, &orders, `
		SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY placed_at DESC`, userID)
	return orders, err
}

func ListOrders(ctx context.Context) ([]models.OrderSummary, error) {
	orders := []models.OrderSummary{}
	err := database.Wok.SelectContext(ctx, &orders, `
		SELECT
			o.order_id, o.total_price, o.status, o.delivery_type, o.placed_at,
			u.username, u.email,
			a.address_line, a.city, a.state, a.country, a.postal_code
		FROM orders o
		LEFT JOIN users u ON o.user_id = u.user_id
		LEFT JOIN addresses a ON o.address_id = a.address_id
		ORDER BY o.placed_at DESC`)
	return orders, err
}

// ListAllOrderItems feeds the kitchen view: finished items sink to the bottom.
func ListAllOrderItems(ctx context.Context) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	err := database.Wok.SelectContext(ctx, &items, `
		SELECT oi.order_item_id, oi.order_id, oi.dish_id, d.dish_name, oi.quantity, oi.price, oi.status
		FROM order_items oi
		JOIN dishes d ON oi.dish_id = d.dish_id
		ORDER BY (oi.status = $1) ASC, oi.order_id ASC, oi.order_item_id ASC`, models.StatusDonePreparing)
	return items, err
}

// UpdateOrderStatus moves an order to next after checking the transition
// against the row's current status under a row lock.
func UpdateOrderStatus(ctx context.Context, id int64, next models.Status) (*models.Order, error) {
	var order models.Order
	err := database.Tx(ctx, func(tx *sqlx.Tx) error {
		var current models.Status
		if err := tx.GetContext(ctx, &current, `SELECT status FROM orders WHERE order_id = $1 FOR UPDATE`, id); err != nil {
			return err
		}
		if err := current.Transition(next); err != nil {
			return err
		}
		return tx.GetContext(ctx, &order, `
			UPDATE orders SET status = $1, updated_at = NOW() WHERE order_id = $2
			RETURNING `+orderColumns, next, id)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func UpdateOrderItemStatus(ctx context.Context, id int64, next models.Status) (*models.OrderItem, error) {
	var item models.OrderItem
	err := database.Tx(ctx, func(tx *sqlx.Tx) error {
		var current models.Status
		if err := tx.GetContext(ctx, &current, `SELECT status FROM order_items WHERE order_item_id = $1 FOR UPDATE`, id); err != nil {
			return err
		}
		if err := current.Transition(next); err != nil {
			return err
		}
		return tx.GetContext(ctx, &item, `
			UPDATE order_items SET status = $1 WHERE order_item_id = $2
			RETURNING `+orderItemColumns, next, id)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}
