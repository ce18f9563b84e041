package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the preparation state shared by orders and order items.
type Status string

const (
	StatusPending       Status = "Pending"
	StatusInProgress    Status = "In Progress"
	StatusDonePreparing Status = "Done Preparing"
)

var (
	ErrUnknownStatus     = errors.New("unknown status")
	ErrIllegalTransition = errors.New("illegal status transition")
)

// statusTransitions lists the legal next states. Done Preparing is terminal.
var statusTransitions = map[Status][]Status{
	StatusPending:       {StatusInProgress, StatusDonePreparing},
	StatusInProgress:    {StatusDonePreparing},
	StatusDonePreparing: {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := statusTransitions[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition validates moving from s to next.
func (s Status) Transition(next Status) error {
	if _, ok := statusTransitions[next]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, next)
	}
	if !s.CanTransitionTo(next) {
		return fmt.Errorf("%w: %q -> %q", ErrIllegalTransition, s, next)
	}
	return nil
}

func (s Status) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

type CartItem struct {
	CartItemID int64 `db:"cart_item_id" json:"cart_item_id"`
	UserID     int64 `db:"user_id" json:"user_id"`
	DishID     int64 `db:"dish_id" json:"dish_id"`
	Quantity   int   `db:"quantity" json:"quantity"`
}

// CartLine is a cart row joined with the dish it points at.
type CartLine struct {
	CartItemID int64            `db:"cart_item_id" json:"cart_item_id"`
	UserID     int64            `db:"user_id" json:"user_id"`
	DishID     int64            `db:"dish_id" json:"dish_id"`
	Quantity   int              `db:"quantity" json:"quantity"`
	DishName   *string          `db:"dish_name" json:"dish_name"`
	Price      *decimal.Decimal `db:"price" json:"price"`
}

type Order struct {
	OrderID        int64           `db:"order_id" json:"order_id"`
	UserID         int64           `db:"user_id" json:"user_id"`
	TotalPrice     decimal.Decimal `db:"total_price" json:"total_price"`
	AddressID      *int64          `db:"address_id" json:"address_id"`
	Status         Status          `db:"status" json:"status"`
	DeliveryType   DeliveryType    `db:"delivery_type" json:"delivery_type"`
	IdempotencyKey *string         `db:"idempotency_key" json:"-"`
	PlacedAt       time.Time       `db:"placed_at" json:"placed_at"`
	UpdatedAt      *time.Time      `db:"updated_at" json:"updated_at,omitempty"`
}

type OrderItem struct {
	OrderItemID int64           `db:"order_item_id" json:"order_item_id"`
	OrderID     int64           `db:"order_id" json:"order_id"`
	DishID      int64           `db:"dish_id" json:"dish_id"`
	DishName    *string         `db:"dish_name" json:"dish_name,omitempty"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Status      Status          `db:"status" json:"status"`
}

// OrderSummary is the admin listing row.
type OrderSummary struct {
	OrderID      int64           `db:"order_id" json:"order_id"`
	TotalPrice   decimal.Decimal `db:"total_price" json:"total_price"`
	Status       Status          `db:"status" json:"status"`
	DeliveryType DeliveryType    `db:"delivery_type" json:"delivery_type"`
	PlacedAt     time.Time       `db:"placed_at" json:"placed_at"`
	Username     *string         `db:"username" json:"username"`
	Email        *string         `db:"email" json:"email"`
	AddressLine  *string         `db:"address_line" json:"address_line"`
	City         *string         `db:"city" json:"city"`
	State        *string         `db:"state" json:"state"`
	Country      *string         `db:"country" json:"country"`
	PostalCode   *string         `db:"postal_code" json:"postal_code"`
}

// OrderLine is one requested line of a checkout.
type OrderLine struct {
	DishID   int64 `json:"dish_id" validate:"required,min=1"`
	Quantity int   `json:"quantity" validate:"required,min=1,max=1000"`
	// Price is what the client saw; the stored price comes from the dish row.
	Price *decimal.Decimal `json:"price,omitempty"`
}
