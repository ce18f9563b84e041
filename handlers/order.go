package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/greatwok/database/dbhelper"
	"github.com/ray-remotestate/greatwok/metrics"
	"github.com/ray-remotestate/greatwok/middlewares"
	"github.com/ray-remotestate/greatwok/models"
	"github.com/ray-remotestate/greatwok/utils"
)

const (
	idempotencyHeader    = "Idempotency-Key"
	maxIdempotencyKeyLen = 100
	maxStatusBodyBytes   = 1 << 10
)

type orderResponse struct {
	Message string             `json:"message,omitempty"`
	Order   *models.Order      `json:"order"`
	Items   []models.OrderItem `json:"items"`
}

// PlaceOrder checks out in one transaction. Prices come from the dishes
// table; a client total is only compared and logged.
func PlaceOrder(w http.ResponseWriter, r *http.Request) {
	type request struct {
		UserID       int64               `json:"user_id" validate:"omitempty,min=1"`
		AddressID    int64               `json:"address_id" validate:"required,min=1"`
		TotalPrice   *decimal.Decimal    `json:"total_price"`
		DeliveryType models.DeliveryType `json:"delivery_type" validate:"omitempty,oneof=delivery pickup"`
		CartItems    []models.OrderLine  `json:"cart_items" validate:"required,min=1,dive"`
	}

	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	key := r.Header.Get(idempotencyHeader)
	if len(key) > maxIdempotencyKeyLen {
		utils.RespondError(w, http.StatusBadRequest, fmt.Sprintf("%s must be at most %d characters", idempotencyHeader, maxIdempotencyKeyLen))
		return
	}

	var req request
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.RespondBadRequest(w, err)
		return
	}
	if req.UserID == 0 {
		req.UserID = claims.UserID
	}
	if !requireOwner(w, r, req.UserID) {
		return
	}
	if req.DeliveryType == "" {
		req.DeliveryType = models.DeliveryTypeDelivery
	}

	placed, err := dbhelper.PlaceOrder(r.Context(), dbhelper.PlaceOrderParams{
		UserID:         req.UserID,
		AddressID:      req.AddressID,
		DeliveryType:   req.DeliveryType,
		Lines:          req.CartItems,
		IdempotencyKey: key,
	})
	if err != nil {
		switch {
		case errors.Is(err, dbhelper.ErrAddressNotFound):
			utils.RespondError(w, http.StatusBadRequest, "Address does not exist")
		case errors.Is(err, dbhelper.ErrAddressNotOwned):
			utils.RespondError(w, http.StatusForbidden, "Address does not belong to this user")
		case errors.Is(err, dbhelper.ErrUnknownDish), errors.Is(err, dbhelper.ErrDishUnavailable):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		case dbhelper.IsOutOfRange(err):
			utils.RespondError(w, http.StatusBadRequest, "Order total is out of range")
		case errors.Is(err, dbhelper.ErrIdempotencyInUse):
			utils.RespondError(w, http.StatusConflict, "An order with this idempotency key is already being placed")
		default:
			utils.RespondInternal(w, r, err, "failed to place order")
		}
		return
	}

	metrics.RecordOrderPlaced(string(placed.Order.DeliveryType), placed.Replayed)
	if placed.Replayed {
		utils.RespondJSON(w, http.StatusOK, orderResponse{Message: "Order already placed", Order: placed.Order, Items: placed.Items})
		return
	}

	entry := logrus.WithFields(logrus.Fields{
		"order_id":     placed.Order.OrderID,
		"user_id":      placed.Order.UserID,
		"items":        len(placed.Items),
		"cart_cleared": placed.CartCleared,
		"total_price":  placed.Order.TotalPrice.String(),
	})
	if req.TotalPrice != nil && !req.TotalPrice.Equal(placed.Order.TotalPrice) {
		entry.WithField("client_total", req.TotalPrice.String()).Warn("client total differs from server price")
	}
	entry.Info("order placed")

	utils.RespondJSON(w, http.StatusCreated, orderResponse{Message: "Order placed successfully!", Order: placed.Order, Items: placed.Items})
}

func ownedOrder(w http.ResponseWriter, r *http.Request) (*models.Order, bool) {
	id, ok := pathID(w, r, "id", "order ID")
	if !ok {
		return nil, false
	}

	order, err := dbhelper.GetOrder(r.Context(), id)
	if err != nil {
		respondDBError(w, r, err, "Order not found", "failed to fetch order")
		return nil, false
	}
	if !requireOwner(w, r, order.UserID) {
		return nil, false
	}
	return order, true
}

func GetOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := ownedOrder(w, r)
	if !ok {
		return
	}

	items, err := dbhelper.ListOrderItems(r.Context(), order.OrderID)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to fetch order items")
		return
	}
	utils.RespondJSON(w, http.StatusOK, orderResponse{Order: order, Items: items})
}

func ListOrderItems(w http.ResponseWriter, r *http.Request) {
	order, ok := ownedOrder(w, r)
	if !ok {
		return
	}

	items, err := dbhelper.ListOrderItems(r.Context(), order.OrderID)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to fetch order items")
		return
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func ListOrdersByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "user_id", "user ID")
	if !ok || !requireOwner(w, r, userID) {
		return
	}

	orders, err := dbhelper.ListOrdersByUser(r.Context(), userID)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to fetch orders")
		return
	}
	utils.RespondJSON(w, http.StatusOK, orders)
}

func ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := dbhelper.ListOrders(r.Context())
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to fetch orders")
		return
	}
	utils.RespondJSON(w, http.StatusOK, orders)
}

func ListAllOrderItems(w http.ResponseWriter, r *http.Request) {
	items, err := dbhelper.ListAllOrderItems(r.Context())
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to fetch order items")
		return
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

// targetStatus reads {"status": "..."}; an empty body means Done Preparing.
func targetStatus(r *http.Request) (models.Status, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxStatusBodyBytes))
	if err != nil {
		return "", fmt.Errorf("invalid request body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return models.StatusDonePreparing, nil
	}

	var body struct {
		Status *string `json:"status"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("invalid request body: %w", err)
	}
	if body.Status == nil {
		return models.StatusDonePreparing, nil
	}
	return models.ParseStatus(*body.Status)
}

func UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "order ID")
	if !ok {
		return
	}

	next, err := targetStatus(r)
	if err != nil {
		utils.RespondBadRequest(w, err)
		return
	}

	order, err := dbhelper.UpdateOrderStatus(r.Context(), id, next)
	if err != nil {
		respondDBError(w, r, err, "Order not found", "failed to update order status")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Order status updated to %q", next),
		"order":   order,
	})
}

func UpdateOrderItemStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "order item ID")
	if !ok {
		return
	}

	next, err := targetStatus(r)
	if err != nil {
		utils.RespondBadRequest(w, err)
		return
	}

	item, err := dbhelper.UpdateOrderItemStatus(r.Context(), id, next)
	if err != nil {
		respondDBError(w, r, err, "Order item not found", "failed to update order item status")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   fmt.Sprintf("Status updated to %q", next),
		"orderItem": item,
	})
}
