package handlers

import (
	"net/http"

	"github.com/ray-remotestate/greatwok/database"
	"github.com/ray-remotestate/greatwok/database/dbhelper"
	"github.com/ray-remotestate/greatwok/middlewares"
	"github.com/ray-remotestate/greatwok/models"
	"github.com/ray-remotestate/greatwok/utils"
)

func GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "user_id", "user ID")
	if !ok || !requireOwner(w, r, userID) {
		return
	}

	lines, err := dbhelper.ListCart(r.Context(), userID)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to fetch cart")
		return
	}
	utils.RespondJSON(w, http.StatusOK, lines)
}

// ownedCartItem loads a cart row and checks the caller may touch it.
func ownedCartItem(w http.ResponseWriter, r *http.Request) (*models.CartItem, bool) {
	id, ok := pathID(w, r, "id", "cart item ID")
	if !ok {
		return nil, false
	}

	item, err := dbhelper.GetCartItem(r.Context(), id)
	if err != nil {
		respondDBError(w, r, err, "Cart item not found", "failed to fetch cart item")
		return nil, false
	}
	if !requireOwner(w, r, item.UserID) {
		return nil, false
	}
	return item, true
}

func GetCartItem(w http.ResponseWriter, r *http.Request) {
	item, ok := ownedCartItem(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

// AddToCart merges into an existing line for the same dish: 201 on insert, 200 on merge.
func AddToCart(w http.ResponseWriter, r *http.Request) {
	type request struct {
		UserID   int64 `json:"user_id" validate:"omitempty,min=1"`
		DishID   int64 `json:"dish_id" validate:"required,min=1"`
		Quantity *int  `json:"quantity" validate:"omitempty,min=1,max=1000"`
	}

	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "No token provided")
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
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, created, err := dbhelper.AddToCart(r.Context(), req.UserID, req.DishID, quantity)
	if err != nil {
		if dbhelper.IsForeignKeyViolation(err) {
			utils.RespondError(w, http.StatusBadRequest, "Dish or user does not exist")
			return
		}
		if dbhelper.IsOutOfRange(err) {
			utils.RespondError(w, http.StatusBadRequest, "Cart quantity is out of range")
			return
		}
		utils.RespondInternal(w, r, err, "failed to add item to cart")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	utils.RespondJSON(w, status, item)
}

func UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Quantity int `json:"quantity" validate:"required,min=1,max=1000"`
	}

	item, ok := ownedCartItem(w, r)
	if !ok {
		return
	}

	var req request
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.RespondBadRequest(w, err)
		return
	}

	updated, err := dbhelper.UpdateCartItem(r.Context(), item.CartItemID, req.Quantity)
	if err != nil {
		respondDBError(w, r, err, "Cart item not found", "failed to update cart item")
		return
	}
	utils.RespondJSON(w, http.StatusOK, updated)
}

func DeleteCartItem(w http.ResponseWriter, r *http.Request) {
	item, ok := ownedCartItem(w, r)
	if !ok {
		return
	}

	if err := dbhelper.DeleteCartItem(r.Context(), item.CartItemID); err != nil {
		respondDBError(w, r, err, "Cart item not found", "failed to delete cart item")
		return
	}
	utils.RespondMessage(w, http.StatusOK, "Cart item deleted successfully")
}

func ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "user_id", "user ID")
	if !ok || !requireOwner(w, r, userID) {
		return
	}

	removed, err := dbhelper.ClearCart(r.Context(), database.Wok, userID)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to clear cart")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Cart cleared successfully",
		"removed": removed,
	})
}
