package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/greatwok/database/dbhelper"
	"github.com/ray-remotestate/greatwok/utils"
)

func ListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := dbhelper.ListInventory(r.Context())
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to fetch inventory")
		return
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func GetInventory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "inventory ID")
	if !ok {
		return
	}

	item, err := dbhelper.GetInventory(r.Context(), id)
	if err != nil {
		respondDBError(w, r, err, "Inventory item not found", "failed to fetch inventory item")
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

func GetInventoryByDish(w http.ResponseWriter, r *http.Request) {
	dishID, ok := pathID(w, r, "dish_id", "dish ID")
	if !ok {
		return
	}

	item, err := dbhelper.GetInventoryByDish(r.Context(), dishID)
	if err != nil {
		respondDBError(w, r, err, "No inventory found for this dish", "failed to fetch inventory for dish")
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

func CreateInventory(w http.ResponseWriter, r *http.Request) {
	type request struct {
		DishID          int64 `json:"dish_id" validate:"required,min=1"`
		QuantityInStock *int  `json:"quantity_in_stock" validate:"required,min=0,max=1000000"`
	}

	var req request
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.RespondBadRequest(w, err)
		return
	}

	item, err := dbhelper.CreateInventory(r.Context(), req.DishID, *req.QuantityInStock)
	if err != nil {
		switch {
		case dbhelper.IsForeignKeyViolation(err):
			utils.RespondError(w, http.StatusBadRequest, "Dish does not exist")
		case dbhelper.IsUniqueViolation(err):
			utils.RespondError(w, http.StatusConflict, "Inventory already exists for this dish")
		default:
			utils.RespondInternal(w, r, err, "failed to create inventory item")
		}
		return
	}
	utils.RespondJSON(w, http.StatusCreated, item)
}

// UpdateInventory replaces the stock total. Sending the version read earlier
// makes the write fail with 409 if another update landed in between.
func UpdateInventory(w http.ResponseWriter, r *http.Request) {
	type request struct {
		QuantityInStock *int `json:"quantity_in_stock" validate:"required,min=0,max=1000000"`
		Version         *int `json:"version" validate:"omitempty,min=1,max=2147483647"`
	}

	id, ok := pathID(w, r, "id", "inventory ID")
	if !ok {
		return
	}

	var req request
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.RespondBadRequest(w, err)
		return
	}

	item, err := dbhelper.UpdateInventory(r.Context(), id, *req.QuantityInStock, req.Version)
	if err != nil {
		respondDBError(w, r, err, "Inventory item not found", "failed to update inventory item")
		return
	}
	if req.Version == nil {
		logrus.WithField("inventory_id", id).Debug("inventory overwritten without version check")
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

func RestockInventory(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Quantity int `json:"quantity" validate:"required,min=1,max=1000000"`
	}

	id, ok := pathID(w, r, "id", "inventory ID")
	if !ok {
		return
	}

	var req request
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.RespondBadRequest(w, err)
		return
	}

	item, err := dbhelper.Restock(r.Context(), id, req.Quantity)
	if err != nil {
		respondDBError(w, r, err, "Inventory item not found", "failed to restock inventory item")
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

func DeleteInventory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "inventory ID")
	if !ok {
		return
	}

	if err := dbhelper.DeleteInventory(r.Context(), id); err != nil {
		respondDBError(w, r, err, "Inventory item not found", "failed to delete inventory item")
		return
	}
	utils.RespondMessage(w, http.StatusOK, "Inventory item deleted successfully")
}
