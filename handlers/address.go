package handlers

import (
	"net/http"

	"github.com/ray-remotestate/greatwok/database/dbhelper"
	"github.com/ray-remotestate/greatwok/middlewares"
	"github.com/ray-remotestate/greatwok/models"
	"github.com/ray-remotestate/greatwok/utils"
)

func ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "user_id", "user ID")
	if !ok || !requireOwner(w, r, userID) {
		return
	}

	addresses, err := dbhelper.ListAddresses(r.Context(), userID)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to fetch addresses")
		return
	}
	utils.RespondJSON(w, http.StatusOK, addresses)
}

func ownedAddress(w http.ResponseWriter, r *http.Request) (*models.Address, bool) {
	id, ok := pathID(w, r, "id", "address ID")
	if !ok {
		return nil, false
	}

	address, err := dbhelper.GetAddress(r.Context(), id)
	if err != nil {
		respondDBError(w, r, err, "Address not found.", "failed to fetch address")
		return nil, false
	}
	if !requireOwner(w, r, address.UserID) {
		return nil, false
	}
	return address, true
}

func GetAddress(w http.ResponseWriter, r *http.Request) {
	address, ok := ownedAddress(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, address)
}

func CreateAddress(w http.ResponseWriter, r *http.Request) {
	type request struct {
		UserID      int64  `json:"user_id" validate:"omitempty,min=1"`
		AddressLine string `json:"address_line" validate:"required"`
		City        string `json:"city" validate:"required"`
		State       string `json:"state" validate:"required"`
		Country     string `json:"country" validate:"required"`
		PostalCode  string `json:"postal_code" validate:"required,max=20"`
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

	address, err := dbhelper.CreateAddress(r.Context(), req.UserID, dbhelper.AddressFields{
		AddressLine: &req.AddressLine,
		City:        &req.City,
		State:       &req.State,
		Country:     &req.Country,
		PostalCode:  &req.PostalCode,
	})
	if err != nil {
		if dbhelper.IsForeignKeyViolation(err) {
			utils.RespondError(w, http.StatusBadRequest, "User does not exist")
			return
		}
		utils.RespondInternal(w, r, err, "failed to create address")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, address)
}

func UpdateAddress(w http.ResponseWriter, r *http.Request) {
	type request struct {
		AddressLine *string `json:"address_line" validate:"omitempty,min=1"`
		City        *string `json:"city" validate:"omitempty,min=1"`
		State       *string `json:"state" validate:"omitempty,min=1"`
		Country     *string `json:"country" validate:"omitempty,min=1"`
		PostalCode  *string `json:"postal_code" validate:"omitempty,min=1,max=20"`
	}

	address, ok := ownedAddress(w, r)
	if !ok {
		return
	}

	var req request
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.RespondBadRequest(w, err)
		return
	}

	updated, err := dbhelper.UpdateAddress(r.Context(), address.AddressID, dbhelper.AddressFields{
		AddressLine: req.AddressLine,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		PostalCode:  req.PostalCode,
	})
	if err != nil {
		respondDBError(w, r, err, "Address not found.", "failed to update address")
		return
	}
	utils.RespondJSON(w, http.StatusOK, updated)
}

func DeleteAddress(w http.ResponseWriter, r *http.Request) {
	address, ok := ownedAddress(w, r)
	if !ok {
		return
	}

	if err := dbhelper.DeleteAddress(r.Context(), address.AddressID); err != nil {
		respondDBError(w, r, err, "Address not found.", "failed to delete address")
		return
	}
	utils.RespondMessage(w, http.StatusOK, "Address deleted successfully.")
}
