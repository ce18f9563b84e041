package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/greatwok/cache"
	"github.com/ray-remotestate/greatwok/database/dbhelper"
	"github.com/ray-remotestate/greatwok/models"
	"github.com/ray-remotestate/greatwok/utils"
)

type createDishRequest struct {
	DishName    string           `json:"dish_name" validate:"required,min=3"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required,price"`
	CategoryID  *int64           `json:"category_id" validate:"omitempty,min=1"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
	IsAvailable *bool            `json:"is_available"`
}

type updateDishRequest struct {
	DishName    *string          `json:"dish_name" validate:"omitempty,min=3"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,price"`
	CategoryID  *int64           `json:"category_id" validate:"omitempty,min=1"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
	IsAvailable *bool            `json:"is_available"`
}

func parseDishFilter(r *http.Request) (dbhelper.DishFilter, error) {
	var filter dbhelper.DishFilter
	q := r.URL.Query()

	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, &utils.ValidationError{Errors: []utils.FieldError{{Field: "category_id", Message: "must be a positive integer"}}}
		}
		filter.CategoryID = &id
	}
	if raw := q.Get("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, &utils.ValidationError{Errors: []utils.FieldError{{Field: "available", Message: "must be true or false"}}}
		}
		filter.Available = &available
	}
	return filter, nil
}

func ListDishes(w http.ResponseWriter, r *http.Request) {
	filter, err := parseDishFilter(r)
	if err != nil {
		utils.RespondBadRequest(w, err)
		return
	}
	unfiltered := filter.CategoryID == nil && filter.Available == nil

	var dishes []models.Dish
	if unfiltered && cache.GetJSON(r.Context(), cache.KeyDishes, &dishes) {
		utils.RespondJSON(w, http.StatusOK, dishes)
		return
	}

	dishes, err = dbhelper.ListDishes(r.Context(), filter)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to fetch dishes")
		return
	}
	if unfiltered {
		cache.SetJSON(r.Context(), cache.KeyDishes, dishes)
	}
	utils.RespondJSON(w, http.StatusOK, dishes)
}

func GetDish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "dish ID")
	if !ok {
		return
	}

	dish, err := dbhelper.GetDish(r.Context(), id)
	if err != nil {
		respondDBError(w, r, err, "Dish not found", "failed to fetch dish")
		return
	}
	utils.RespondJSON(w, http.StatusOK, dish)
}

func CreateDish(w http.ResponseWriter, r *http.Request) {
	var req createDishRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondBadRequest(w, err)
		return
	}
	req.DishName = strings.TrimSpace(req.DishName)
	if err := utils.Validate(&req); err != nil {
		utils.RespondBadRequest(w, err)
		return
	}

	dish, err := dbhelper.CreateDish(r.Context(), dbhelper.DishFields{
		DishName:    &req.DishName,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		if dbhelper.IsForeignKeyViolation(err) {
			utils.RespondError(w, http.StatusBadRequest, "Category does not exist")
			return
		}
		utils.RespondInternal(w, r, err, "failed to create dish")
		return
	}
	cache.InvalidateCatalog(r.Context())
	utils.RespondJSON(w, http.StatusCreated, dish)
}

func UpdateDish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "dish ID")
	if !ok {
		return
	}

	var req updateDishRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondBadRequest(w, err)
		return
	}
	if req.DishName != nil {
		trimmed := strings.TrimSpace(*req.DishName)
		req.DishName = &trimmed
	}
	if err := utils.Validate(&req); err != nil {
		utils.RespondBadRequest(w, err)
		return
	}

	dish, err := dbhelper.UpdateDish(r.Context(), id, dbhelper.DishFields{
		DishName:    req.DishName,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		if dbhelper.IsForeignKeyViolation(err) {
			utils.RespondError(w, http.StatusBadRequest, "Category does not exist")
			return
		}
		respondDBError(w, r, err, "Dish not found", "failed to update dish")
		return
	}
	cache.InvalidateCatalog(r.Context())
	utils.RespondJSON(w, http.StatusOK, dish)
}

func DeleteDish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "dish ID")
	if !ok {
		return
	}

	if err := dbhelper.DeleteDish(r.Context(), id); err != nil {
		respondDBError(w, r, err, "Dish not found", "failed to delete dish")
		return
	}
	cache.InvalidateCatalog(r.Context())
	utils.RespondMessage(w, http.StatusOK, "Dish deleted successfully")
}
