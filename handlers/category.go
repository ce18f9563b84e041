package handlers

import (
	"net/http"
	"strings"

	"github.com/ray-remotestate/greatwok/cache"
	"github.com/ray-remotestate/greatwok/database/dbhelper"
	"github.com/ray-remotestate/greatwok/models"
	"github.com/ray-remotestate/greatwok/utils"
)

type categoryRequest struct {
	CategoryName string `json:"category_name" validate:"required,min=3"`
}

func decodeCategory(r *http.Request) (categoryRequest, error) {
	var req categoryRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		return req, err
	}
	req.CategoryName = strings.TrimSpace(req.CategoryName)
	return req, utils.Validate(&req)
}

func ListCategories(w http.ResponseWriter, r *http.Request) {
	var categories []models.Category
	if cache.GetJSON(r.Context(), cache.KeyCategories, &categories) {
		utils.RespondJSON(w, http.StatusOK, categories)
		return
	}

	categories, err := dbhelper.ListCategories(r.Context())
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to fetch categories")
		return
	}
	cache.SetJSON(r.Context(), cache.KeyCategories, categories)
	utils.RespondJSON(w, http.StatusOK, categories)
}

func GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "category ID")
	if !ok {
		return
	}

	category, err := dbhelper.GetCategory(r.Context(), id)
	if err != nil {
		respondDBError(w, r, err, "Category not found", "failed to fetch category")
		return
	}
	utils.RespondJSON(w, http.StatusOK, category)
}

func CreateCategory(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCategory(r)
	if err != nil {
		utils.RespondBadRequest(w, err)
		return
	}

	category, err := dbhelper.CreateCategory(r.Context(), req.CategoryName)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to create category")
		return
	}
	cache.InvalidateCatalog(r.Context())
	utils.RespondJSON(w, http.StatusCreated, category)
}

func UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "category ID")
	if !ok {
		return
	}

	req, err := decodeCategory(r)
	if err != nil {
		utils.RespondBadRequest(w, err)
		return
	}

	category, err := dbhelper.UpdateCategory(r.Context(), id, req.CategoryName)
	if err != nil {
		respondDBError(w, r, err, "Category not found", "failed to update category")
		return
	}
	cache.InvalidateCatalog(r.Context())
	utils.RespondJSON(w, http.StatusOK, category)
}

func DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "category ID")
	if !ok {
		return
	}

	if err := dbhelper.DeleteCategory(r.Context(), id); err != nil {
		respondDBError(w, r, err, "Category not found", "failed to delete category")
		return
	}
	cache.InvalidateCatalog(r.Context())
	utils.RespondMessage(w, http.StatusOK, "Category deleted successfully")
}
