package handlers

import (
	"net/http"

	"github.com/ray-remotestate/greatwok/database/dbhelper"
	"github.com/ray-remotestate/greatwok/middlewares"
	"github.com/ray-remotestate/greatwok/models"
	"github.com/ray-remotestate/greatwok/utils"
)

func CreateReview(w http.ResponseWriter, r *http.Request) {
	type request struct {
		UserID  int64   `json:"user_id" validate:"omitempty,min=1"`
		DishID  int64   `json:"dish_id" validate:"required,min=1"`
		Rating  int     `json:"rating" validate:"required,min=1,max=5"`
		Comment *string `json:"comment" validate:"omitempty,max=2000"`
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

	exists, err := dbhelper.DishExists(r.Context(), req.DishID)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to check dish")
		return
	}
	if !exists {
		utils.RespondError(w, http.StatusBadRequest, "Invalid dish_id. The dish does not exist.")
		return
	}

	review, err := dbhelper.CreateReview(r.Context(), req.UserID, req.DishID, req.Rating, req.Comment)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to create review")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, review)
}

func ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := dbhelper.ListReviews(r.Context())
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to fetch reviews")
		return
	}
	utils.RespondJSON(w, http.StatusOK, reviews)
}

func ListReviewsByDish(w http.ResponseWriter, r *http.Request) {
	dishID, ok := pathID(w, r, "dish_id", "dish ID")
	if !ok {
		return
	}

	reviews, err := dbhelper.ListReviewsByDish(r.Context(), dishID)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to fetch reviews")
		return
	}
	utils.RespondJSON(w, http.StatusOK, reviews)
}

func ListReviewsByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "user_id", "user ID")
	if !ok {
		return
	}

	reviews, err := dbhelper.ListReviewsByUser(r.Context(), userID)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to fetch reviews")
		return
	}
	utils.RespondJSON(w, http.StatusOK, reviews)
}

func ownedReview(w http.ResponseWriter, r *http.Request) (*models.Review, bool) {
	id, ok := pathID(w, r, "id", "review ID")
	if !ok {
		return nil, false
	}

	review, err := dbhelper.GetReview(r.Context(), id)
	if err != nil {
		respondDBError(w, r, err, "Review not found", "failed to fetch review")
		return nil, false
	}
	if !requireOwner(w, r, review.UserID) {
		return nil, false
	}
	return review, true
}

func UpdateReview(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
		Comment *string `json:"comment" validate:"omitempty,max=2000"`
	}

	review, ok := ownedReview(w, r)
	if !ok {
		return
	}

	var req request
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.RespondBadRequest(w, err)
		return
	}

	updated, err := dbhelper.UpdateReview(r.Context(), review.ReviewID, req.Rating, req.Comment)
	if err != nil {
		respondDBError(w, r, err, "Review not found", "failed to update review")
		return
	}
	utils.RespondJSON(w, http.StatusOK, updated)
}

func DeleteReview(w http.ResponseWriter, r *http.Request) {
	review, ok := ownedReview(w, r)
	if !ok {
		return
	}

	if err := dbhelper.DeleteReview(r.Context(), review.ReviewID); err != nil {
		respondDBError(w, r, err, "Review not found", "failed to delete review")
		return
	}
	utils.RespondMessage(w, http.StatusOK, "Review deleted successfully")
}
