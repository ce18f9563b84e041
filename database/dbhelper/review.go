package dbhelper

import (
	"context"

	"github.com/ray-remotestate/greatwok/database"
	"github.com/ray-remotestate/greatwok/models"
)

const reviewColumns = `review_id, user_id, dish_id, rating, comment, created_at, updated_at`

func CreateReview(ctx context.Context, userID, dishID int64, rating int, comment *string) (*models.Review, error) {
	var r models.Review
	err := database.Wok.GetContext(ctx, &r, `
		INSERT INTO reviews (user_id, dish_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING `+reviewColumns,
		userID, dishID, rating, comment)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func GetReview(ctx context.Context, id int64) (*models.Review, error) {
	var r models.Review
	if err := database.Wok.GetContext(ctx, &r, `SELECT `+reviewColumns+` FROM reviews WHERE review_id = $1`, id); err != nil {
		return nil, err
	}
	return &r, nil
}

func ListReviews(ctx context.Context) ([]models.ReviewDetail, error) {
	reviews := []models.ReviewDetail{}
	err := database.Wok.SelectContext(ctx, &reviews, `
		SELECT r.review_id, r.rating, r.comment, d.dish_name, u.username, r.created_at
		FROM reviews r
		JOIN dishes d ON r.dish_id = d.dish_id
		JOIN users u ON r.user_id = u.user_id
		ORDER BY r.created_at DESC`)
	return reviews, err
}

func ListReviewsByDish(ctx context.Context, dishID int64) ([]models.Review, error) {
	reviews := []models.Review{}
	err := database.Wok.SelectContext(ctx, &reviews, `
		SELECT `+reviewColumns+` FROM reviews WHERE dish_id = $1 ORDER BY created_at DESC`, dishID)
	return reviews, err
}

func ListReviewsByUser(ctx context.Context, userID int64) ([]models.Review, error) {
	reviews := []models.Review{}
	err := database.Wok.SelectContext(ctx, &reviews, `
		SELECT `+reviewColumns+` FROM reviews WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	return reviews, err
}

func UpdateReview(ctx context.Context, id int64, rating *int, comment *string) (*models.Review, error) {
	var r models.Review
	err := database.Wok.GetContext(ctx, &r, `
		UPDATE reviews SET
			rating = COALESCE($1, rating),
			comment = COALESCE($2, comment),
			updated_at = NOW()
		WHERE review_id = $3
		RETURNING `+reviewColumns,
		rating, comment, id)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func DeleteReview(ctx context.Context, id int64) error {
	return affectedOrNotFound(database.Wok.ExecContext(ctx, `DELETE FROM reviews WHERE review_id = $1`, id))
}
