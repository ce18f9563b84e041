package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewCols = []string{"review_id", "user_id", "dish_id", "rating", "comment", "created_at", "updated_at"}

func TestCreateReviewValidatesRating(t *testing.T) {
	mock := setupMockDB(t)

	for _, rating := range []int{0, 6} {
		rec := call(CreateReview, http.MethodPost, "/api/reviews", map[string]int{"dish_id": 7, "rating": rating}, nil, userClaims(3))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "rating %d", rating)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReviewRequiresExistingDish(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM dishes WHERE dish_id = \$1\)`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	rec := call(CreateReview, http.MethodPost, "/api/reviews", map[string]int{"dish_id": 404, "rating": 4}, nil, userClaims(3))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid dish_id. The dish does not exist.", decodeBody(t, rec)["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReview(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`INSERT INTO reviews`).
		WithArgs(int64(3), int64(7), 5, "Great wok hei").
		WillReturnRows(sqlmock.NewRows(reviewCols).AddRow(1, 3, 7, 5, "Great wok hei", time.Now(), nil))

	rec := call(CreateReview, http.MethodPost, "/api/reviews",
		map[string]interface{}{"dish_id": 7, "rating": 5, "comment": "Great wok hei"}, nil, userClaims(3))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, float64(5), decodeBody(t, rec)["rating"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReviewOnlyByAuthorOrAdmin(t *testing.T) {
	mock := setupMockDB(t)
	vars := map[string]string{"id": "1"}

	mock.ExpectQuery(`FROM reviews WHERE review_id`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(reviewCols).AddRow(1, 3, 7, 5, nil, time.Now(), nil))
	rec := call(UpdateReview, http.MethodPut, "/api/reviews/1", map[string]int{"rating": 1}, vars, userClaims(4))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	mock.ExpectQuery(`FROM reviews WHERE review_id`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(reviewCols).AddRow(1, 3, 7, 5, nil, time.Now(), nil))
	mock.ExpectExec(`DELETE FROM reviews WHERE review_id`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	rec = call(DeleteReview, http.MethodDelete, "/api/reviews/1", nil, vars, adminClaims())
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReviewsByDishEmpty(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery(`FROM reviews WHERE dish_id`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(reviewCols))

	rec := call(ListReviewsByDish, http.MethodGet, "/api/reviews/7", nil, map[string]string{"dish_id": "7"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
