package handlers

import (
	"database/sql/driver"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/greatwok/models"
	"github.com/ray-remotestate/greatwok/utils"
)

// hashOf matches a bcrypt hash of plain, never plain itself.
type hashOf string

func (h hashOf) Match(v driver.Value) bool {
	s, ok := v.(string)
	return ok && s != string(h) && utils.CheckPassword(s, string(h))
}

func TestSignupCreatesUserWithHashedPassword(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`)).
		WithArgs("fan@wok.io").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("wokfan", "fan@wok.io", hashOf("secret1"), nil, models.RoleUser).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(3, "wokfan", "fan@wok.io", "$2a$10$hash", nil, "user", false, time.Now(), nil))

	rec := call(Signup, http.MethodPost, "/api/users",
		map[string]string{"username": "wokfan", "email": "fan@wok.io", "password": "secret1"}, nil, nil)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "password")
	require.NotEmpty(t, body["token"])

	claims, err := utils.ParseToken(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignupRejectsDuplicateAndInvalid(t *testing.T) {
	mock := setupMockDB(t)

	rec := call(Signup, http.MethodPost, "/api/users",
		map[string]string{"username": "wo", "email": "nope", "password": "123"}, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, decodeBody(t, rec)["errors"], 3)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("fan@wok.io").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	rec = call(Signup, http.MethodPost, "/api/users",
		map[string]string{"username": "wokfan", "email": "fan@wok.io", "password": "secret1"}, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"User already exists"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin(t *testing.T) {
	mock := setupMockDB(t)
	hashed, err := utils.HashPassword("secret1")
	require.NoError(t, err)

	mock.ExpectQuery(`FROM users WHERE LOWER\(email\)`).
		WithArgs("ghost@wok.io").
		WillReturnRows(sqlmock.NewRows(userCols))
	rec := call(Login, http.MethodPost, "/api/login",
		map[string]string{"email": "ghost@wok.io", "password": "secret1"}, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, tc := range []struct {
		password string
		want     int
	}{
		{"secret1", http.StatusOK},
		{"secret2", http.StatusUnauthorized},
	} {
		mock.ExpectQuery(`FROM users WHERE LOWER\(email\)`).
			WithArgs("fan@wok.io").
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(3, "wokfan", "fan@wok.io", hashed, nil, "user", false, time.Now(), nil))
		rec := call(Login, http.MethodPost, "/api/login",
			map[string]string{"email": "fan@wok.io", "password": tc.password}, nil, nil)
		assert.Equal(t, tc.want, rec.Code, tc.password)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestLogin(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`INSERT INTO users \(username, role, is_guest\)`).
		WithArgs(sqlmock.AnyArg(), models.RoleGuest).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(11, "Guest_1700000000000", nil, nil, nil, "guest", true, time.Now(), nil))

	rec := call(GuestLogin, http.MethodPost, "/api/guest", nil, nil, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, true, user["is_guest"])
	assert.Equal(t, "guest", user["role"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePhone(t *testing.T) {
	mock := setupMockDB(t)

	rec := call(UpdatePhone, http.MethodPut, "/api/profile/phone", map[string]string{"phone": "call me"}, nil, userClaims(3))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mock.ExpectExec(`UPDATE users SET phone`).
		WithArgs("+44 20 7946 0958", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	rec = call(UpdatePhone, http.MethodPut, "/api/profile/phone", map[string]string{"phone": "+44 20 7946 0958"}, nil, userClaims(3))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserRole(t *testing.T) {
	mock := setupMockDB(t)

	rec := call(UpdateUserRole, http.MethodPut, "/api/users/3/role", map[string]string{"role": "owner"}, map[string]string{"id": "3"}, adminClaims())
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mock.ExpectQuery(`UPDATE users SET role`).
		WithArgs(models.RoleAdmin, int64(3)).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(3, "wokfan", "fan@wok.io", "hash", nil, "admin", false, time.Now(), time.Now()))
	rec = call(UpdateUserRole, http.MethodPut, "/api/users/3/role", map[string]string{"role": "admin"}, map[string]string{"id": "3"}, adminClaims())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", decodeBody(t, rec)["role"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfile(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery(`FROM users WHERE user_id`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(3, "diner", "diner@wok.io", "$2a$10$hash", nil, "user", false, time.Now(), nil))

	rec := call(Profile, http.MethodGet, "/api/profile", nil, nil, userClaims(3))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	user := decodeBody(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, "diner@wok.io", user["email"])
	assert.NotContains(t, user, "password")

	rec = call(Profile, http.MethodGet, "/api/profile", nil, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
