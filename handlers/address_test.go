package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var addressCols = []string{"address_id", "user_id", "address_line", "city", "state", "country", "postal_code", "created_at", "updated_at"}

func TestCreateAddressDefaultsToCaller(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery(`INSERT INTO addresses`).
		WithArgs(int64(3), "12 Lotus Lane", "Kolkata", "WB", "India", "700001").
		WillReturnRows(sqlmock.NewRows(addressCols).
			AddRow(10, 3, "12 Lotus Lane", "Kolkata", "WB", "India", "700001", time.Now(), nil))

	rec := call(CreateAddress, http.MethodPost, "/api/address", map[string]string{
		"address_line": "12 Lotus Lane",
		"city":         "Kolkata",
		"state":        "WB",
		"country":      "India",
		"postal_code":  "700001",
	}, nil, userClaims(3))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, float64(10), decodeBody(t, rec)["address_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAddressMissingFields(t *testing.T) {
	setupMockDB(t)

	rec := call(CreateAddress, http.MethodPost, "/api/address", map[string]string{"city": "Kolkata"}, nil, userClaims(3))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "address_line")
}

func TestAddressOwnership(t *testing.T) {
	mock := setupMockDB(t)

	rec := call(ListAddresses, http.MethodGet, "/api/addresses/3", nil, map[string]string{"user_id": "3"}, userClaims(4))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	mock.ExpectQuery(`FROM addresses WHERE address_id`).
		WithArgs(int64(99)).
		WillReturnError(sqlmock.ErrCancelled)
	rec = call(GetAddress, http.MethodGet, "/api/address/99", nil, map[string]string{"id": "99"}, userClaims(3))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = call(GetAddress, http.MethodGet, "/api/address/abc", nil, map[string]string{"id": "abc"}, userClaims(3))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}
