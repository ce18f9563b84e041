package handlers

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/greatwok/cache"
	"github.com/ray-remotestate/greatwok/config"
	"github.com/ray-remotestate/greatwok/database"
	"github.com/ray-remotestate/greatwok/middlewares"
	"github.com/ray-remotestate/greatwok/models"
)

var (
	userCols     = []string{"user_id", "username", "email", "password", "phone", "role", "is_guest", "created_at", "updated_at"}
	dishCols     = []string{"dish_id", "dish_name", "description", "price", "category_id", "image_url", "is_available", "created_at", "updated_at"}
	cartCols     = []string{"cart_item_id", "user_id", "dish_id", "quantity"}
	orderCols    = []string{"order_id", "user_id", "total_price", "address_id", "status", "delivery_type", "idempotency_key", "placed_at", "updated_at"}
	orderItemCol = []string{"order_item_id", "order_id", "dish_id", "quantity", "price", "status"}
)

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	prev := database.Wok
	database.Wok = sqlx.NewDb(db, "postgres")
	prevCache := cache.Default
	cache.Default = cache.NewLocal(16, time.Minute)
	config.SecretKey = []byte("handler-secret")

	t.Cleanup(func() {
		database.Wok = prev
		cache.Default = prevCache
		db.Close()
	})
	return mock
}

// call runs h with optional path vars and caller claims.
func call(h http.HandlerFunc, method, target string, body interface{}, vars map[string]string, claims *models.Claims) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	if claims != nil {
		req = req.WithContext(middlewares.WithClaims(req.Context(), claims))
	}

	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func userClaims(id int64) *models.Claims {
	return &models.Claims{UserID: id, Username: "diner", Role: models.RoleUser}
}

func adminClaims() *models.Claims {
	return &models.Claims{UserID: 1, Username: "chef", Role: models.RoleAdmin}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// decimalArg matches a money argument by value, whatever its textual form.
type decimalArg string

func (d decimalArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	got, err := decimal.NewFromString(s)
	if err != nil {
		return false
	}
	return got.Equal(decimal.RequireFromString(string(d)))
}
