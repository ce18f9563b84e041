package dbhelper

import (
	"context"

	"github.com/ray-remotestate/greatwok/database"
	"github.com/ray-remotestate/greatwok/models"
)

const addressColumns = `address_id, user_id, address_line, city, state, country, postal_code, created_at, updated_at`

type AddressFields struct {
	AddressLine *string
	City        *string
	State       *string
	Country     *string
	PostalCode  *string
}

func ListAddresses(ctx context.Context, userID int64) ([]models.Address, error) {
	addresses := []models.Address{}
	err := database.Wok.SelectContext(ctx, &addresses, `
		SELECT `+addressColumns+` FROM addresses WHERE user_id = $1 ORDER BY address_id ASC`, userID)
	return addresses, err
}

func GetAddress(ctx context.Context, id int64) (*models.Address, error) {
	var a models.Address
	if err := database.Wok.GetContext(ctx, &a, `SELECT `+addressColumns+` FROM addresses WHERE address_id = $1`, id); err != nil {
		return nil, err
	}
	return &a, nil
}

func CreateAddress(ctx context.Context, userID int64, f AddressFields) (*models.Address, error) {
	var a models.Address
	err := database.Wok.GetContext(ctx, &a, `
		INSERT INTO addresses (user_id, address_line, city, state, country, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+addressColumns,
		userID, f.AddressLine, f.City, f.State, f.Country, f.PostalCode)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func UpdateAddress(ctx context.Context, id int64, f AddressFields) (*models.Address, error) {
	var a models.Address
	err := database.Wok.GetContext(ctx, &a, `
		UPDATE addresses SET
			address_line = COALESCE($1, address_line),
			city = COALESCE($2, city),
			state = COALESCE($3, state),
			country = COALESCE($4, country),
			postal_code = COALESCE($5, postal_code),
			updated_at = NOW()
		WHERE address_id = $6
		RETURNING `+addressColumns,
		f.AddressLine, f.City, f.State, f.Country, f.PostalCode, id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func DeleteAddress(ctx context.Context, id int64) error {
	return affectedOrNotFound(database.Wok.ExecContext(ctx, `DELETE FROM addresses WHERE address_id = $1`, id))
}
