package dbhelper

import (
	"context"

	"github.com/ray-remotestate/greatwok/database"
	"github.com/ray-remotestate/greatwok/models"
)

const userColumns = `user_id, username, email, password, phone, role, is_guest, created_at, updated_at`

func CreateUser(ctx context.Context, username, email, hashedPassword string, phone *string, role models.Role) (*models.User, error) {
	var user models.User
	err := database.Wok.GetContext(ctx, &user, `
		INSERT INTO users (username, email, password, phone, role, is_guest)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING `+userColumns,
		username, email, hashedPassword, phone, role)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateGuestUser(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := database.Wok.GetContext(ctx, &user, `
		INSERT INTO users (username, role, is_guest)
		VALUES ($1, $2, TRUE)
		RETURNING `+userColumns,
		username, models.RoleGuest)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func IsUserExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := database.Wok.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email)
	return exists, err
}

func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := database.Wok.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := database.Wok.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := database.Wok.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY user_id ASC`)
	return users, err
}

func UpdatePhone(ctx context.Context, id int64, phone string) error {
	return affectedOrNotFound(database.Wok.ExecContext(ctx, `
		UPDATE users SET phone = $1, updated_at = NOW() WHERE user_id = $2`, phone, id))
}

func UpdateUserRole(ctx context.Context, id int64, role models.Role) (*models.User, error) {
	var user models.User
	err := database.Wok.GetContext(ctx, &user, `
		UPDATE users SET role = $1, updated_at = NOW()
		WHERE user_id = $2
		RETURNING `+userColumns,
		role, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
