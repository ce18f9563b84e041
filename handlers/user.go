package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/greatwok/database/dbhelper"
	"github.com/ray-remotestate/greatwok/middlewares"
	"github.com/ray-remotestate/greatwok/models"
	"github.com/ray-remotestate/greatwok/utils"
)

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func Signup(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Username string  `json:"username" validate:"required,min=3"`
		Email    string  `json:"email" validate:"required,email"`
		Password string  `json:"password" validate:"required,min=6"`
		Phone    *string `json:"phone" validate:"omitempty,phone"`
	}

	var req request
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.RespondBadRequest(w, err)
		return
	}

	exists, err := dbhelper.IsUserExists(r.Context(), req.Email)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to check user existence")
		return
	}
	if exists {
		utils.RespondError(w, http.StatusBadRequest, "User already exists")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to hash password")
		return
	}

	user, err := dbhelper.CreateUser(r.Context(), req.Username, req.Email, hashedPassword, req.Phone, models.RoleUser)
	if err != nil {
		if dbhelper.IsUniqueViolation(err) {
			utils.RespondError(w, http.StatusBadRequest, "User already exists")
			return
		}
		utils.RespondInternal(w, r, err, "failed to create user")
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to generate token")
		return
	}

	logrus.WithField("user_id", user.UserID).Info("user signed up")
	utils.RespondJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

func Login(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	var req request
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.RespondBadRequest(w, err)
		return
	}

	user, err := dbhelper.GetUserByEmail(r.Context(), req.Email)
	if dbhelper.IsNotFound(err) {
		utils.RespondError(w, http.StatusBadRequest, "User not found. Please register first.")
		return
	} else if err != nil {
		utils.RespondInternal(w, r, err, "failed to load user")
		return
	}

	if user.Password == nil || !utils.CheckPassword(*user.Password, req.Password) {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid password. Please try again.")
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to generate token")
		return
	}

	utils.RespondJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

func GuestLogin(w http.ResponseWriter, r *http.Request) {
	username := fmt.Sprintf("Guest_%d", time.Now().UnixMilli())

	user, err := dbhelper.CreateGuestUser(r.Context(), username)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to create guest user")
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to generate token")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

func Profile(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	user, err := dbhelper.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		respondDBError(w, r, err, "User not found", "failed to fetch user profile")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]*models.User{"user": user})
}

func UpdatePhone(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Phone string `json:"phone" validate:"required,phone"`
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

	if err := dbhelper.UpdatePhone(r.Context(), claims.UserID, req.Phone); err != nil {
		respondDBError(w, r, err, "User not found", "failed to update phone number")
		return
	}

	utils.RespondMessage(w, http.StatusOK, "Phone number updated successfully")
}

func ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := dbhelper.ListUsers(r.Context())
	if err != nil {
		utils.RespondInternal(w, r, err, "failed to fetch users")
		return
	}
	utils.RespondJSON(w, http.StatusOK, users)
}

func UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Role models.Role `json:"role" validate:"required,oneof=admin user guest"`
	}

	id, ok := pathID(w, r, "id", "user ID")
	if !ok {
		return
	}

	var req request
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.RespondBadRequest(w, err)
		return
	}

	user, err := dbhelper.UpdateUserRole(r.Context(), id, req.Role)
	if err != nil {
		respondDBError(w, r, err, "User not found", "failed to update user role")
		return
	}

	// existing tokens keep the old role until they expire
	logrus.WithFields(logrus.Fields{"user_id": id, "role": req.Role}).Info("user role changed")
	utils.RespondJSON(w, http.StatusOK, user)
}

func AdminWelcome(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "No token provided")
		return
	}
	utils.RespondMessage(w, http.StatusOK, fmt.Sprintf("Welcome to the admin area, %s", claims.Username))
}
