package handlers

import (
	"errors"
	"net/http"

	"github.com/ray-remotestate/greatwok/database/dbhelper"
	"github.com/ray-remotestate/greatwok/middlewares"
	"github.com/ray-remotestate/greatwok/models"
	"github.com/ray-remotestate/greatwok/utils"
)

// respondDBError maps the storage errors every resource shares onto HTTP statuses.
func respondDBError(w http.ResponseWriter, r *http.Request, err error, notFound, failure string) {
	switch {
	case dbhelper.IsNotFound(err):
		utils.RespondError(w, http.StatusNotFound, notFound)
	case dbhelper.IsOutOfRange(err):
		utils.RespondError(w, http.StatusBadRequest, "Value is out of range")
	case dbhelper.IsForeignKeyViolation(err):
		utils.RespondError(w, http.StatusConflict, "Resource is referenced by other records")
	case errors.Is(err, dbhelper.ErrVersionConflict):
		utils.RespondError(w, http.StatusConflict, "Resource was modified by another request, reload and retry")
	case errors.Is(err, models.ErrUnknownStatus):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrIllegalTransition):
		utils.RespondError(w, http.StatusConflict, err.Error())
	default:
		utils.RespondInternal(w, r, err, failure)
	}
}

// requireOwner writes a 403 unless the caller owns userID or is an admin.
func requireOwner(w http.ResponseWriter, r *http.Request, userID int64) bool {
	if middlewares.CanActAs(r, userID) {
		return true
	}
	utils.RespondError(w, http.StatusForbidden, "Access denied")
	return false
}

func pathID(w http.ResponseWriter, r *http.Request, name, label string) (int64, bool) {
	id, err := utils.PathID(r, name)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid "+label+" provided. ID must be a number.")
		return 0, false
	}
	return id, true
}
