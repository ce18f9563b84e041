package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/greatwok/database"
	"github.com/ray-remotestate/greatwok/utils"
)

func Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := database.HealthCheck(ctx); err != nil {
		logrus.WithError(err).Error("health check failed")
		utils.RespondJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status":      "DOWN",
			"dbConnected": false,
		})
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "UP",
		"dbConnected": true,
	})
}
