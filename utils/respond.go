package utils

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

const msgInternal = "Internal server error"

func RespondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"error": message})
}

func RespondMessage(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"message": message})
}

// RespondInternal logs err with the given message and hides it from the client.
func RespondInternal(w http.ResponseWriter, r *http.Request, err error, message string) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error(message)
	RespondError(w, http.StatusInternalServerError, msgInternal)
}
