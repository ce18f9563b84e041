package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/greatwok/config"
	"github.com/ray-remotestate/greatwok/metrics"
	"github.com/ray-remotestate/greatwok/objectstore"
	"github.com/ray-remotestate/greatwok/utils"
)

const sniffLen = 512

// UploadImage stores one multipart "file" in the bucket and returns its public URL.
func UploadImage(w http.ResponseWriter, r *http.Request) {
	store := objectstore.Default
	if store == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "Image uploads are not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondError(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		utils.RespondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		utils.RespondInternal(w, r, err, "failed to read upload")
		return
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if n == 0 || !strings.HasPrefix(contentType, "image/") {
		utils.RespondError(w, http.StatusBadRequest, "Only image files can be uploaded")
		return
	}

	key := objectstore.ObjectKey(time.Now(), header.Filename)
	url, err := store.Put(r.Context(), key, contentType, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		metrics.RecordImageUpload(false)
		logrus.WithError(err).WithField("key", key).Error("image upload failed")
		utils.RespondError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	metrics.RecordImageUpload(true)
	logrus.WithFields(logrus.Fields{"key": key, "bytes": header.Size, "content_type": contentType}).Info("image uploaded")
	utils.RespondJSON(w, http.StatusOK, map[string]string{"imageUrl": url})
}
