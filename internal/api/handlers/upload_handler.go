package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"mysre-api/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// UploadHandler moves article documents in and out of object storage
type UploadHandler struct {
	storage services.StorageService
}

func NewUploadHandler(storage services.StorageService) *UploadHandler {
	return &UploadHandler{storage: storage}
}

type uploadResponse struct {
	URL      string `json:"url"`
	FilePath string `json:"file_path"`
	Error    string `json:"error,omitempty"`
}

const maxUploadSize = 25 << 20 // 25 MB

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(maxUploadSize)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		http.Error(w, "File size exceeds the maximum allowed limit", http.StatusBadRequest)
		return
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Keys are namespaced by date so object listings stay navigable
	key := fmt.Sprintf("%s/%s%s",
		time.Now().UTC().Format("2006/01"),
		uuid.NewString(),
		filepath.Ext(header.Filename),
	)

	url, err := h.storage.Upload(
		services.DocumentsBucket,
		key,
		bytes.NewReader(buffer),
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{URL: url, FilePath: key})
}

func (h *UploadHandler) Download(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}

	body, err := h.storage.Download(services.DocumentsBucket, key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	io.Copy(w, body)
}
