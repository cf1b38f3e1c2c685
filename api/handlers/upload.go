package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wecarehhcs/homecare-api/config"
)

// maxUploadBytes caps a single upload at 10 MiB.
const maxUploadBytes = 10 << 20

var errBadUploadType = errors.New("file type not allowed")

// allowedUploadExts are the document and image types accepted for upload.
var allowedUploadExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// Upload exported for testing purposes
type Upload struct {
	Config config.Config
}

// UploadHandler stores a multipart file under the uploads root and returns
// its served path. Filenames are regenerated, the client name is only used
// for its extension.
func (u Upload) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		config.ErrorStatus("failed to parse multipart form", http.StatusBadRequest, w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		config.ErrorStatus("file field is required", http.StatusBadRequest, w, err)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExts[ext] {
		config.ErrorStatus("file type not allowed", http.StatusBadRequest, w, errBadUploadType)
		return
	}

	if err := os.MkdirAll(u.Config.UploadsDir, 0o755); err != nil {
		config.ErrorStatus("failed to prepare uploads directory", http.StatusInternalServerError, w, err)
		return
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(u.Config.UploadsDir, name))
	if err != nil {
		config.ErrorStatus("failed to create file", http.StatusInternalServerError, w, err)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		config.ErrorStatus("failed to write file", http.StatusInternalServerError, w, err)
		return
	}

	path := "/uploads/" + name
	zap.S().Infow("file uploaded", "path", path, "size", header.Size)

	b, _ := json.Marshal(map[string]string{
		"path": path,
		"url":  u.Config.BaseUrl + path,
	})
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}
