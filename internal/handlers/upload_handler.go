package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fixcars/fixcars-service/internal/utils"
	"github.com/fixcars/fixcars-service/pkg/logger"

	"github.com/google/uuid"
)

const maxUploadBytes = 5 << 20

var allowedUploadTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// UploadHandler stores profile photos and documents on local disk and
// returns a public URL for them.
type UploadHandler struct {
	Log       logger.ILogger
	UploadDir string
	BaseURL   string
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(log logger.ILogger, uploadDir, baseURL string) *UploadHandler {
	return &UploadHandler{
		Log:       log,
		UploadDir: uploadDir,
		BaseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Upload accepts one multipart file under the "file" field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "file too large or malformed multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	// Sniff the real content type, the client header is not trusted.
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		h.Log.Error("failed to read upload", logger.Error(err))
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	contentType := http.DetectContentType(head[:n])
	ext, ok := allowedUploadTypes[contentType]
	if !ok {
		utils.SendErrorResponse(w, http.StatusBadRequest, "unsupported file type: "+contentType)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		h.Log.Error("failed to rewind upload", logger.Error(err))
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(h.UploadDir, name))
	if err != nil {
		h.Log.Error("failed to create upload file", logger.Error(err))
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		h.Log.Error("failed to write upload file", logger.Error(err))
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	h.Log.Info("stored upload",
		logger.String("name", name),
		logger.String("original", header.Filename),
		logger.Int64("size", header.Size))

	utils.SendJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"url":     h.BaseURL + "/uploads/" + name,
	})
}
