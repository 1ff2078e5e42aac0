package http

import (
	"io"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/storage"
)

// ImageHandler serves stored product images
type ImageHandler struct {
	log   hclog.Logger
	store storage.Store
}

func NewImageHandler(l hclog.Logger, s storage.Store) *ImageHandler {
	return &ImageHandler{log: l, store: s}
}

// swagger:route GET /images/{filename} images getImage
//
// Returns a stored product image.
//
// Responses:
//
//	200: imageResponse
//	404: errorResponse
func (h *ImageHandler) GetImage(rw http.ResponseWriter, r *http.Request) {
	fn := mux.Vars(r)["filename"]
	h.log.Debug("Handle GET image", "filename", fn)

	file, err := h.store.Get(fn)
	if err != nil {
		writeError(rw, h.log, err)
		return
	}
	defer file.Close()

	contentType, err := getContentType(file)
	if err != nil {
		h.log.Error("Unable to detect content type", "error", err)
		contentType = "application/octet-stream"
	}
	rw.Header().Set("Content-Type", contentType)
	rw.Header().Set("Cache-Control", "public, max-age=86400")

	if _, err := io.Copy(rw, file); err != nil {
		h.log.Error("Unable to write file to response", "filename", fn, "error", err)
	}
}

// getContentType sniffs the MIME type from the first 512 bytes and rewinds
func getContentType(file *os.File) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
