package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devmonks/metrdotel/internal/storage"
	"github.com/devmonks/metrdotel/pkg/response"
)

// ImageHandler serves stored images back by name.
type ImageHandler struct {
	store storage.FileStore
}

// NewImageHandler constructs the handler.
func NewImageHandler(store storage.FileStore) *ImageHandler {
	return &ImageHandler{store: store}
}

// Download streams a stored image to the client.
func (h *ImageHandler) Download(c *gin.Context) {
	reader, err := h.store.Open(c.Param("name"))
	if err != nil {
		response.Error(c, serviceError(err))
		return
	}
	defer reader.Close()

	c.Status(http.StatusOK)
	io.Copy(c.Writer, reader)
}
