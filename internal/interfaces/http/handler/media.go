package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/nyumbani/backend/internal/infrastructure/media"
)

// maxImageBytes caps one uploaded image at 10 MiB
const maxImageBytes = 10 << 20

// MediaHandler handles property image uploads
type MediaHandler struct {
	BaseHandler
	cloudinary *media.CloudinaryClient
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(cloudinary *media.CloudinaryClient) *MediaHandler {
	return &MediaHandler{cloudinary: cloudinary}
}

// RegisterRoutes registers media routes
func (h *MediaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/media")
	group.POST("/images", h.UploadImages)
}

// UploadImages accepts multipart image files under the "images" field and
// uploads them to Cloudinary. Per-file failures are reported in the result
// slots rather than failing the whole batch.
func (h *MediaHandler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.BadRequest(c, "Expected multipart form data")
		return
	}

	headers := form.File["images"]
	if len(headers) == 0 {
		h.BadRequest(c, "No images provided")
		return
	}
	if len(headers) > 10 {
		h.BadRequest(c, "At most 10 images per upload")
		return
	}

	files := make([]media.File, 0, len(headers))
	for _, header := range headers {
		if header.Size > maxImageBytes {
			h.BadRequest(c, "Image "+header.Filename+" exceeds the 10MB limit")
			return
		}

		f, err := header.Open()
		if err != nil {
			h.BadRequest(c, "Could not read image "+header.Filename)
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.BadRequest(c, "Could not read image "+header.Filename)
			return
		}

		files = append(files, media.File{Name: header.Filename, Content: content})
	}

	results := h.cloudinary.UploadBatch(c.Request.Context(), files)
	h.Success(c, results)
}
