package images

import (
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mivura/feedbed/api/common"
	"github.com/mivura/feedbed/internal/apperr"
	"github.com/mivura/feedbed/storage"
	"github.com/mivura/feedbed/storage/local"
	"github.com/mivura/feedbed/utils"
)

// Handler 图片接口处理器
type Handler struct {
	store storage.Provider
}

// NewHandler 创建新的图片处理器
func NewHandler(store storage.Provider) *Handler {
	return &Handler{store: store}
}

// GetImage 按标识符返回存储的图片
// @Summary Serve a stored image
// @Produce octet-stream
// @Param identifier path string true "Image identifier"
// @Success 200
// @Router /images/{identifier} [get]
func (h *Handler) GetImage(c *gin.Context) {
	identifier := c.Param("identifier")
	if !local.IsValidIdentifier(identifier) {
		common.RespondError(c, apperr.NotFound("Could not find image."))
		return
	}

	stream, err := h.store.GetWithContext(c.Request.Context(), identifier)
	if err != nil {
		log.Printf("Image %s not found in storage: %v", utils.SanitizeLogMessage(identifier), err)
		common.RespondError(c, apperr.NotFound("Could not find image."))
		return
	}
	defer func() {
		if closer, ok := stream.(io.Closer); ok {
			_ = closer.Close()
		}
	}()

	contentType, err := sniffContentType(stream)
	if err != nil {
		common.RespondError(c, apperr.Internal("Error retrieving image.", err))
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=2592000, immutable")
	http.ServeContent(c.Writer, c.Request, identifier, time.Time{}, stream)
}

// sniffContentType 嗅探流的内容类型并回到流起点
func sniffContentType(stream io.ReadSeeker) (string, error) {
	buffer := make([]byte, 512)
	n, err := stream.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := stream.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buffer[:n]), nil
}
